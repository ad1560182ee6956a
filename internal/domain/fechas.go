package domain

import "time"

// InicioDelDia normaliza una fecha al comienzo de su día calendario.
// Todas las comparaciones de fecha entre entidades (pago vs pedido,
// entrega vs pedido) se hacen con granularidad de día.
func InicioDelDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
