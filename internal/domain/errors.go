// Package domain define los errores de negocio y helpers compartidos por los
// servicios. Los handlers nunca construyen estos errores; solo los traducen a
// códigos HTTP en el ErrorHandler central.
package domain

import "fmt"

// NoEncontradoError indica que una entidad referenciada por clave no existe.
// Se mapea a 404.
type NoEncontradoError struct {
	Mensaje string
}

func (e *NoEncontradoError) Error() string { return e.Mensaje }

// ValidacionError indica que una regla de negocio rechazó la operación.
// Se mapea a 400.
type ValidacionError struct {
	Mensaje string
}

func (e *ValidacionError) Error() string { return e.Mensaje }

func notFound(format string, args ...any) *NoEncontradoError {
	return &NoEncontradoError{Mensaje: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) *ValidacionError {
	return &ValidacionError{Mensaje: fmt.Sprintf(format, args...)}
}

// Entidades no encontradas.

func ErrZonaNoEncontrada(id uint) error { return notFound("Zona no encontrada (ID: %d)", id) }

func ErrRepartidorNoEncontrado(id uint) error {
	return notFound("Repartidor no encontrado (ID: %d)", id)
}

func ErrClienteNoEncontrado(id uint) error { return notFound("Cliente no encontrado (ID: %d)", id) }

func ErrProductoNoEncontrado(codigo uint) error {
	return notFound("Producto no encontrado (código: %d)", codigo)
}

func ErrPedidoNoEncontrado(nro uint) error { return notFound("Pedido #%d no encontrado", nro) }

func ErrPedidosNoEncontrados() error {
	return notFound("Algunos de los pedidos no se encuentran")
}

func ErrPagoNoEncontrado(id uint) error { return notFound("Pago no encontrado (ID: %d)", id) }

func ErrEntregaNoEncontrada(id uint) error { return notFound("Entrega no encontrada (ID: %d)", id) }

func ErrTipoProductoNoEncontrado(id uint) error {
	return notFound("Tipo de producto no encontrado (ID: %d)", id)
}

func ErrTipoPagoNoEncontrado(id uint) error {
	return notFound("Tipo de pago no encontrado (ID: %d)", id)
}

func ErrLineaNoEncontrada(id uint) error { return notFound("Línea no encontrada (ID: %d)", id) }

// Reglas de negocio.

func ErrStockInsuficiente(codigo uint) error {
	return invalid("Stock insuficiente para el producto #%d", codigo)
}

func ErrCantidadInvalida() error {
	return invalid("La cantidad debe ser mayor que cero")
}

func ErrRepartidorDeOtraZona() error {
	return invalid("El repartidor no pertenece a la zona seleccionada")
}

func ErrPedidoNoPagado(nro uint) error {
	return invalid("El pedido #%d no está pagado.", nro)
}

func ErrEntregaAnteriorAlPedido(nro uint) error {
	return invalid("La fecha de entrega es anterior a la del pedido #%d", nro)
}

func ErrPedidoDeOtraZona(nro uint) error {
	return invalid("El pedido #%d pertenece a otra zona.", nro)
}

func ErrPagoAnteriorAlPedido(nro uint) error {
	return invalid("La fecha del pago es anterior a la del pedido #%d", nro)
}

func ErrPedidoYaAsignado(nro uint) error {
	return invalid("El pedido #%d ya está asignado a otra entrega", nro)
}

func ErrPedidoYaPagado(nro uint) error {
	return invalid("El pedido #%d ya está pagado", nro)
}
