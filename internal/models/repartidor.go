package models

import "time"

type Repartidor struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	CUIT           string `gorm:"size:20;not null;index" json:"cuit"`
	ApellidoNombre string `gorm:"size:150;not null" json:"apellidoNombre"`
	Vehiculo       string `gorm:"size:100" json:"vehiculo"`
	Disponible     bool   `gorm:"not null;default:true" json:"disponible"`

	// Un repartidor siempre pertenece a una zona; solo puede tomar entregas de esa zona.
	ZonaID uint  `gorm:"not null" json:"zonaId"`
	Zona   *Zona `json:"zona,omitempty"`

	Entregas []Entrega `gorm:"foreignKey:RepartidorID" json:"entregas,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
