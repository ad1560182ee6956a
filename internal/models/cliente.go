package models

import "time"

type Cliente struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	CUIT           string `gorm:"size:20;not null;index" json:"cuit"`
	ApellidoNombre string `gorm:"size:150;not null" json:"apellidoNombre"`
	Telefono       string `gorm:"size:30" json:"telefono"`
	Email          string `gorm:"size:100" json:"email"`
	Domicilio      string `gorm:"size:200" json:"domicilio"`
	Disponible     bool   `gorm:"not null;default:true" json:"disponible"`

	ZonaID *uint `json:"zonaId"`
	Zona   *Zona `json:"zona,omitempty"`

	Pedidos []Pedido `gorm:"foreignKey:ClienteID" json:"pedidos,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
