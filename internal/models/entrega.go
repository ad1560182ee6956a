package models

import "time"

type Entrega struct {
	ID    uint      `gorm:"primaryKey" json:"id"`
	Fecha time.Time `gorm:"not null" json:"fecha"`

	RepartidorID uint        `gorm:"not null" json:"repartidorId"`
	Repartidor   *Repartidor `json:"repartidor,omitempty"`

	ZonaID uint  `gorm:"not null" json:"zonaId"`
	Zona   *Zona `json:"zona,omitempty"`

	// Colección derivada de Pedido.EntregaID. Borrar la entrega desasocia, no borra.
	Pedidos []Pedido `gorm:"foreignKey:EntregaID" json:"pedidos,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
