package models

import "time"

type TipoPago struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Nombre      string `gorm:"size:100;not null" json:"nombre"`
	Descripcion string `gorm:"size:255" json:"descripcion"`
	Disponible  bool   `gorm:"not null;default:true" json:"disponible"`
}

type Pago struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Fecha       time.Time `gorm:"not null" json:"fecha"`
	Comprobante string    `gorm:"size:36;uniqueIndex" json:"comprobante"`

	TipoPagoID uint      `gorm:"not null" json:"tipoPagoId"`
	TipoPago   *TipoPago `json:"tipoPago,omitempty"`

	// Un pedido admite a lo sumo un pago.
	PedidoID uint    `gorm:"not null;uniqueIndex" json:"pedidoId"`
	Pedido   *Pedido `gorm:"foreignKey:PedidoID;references:NroPedido" json:"pedido,omitempty"`

	CreatedAt time.Time `json:"-"`
}
