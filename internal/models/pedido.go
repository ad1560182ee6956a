package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Pedido struct {
	NroPedido uint            `gorm:"primaryKey" json:"nroPedido"`
	Fecha     time.Time       `gorm:"not null" json:"fecha"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	ClienteID uint     `gorm:"not null" json:"clienteId"`
	Cliente   *Cliente `json:"cliente,omitempty"`

	// EntregaID es el lado dueño del vínculo pedido↔entrega; Entrega.Pedidos se deriva de acá.
	EntregaID *uint    `json:"entregaId"`
	Entrega   *Entrega `json:"entrega,omitempty"`

	// El lado dueño del vínculo pedido↔pago es Pago.PedidoID (único).
	Pago *Pago `gorm:"foreignKey:PedidoID;references:NroPedido" json:"pago,omitempty"`

	Lineas []LineaDeProducto `gorm:"foreignKey:PedidoID;references:NroPedido;constraint:OnDelete:CASCADE" json:"lineas,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type LineaDeProducto struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Cantidad int             `gorm:"not null" json:"cantidad"`
	Subtotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`

	PedidoID uint    `gorm:"not null;index" json:"pedidoId"`
	Pedido   *Pedido `gorm:"foreignKey:PedidoID;references:NroPedido" json:"-"`

	ProductoCodigo uint      `gorm:"not null;index" json:"productoCodigo"`
	Producto       *Producto `gorm:"foreignKey:ProductoCodigo;references:Codigo" json:"producto,omitempty"`
}
