package models

import "github.com/shopspring/decimal"

type TipoProducto struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Nombre     string `gorm:"size:100;not null" json:"nombre"`
	Disponible bool   `gorm:"not null;default:true" json:"disponible"`

	Productos []Producto `gorm:"foreignKey:TipoProductoID" json:"productos,omitempty"`
}

type Producto struct {
	Codigo      uint            `gorm:"primaryKey" json:"codigo"`
	Descripcion string          `gorm:"size:200;not null" json:"descripcion"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Precio      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"precio"`
	Disponible  bool            `gorm:"not null;default:true" json:"disponible"`

	TipoProductoID uint          `gorm:"not null" json:"tipoProductoId"`
	TipoProducto   *TipoProducto `json:"tipoProducto,omitempty"`

	Lineas []LineaDeProducto `gorm:"foreignKey:ProductoCodigo;references:Codigo" json:"lineas,omitempty"`
}
