package models

type Zona struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Nombre      string `gorm:"size:100;not null" json:"nombre"`
	Descripcion string `gorm:"size:255" json:"descripcion"`
	Disponible  bool   `gorm:"not null;default:true" json:"disponible"`

	Clientes     []Cliente    `gorm:"foreignKey:ZonaID" json:"clientes,omitempty"`
	Repartidores []Repartidor `gorm:"foreignKey:ZonaID" json:"repartidores,omitempty"`
	Entregas     []Entrega    `gorm:"foreignKey:ZonaID" json:"entregas,omitempty"`
}
