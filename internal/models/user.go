package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleCliente UserRole = "cliente"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	Nombre       string   `gorm:"size:150;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`

	// Los usuarios con rol cliente quedan vinculados a su Cliente para
	// los endpoints mis-pedidos / mis-entregas.
	ClienteID *uint
	Cliente   *Cliente

	CreatedAt time.Time
	UpdatedAt time.Time
}
