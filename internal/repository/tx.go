package repository

import (
	"context"

	"gorm.io/gorm"
)

// RunTx ejecuta fn dentro de una transacción GORM cuando hay base de datos,
// o llama fn(nil) directamente cuando db es nil (modo test unitario, con
// repositorios en memoria).
func RunTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
