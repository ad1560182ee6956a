package database

import (
	"entregas-backend/internal/config"
	"entregas-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init abre la conexión Postgres y sincroniza el esquema.
func Init(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("No se pudo conectar a la base de datos")
	}

	err = db.AutoMigrate(
		&models.Zona{},
		&models.Cliente{},
		&models.Repartidor{},
		&models.TipoProducto{},
		&models.Producto{},
		&models.Pedido{},
		&models.LineaDeProducto{},
		&models.TipoPago{},
		&models.Pago{},
		&models.Entrega{},
		&models.User{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error en AutoMigrate")
	}

	log.Info().Msg("Conexión a la base de datos establecida. Migración completada.")
	return db
}
