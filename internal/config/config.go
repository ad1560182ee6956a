package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config concentra toda la configuración de runtime, cargada de variables de
// entorno (con .env opcional para desarrollo local).
type Config struct {
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	Env         string `mapstructure:"APP_ENV"` // development | production
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	CORSOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Opcionales: si quedan vacíos, la función correspondiente se desactiva.
	RedisURL     string `mapstructure:"REDIS_URL"`
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=entregas port=5432 sslmode=disable")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("KAFKA_TOPIC", "entregas.eventos")

	// El .env es opcional: no falla si no existe.
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("[FATAL] No se pudo cargar la configuración: %v", err)
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET no está definido. Es obligatorio.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET debe tener al menos 32 caracteres.")
	}

	return cfg
}
