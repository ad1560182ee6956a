// Package metrics expone contadores Prometheus del servidor HTTP.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"entregas-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Cantidad de requests HTTP por método, ruta y status.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Middleware registra contador y latencia de cada request.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			// El ErrorHandler central corre después, así que acá el status
			// de la respuesta todavía es el previo al error.
			status = statusDe(err)
		}
		requestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func statusDe(err error) int {
	var nerr *domain.NoEncontradoError
	if errors.As(err, &nerr) {
		return fiber.StatusNotFound
	}
	var verr *domain.ValidacionError
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest
	}
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// Handler sirve /metrics con el handler estándar de Prometheus.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
