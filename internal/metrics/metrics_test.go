package metrics

import (
	"net/http/httptest"
	"testing"

	"entregas-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareEtiquetaErroresDeDominio(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/zonas/:id", func(c *fiber.Ctx) error {
		return domain.ErrZonaNoEncontrada(9)
	})
	app.Post("/pedidos", func(c *fiber.Ctx) error {
		return &domain.ValidacionError{Mensaje: "Cantidad inválida"}
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/zonas/9", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/pedidos", nil))
	require.NoError(t, err)

	// El contador registra el status que va a devolver el ErrorHandler
	// central, no el de la respuesta todavía sin escribir.
	assert.Equal(t, 1.0, testutil.ToFloat64(requestsTotal.WithLabelValues(fiber.MethodGet, "/zonas/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(requestsTotal.WithLabelValues(fiber.MethodPost, "/pedidos", "400")))
}
