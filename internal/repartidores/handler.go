// Package repartidores expone el ABM de repartidores. Todo repartidor queda
// atado a una zona existente.
package repartidores

import (
	"errors"
	"strconv"

	"entregas-backend/internal/domain"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handler struct {
	repartidores repository.RepartidorRepository
	zonas        repository.ZonaRepository
}

func NewHandler(repartidores repository.RepartidorRepository, zonas repository.ZonaRepository) *Handler {
	return &Handler{repartidores: repartidores, zonas: zonas}
}

func parseID(c *fiber.Ctx) (uint, error) {
	v, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}
	return uint(v), nil
}

func (h *Handler) validarZona(c *fiber.Ctx, zonaID uint) error {
	if _, err := h.zonas.FindByID(c.Context(), zonaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrZonaNoEncontrada(zonaID)
		}
		return err
	}
	return nil
}

// POST /api/repartidores
func (h *Handler) Crear(c *fiber.Ctx) error {
	var rep models.Repartidor
	if err := c.BodyParser(&rep); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if rep.ApellidoNombre == "" || rep.CUIT == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Apellido y nombre y CUIT son obligatorios")
	}
	if err := h.validarZona(c, rep.ZonaID); err != nil {
		return err
	}
	rep.ID = 0
	rep.Disponible = true
	if err := h.repartidores.Create(c.Context(), &rep); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(rep)
}

// GET /api/repartidores
func (h *Handler) Listar(c *fiber.Ctx) error {
	reps, err := h.repartidores.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(reps)
}

// GET /api/repartidores/activos
func (h *Handler) ListarActivos(c *fiber.Ctx) error {
	reps, err := h.repartidores.ListActivos(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(reps)
}

// GET /api/repartidores/:id
func (h *Handler) Buscar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rep, err := h.repartidores.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRepartidorNoEncontrado(id)
		}
		return err
	}
	return c.JSON(rep)
}

// PUT /api/repartidores/:id
func (h *Handler) Actualizar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	existente, err := h.repartidores.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRepartidorNoEncontrado(id)
		}
		return err
	}

	var req models.Repartidor
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if err := h.validarZona(c, req.ZonaID); err != nil {
		return err
	}

	existente.CUIT = req.CUIT
	existente.ApellidoNombre = req.ApellidoNombre
	existente.Vehiculo = req.Vehiculo
	existente.ZonaID = req.ZonaID
	existente.Zona = nil
	if err := h.repartidores.Update(c.Context(), existente); err != nil {
		return err
	}
	return c.JSON(existente)
}

// DELETE /api/repartidores/:id — baja lógica; conserva su historial de entregas.
func (h *Handler) Eliminar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, err := h.repartidores.FindByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRepartidorNoEncontrado(id)
		}
		return err
	}
	if err := h.repartidores.SoftDelete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Repartidor dado de baja"})
}
