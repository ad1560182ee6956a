// Package zonas expone el ABM de zonas de reparto.
package zonas

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
	zonas repository.ZonaRepository
}

func NewHandler(zonas repository.ZonaRepository) *Handler {
	return &Handler{zonas: zonas}
}

func parseID(c *fiber.Ctx) (uint, error) {
	v, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}
	return uint(v), nil
}

// POST /api/zonas
func (h *Handler) Crear(c *fiber.Ctx) error {
	var z models.Zona
	if err := c.BodyParser(&z); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if z.Nombre == "" {
		return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
	}
	z.ID = 0
	z.Disponible = true
	if err := h.zonas.Create(c.Context(), &z); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(z)
}

// GET /api/zonas
func (h *Handler) Listar(c *fiber.Ctx) error {
	zonas, err := h.zonas.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(zonas)
}

// GET /api/zonas/activas
func (h *Handler) ListarActivas(c *fiber.Ctx) error {
	zonas, err := h.zonas.ListActivas(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(zonas)
}

// GET /api/zonas/:id
func (h *Handler) Buscar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	z, err := h.zonas.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrZonaNoEncontrada(id)
		}
		return err
	}
	return c.JSON(z)
}

// PUT /api/zonas/:id
func (h *Handler) Actualizar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	existente, err := h.zonas.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrZonaNoEncontrada(id)
		}
		return err
	}

	var req models.Zona
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	existente.Nombre = req.Nombre
	existente.Descripcion = req.Descripcion
	if err := h.zonas.Update(c.Context(), existente); err != nil {
		return err
	}
	return c.JSON(existente)
}

// DELETE /api/zonas/:id — baja lógica; las entregas históricas conservan la zona.
func (h *Handler) Eliminar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, err := h.zonas.FindByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrZonaNoEncontrada(id)
		}
		return err
	}
	if err := h.zonas.SoftDelete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Zona dada de baja"})
}
