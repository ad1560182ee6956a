// Package clientes expone el ABM de clientes.
package clientes

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
	clientes repository.ClienteRepository
	zonas    repository.ZonaRepository
}

func NewHandler(clientes repository.ClienteRepository, zonas repository.ZonaRepository) *Handler {
	return &Handler{clientes: clientes, zonas: zonas}
}

func parseID(c *fiber.Ctx) (uint, error) {
	v, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}
	return uint(v), nil
}

func (h *Handler) validarZona(c *fiber.Ctx, zonaID *uint) error {
	if zonaID == nil {
		return nil
	}
	if _, err := h.zonas.FindByID(c.Context(), *zonaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrZonaNoEncontrada(*zonaID)
		}
		return err
	}
	return nil
}

// POST /api/clientes
func (h *Handler) Crear(c *fiber.Ctx) error {
	var cli models.Cliente
	if err := c.BodyParser(&cli); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if cli.ApellidoNombre == "" || cli.CUIT == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Apellido y nombre y CUIT son obligatorios")
	}
	if err := h.validarZona(c, cli.ZonaID); err != nil {
		return err
	}
	cli.ID = 0
	cli.Disponible = true
	if err := h.clientes.Create(c.Context(), &cli); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(cli)
}

// GET /api/clientes
func (h *Handler) Listar(c *fiber.Ctx) error {
	clientes, err := h.clientes.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(clientes)
}

// GET /api/clientes/activos
func (h *Handler) ListarActivos(c *fiber.Ctx) error {
	clientes, err := h.clientes.ListActivos(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(clientes)
}

// GET /api/clientes/:id
func (h *Handler) Buscar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	cli, err := h.clientes.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrClienteNoEncontrado(id)
		}
		return err
	}
	return c.JSON(cli)
}

// PUT /api/clientes/:id
func (h *Handler) Actualizar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	existente, err := h.clientes.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrClienteNoEncontrado(id)
		}
		return err
	}

	var req models.Cliente
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if err := h.validarZona(c, req.ZonaID); err != nil {
		return err
	}

	existente.CUIT = req.CUIT
	existente.ApellidoNombre = req.ApellidoNombre
	existente.Telefono = req.Telefono
	existente.Email = req.Email
	existente.Domicilio = req.Domicilio
	existente.ZonaID = req.ZonaID
	existente.Zona = nil
	if err := h.clientes.Update(c.Context(), existente); err != nil {
		return err
	}
	return c.JSON(existente)
}

// DELETE /api/clientes/:id — baja lógica; los pedidos históricos se conservan.
func (h *Handler) Eliminar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, err := h.clientes.FindByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrClienteNoEncontrado(id)
		}
		return err
	}
	if err := h.clientes.SoftDelete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Cliente dado de baja"})
}
