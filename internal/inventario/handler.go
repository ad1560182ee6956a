package inventario

import (
	"errors"
	"strconv"

	"entregas-backend/internal/domain"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Handler struct {
	stock *StockService
	tipos repository.TipoProductoRepository
}

func NewHandler(stock *StockService, tipos repository.TipoProductoRepository) *Handler {
	return &Handler{stock: stock, tipos: tipos}
}

type productoRequest struct {
	Codigo         uint            `json:"codigo"`
	Descripcion    string          `json:"descripcion"`
	Stock          int             `json:"stock"`
	Precio         decimal.Decimal `json:"precio"`
	TipoProductoID uint            `json:"tipoProductoId"`
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Parámetro '"+name+"' inválido")
	}
	return uint(v), nil
}

// POST /api/productos
func (h *Handler) CrearProducto(c *fiber.Ctx) error {
	var req productoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if req.Descripcion == "" {
		return fiber.NewError(fiber.StatusBadRequest, "La descripción es obligatoria")
	}

	p := &models.Producto{
		Codigo:         req.Codigo,
		Descripcion:    req.Descripcion,
		Stock:          req.Stock,
		Precio:         req.Precio,
		TipoProductoID: req.TipoProductoID,
	}
	if err := h.stock.CrearProducto(c.Context(), p); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GET /api/productos
func (h *Handler) ListarProductos(c *fiber.Ctx) error {
	productos, err := h.stock.ListarProductos(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(productos)
}

// GET /api/productos/activos
func (h *Handler) ListarProductosActivos(c *fiber.Ctx) error {
	productos, err := h.stock.ListarProductosActivos(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(productos)
}

// GET /api/productos/:codigo
func (h *Handler) BuscarProducto(c *fiber.Ctx) error {
	codigo, err := parseUintParam(c, "codigo")
	if err != nil {
		return err
	}
	p, err := h.stock.BuscarProducto(c.Context(), codigo)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// PUT /api/productos/:codigo
func (h *Handler) ActualizarProducto(c *fiber.Ctx) error {
	codigo, err := parseUintParam(c, "codigo")
	if err != nil {
		return err
	}
	var req productoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	p := &models.Producto{
		Codigo:         codigo,
		Descripcion:    req.Descripcion,
		Precio:         req.Precio,
		TipoProductoID: req.TipoProductoID,
	}
	if err := h.stock.ActualizarProducto(c.Context(), p); err != nil {
		return err
	}
	actualizado, err := h.stock.BuscarProducto(c.Context(), codigo)
	if err != nil {
		return err
	}
	return c.JSON(actualizado)
}

// DELETE /api/productos/:codigo
func (h *Handler) EliminarProducto(c *fiber.Ctx) error {
	codigo, err := parseUintParam(c, "codigo")
	if err != nil {
		return err
	}
	if err := h.stock.EliminarProducto(c.Context(), codigo); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Producto dado de baja"})
}

// POST /api/productos/:codigo/stock {"delta": -3}
func (h *Handler) AjustarStock(c *fiber.Ctx) error {
	codigo, err := parseUintParam(c, "codigo")
	if err != nil {
		return err
	}
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	p, err := h.stock.AjustarStock(c.Context(), codigo, req.Delta)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// POST /api/tipos-producto
func (h *Handler) CrearTipoProducto(c *fiber.Ctx) error {
	var t models.TipoProducto
	if err := c.BodyParser(&t); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if t.Nombre == "" {
		return fiber.NewError(fiber.StatusBadRequest, "El nombre es obligatorio")
	}
	t.ID = 0
	t.Disponible = true
	if err := h.tipos.Create(c.Context(), &t); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// GET /api/tipos-producto
func (h *Handler) ListarTiposProducto(c *fiber.Ctx) error {
	tipos, err := h.tipos.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(tipos)
}

// GET /api/tipos-producto/activos
func (h *Handler) ListarTiposProductoActivos(c *fiber.Ctx) error {
	tipos, err := h.tipos.ListActivos(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(tipos)
}

// PUT /api/tipos-producto/:id
func (h *Handler) ActualizarTipoProducto(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	existente, err := h.tipos.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTipoProductoNoEncontrado(id)
		}
		return err
	}

	var req models.TipoProducto
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	existente.Nombre = req.Nombre
	if err := h.tipos.Update(c.Context(), existente); err != nil {
		return err
	}
	return c.JSON(existente)
}

// DELETE /api/tipos-producto/:id
func (h *Handler) EliminarTipoProducto(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.tipos.FindByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTipoProductoNoEncontrado(id)
		}
		return err
	}
	if err := h.tipos.SoftDelete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Tipo de producto dado de baja"})
}
