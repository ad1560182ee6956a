package pagos

import (
	"errors"
	"strconv"

	"entregas-backend/internal/audit"
	"entregas-backend/internal/auth"
	"entregas-backend/internal/domain"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handler struct {
	svc      *Service
	tipos    repository.TipoPagoRepository
	recorder *audit.Recorder
}

func NewHandler(svc *Service, tipos repository.TipoPagoRepository, recorder *audit.Recorder) *Handler {
	return &Handler{svc: svc, tipos: tipos, recorder: recorder}
}

func parseID(c *fiber.Ctx) (uint, error) {
	v, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}
	return uint(v), nil
}

// POST /api/pagos
func (h *Handler) Crear(c *fiber.Ctx) error {
	var in CrearPagoInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	pago, err := h.svc.Crear(c.Context(), in)
	if err != nil {
		return err
	}

	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	h.recorder.WriteLog(c.Context(), audit.LogOptions{
		UserID:      userID,
		EntityType:  "pago",
		EntityID:    pago.ID,
		Action:      models.AuditActionCreate,
		Description: "Registro de pago",
		After:       pago,
	})
	return c.Status(fiber.StatusCreated).JSON(pago)
}

// GET /api/pagos
func (h *Handler) Listar(c *fiber.Ctx) error {
	pagos, err := h.svc.Listar(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(pagos)
}

// GET /api/pagos/:id
func (h *Handler) Buscar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	pago, err := h.svc.Buscar(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(pago)
}

// PUT /api/pagos/:id
func (h *Handler) Actualizar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in ActualizarPagoInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	anterior, err := h.svc.Buscar(c.Context(), id)
	if err != nil {
		return err
	}
	pago, err := h.svc.Actualizar(c.Context(), id, in)
	if err != nil {
		return err
	}

	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	h.recorder.WriteLog(c.Context(), audit.LogOptions{
		UserID:      userID,
		EntityType:  "pago",
		EntityID:    id,
		Action:      models.AuditActionUpdate,
		Description: "Modificación de pago",
		Before:      anterior,
		After:       pago,
	})
	return c.JSON(pago)
}

// DELETE /api/pagos/:id
func (h *Handler) Eliminar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	anterior, err := h.svc.Buscar(c.Context(), id)
	if err != nil {
		return err
	}
	if err := h.svc.Eliminar(c.Context(), id); err != nil {
		return err
	}

	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	h.recorder.WriteLog(c.Context(), audit.LogOptions{
		UserID:      userID,
		EntityType:  "pago",
		EntityID:    id,
		Action:      models.AuditActionDelete,
		Description: "Baja de pago",
		Before:      anterior,
	})
	return c.JSON(fiber.Map{"message": "Pago eliminado"})
}

// POST /api/tipos-pago
func (h *Handler) CrearTipoPago(c *fiber.Ctx) error {
	var t models.TipoPago
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

// GET /api/tipos-pago
func (h *Handler) ListarTiposPago(c *fiber.Ctx) error {
	tipos, err := h.tipos.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(tipos)
}

// GET /api/tipos-pago/activos
func (h *Handler) ListarTiposPagoActivos(c *fiber.Ctx) error {
	tipos, err := h.tipos.ListActivos(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(tipos)
}

// PUT /api/tipos-pago/:id
func (h *Handler) ActualizarTipoPago(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	existente, err := h.tipos.FindByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTipoPagoNoEncontrado(id)
		}
		return err
	}

	var req models.TipoPago
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	existente.Nombre = req.Nombre
	existente.Descripcion = req.Descripcion
	if err := h.tipos.Update(c.Context(), existente); err != nil {
		return err
	}
	return c.JSON(existente)
}

// DELETE /api/tipos-pago/:id
func (h *Handler) EliminarTipoPago(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, err := h.tipos.FindByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTipoPagoNoEncontrado(id)
		}
		return err
	}
	if err := h.tipos.SoftDelete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Tipo de pago dado de baja"})
}
