package entregas

import (
	"strconv"
	"time"

	"entregas-backend/internal/audit"
	"entregas-backend/internal/auth"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	svc      *Service
	recorder *audit.Recorder
}

func NewHandler(svc *Service, recorder *audit.Recorder) *Handler {
	return &Handler{svc: svc, recorder: recorder}
}

func parseID(c *fiber.Ctx) (uint, error) {
	v, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}
	return uint(v), nil
}

func parseFecha(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Fecha inválida, se espera AAAA-MM-DD")
	}
	return &t, nil
}

// POST /api/entregas
func (h *Handler) Crear(c *fiber.Ctx) error {
	var in EntregaInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	entrega, err := h.svc.Crear(c.Context(), in)
	if err != nil {
		return err
	}

	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	h.recorder.WriteLog(c.Context(), audit.LogOptions{
		UserID:      userID,
		EntityType:  "entrega",
		EntityID:    entrega.ID,
		Action:      models.AuditActionCreate,
		Description: "Alta de entrega",
		After:       entrega,
	})
	return c.Status(fiber.StatusCreated).JSON(entrega)
}

// GET /api/entregas
func (h *Handler) Listar(c *fiber.Ctx) error {
	entregas, err := h.svc.Listar(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(entregas)
}

// GET /api/entregas/filter?fechaDesde=&fechaHasta=&clienteId=
func (h *Handler) Filtrar(c *fiber.Ctx) error {
	var filter repository.EntregaFilter
	var err error

	if filter.FechaDesde, err = parseFecha(c.Query("fechaDesde")); err != nil {
		return err
	}
	if filter.FechaHasta, err = parseFecha(c.Query("fechaHasta")); err != nil {
		return err
	}
	if v := c.Query("clienteId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "clienteId inválido")
		}
		cid := uint(id)
		filter.ClienteID = &cid
	}

	entregas, err := h.svc.ListarPorFiltros(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(entregas)
}

// GET /api/entregas/:id
func (h *Handler) Buscar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	entrega, err := h.svc.Buscar(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(entrega)
}

// PUT /api/entregas/:id
func (h *Handler) Actualizar(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in EntregaInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	anterior, err := h.svc.Buscar(c.Context(), id)
	if err != nil {
		return err
	}
	entrega, err := h.svc.Actualizar(c.Context(), id, in)
	if err != nil {
		return err
	}

	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	h.recorder.WriteLog(c.Context(), audit.LogOptions{
		UserID:      userID,
		EntityType:  "entrega",
		EntityID:    id,
		Action:      models.AuditActionUpdate,
		Description: "Modificación de entrega",
		Before:      anterior,
		After:       entrega,
	})
	return c.JSON(entrega)
}

// DELETE /api/entregas/:id
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
		EntityType:  "entrega",
		EntityID:    id,
		Action:      models.AuditActionDelete,
		Description: "Baja de entrega",
		Before:      anterior,
	})
	return c.JSON(fiber.Map{"message": "Entrega eliminada"})
}

// GET /api/entregas/mis-entregas
func (h *Handler) MisEntregas(c *fiber.Ctx) error {
	clienteID, ok := auth.ClienteID(c)
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "El usuario no tiene un cliente asociado")
	}
	entregas, err := h.svc.ListarDeCliente(c.Context(), clienteID)
	if err != nil {
		return err
	}
	return c.JSON(entregas)
}
