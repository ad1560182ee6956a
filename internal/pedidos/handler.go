package pedidos

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

func parseNro(c *fiber.Ctx) (uint, error) {
	v, err := strconv.ParseUint(c.Params("nro"), 10, 32)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Número de pedido inválido")
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

// auditoria saca la identidad del token ya validado; nada del request
// controla quién queda registrado.
func auditoria(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	email, _ := c.Locals(auth.CtxUserEmailKey).(string)
	return userID, email
}

// POST /api/pedidos
func (h *Handler) Crear(c *fiber.Ctx) error {
	var in CrearPedidoInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	pedido, err := h.svc.Crear(c.Context(), in)
	if err != nil {
		return err
	}

	userID, userName := auditoria(c)
	h.recorder.WriteLog(c.Context(), audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "pedido",
		EntityID:    pedido.NroPedido,
		Action:      models.AuditActionCreate,
		Description: "Alta de pedido",
		After:       pedido,
	})
	return c.Status(fiber.StatusCreated).JSON(pedido)
}

// GET /api/pedidos
func (h *Handler) Listar(c *fiber.Ctx) error {
	pedidos, err := h.svc.Listar(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(pedidos)
}

// GET /api/pedidos/filter?clienteId=&fechaInicio=&fechaFin=
func (h *Handler) Filtrar(c *fiber.Ctx) error {
	var filter repository.PedidoFilter

	if v := c.Query("clienteId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "clienteId inválido")
		}
		cid := uint(id)
		filter.ClienteID = &cid
	}
	var err error
	if filter.FechaInicio, err = parseFecha(c.Query("fechaInicio")); err != nil {
		return err
	}
	if filter.FechaFin, err = parseFecha(c.Query("fechaFin")); err != nil {
		return err
	}

	pedidos, err := h.svc.ListarPorFiltros(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(pedidos)
}

// GET /api/pedidos/sin-pago
func (h *Handler) ListarSinPago(c *fiber.Ctx) error {
	pedidos, err := h.svc.ListarSinPago(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(pedidos)
}

// GET /api/pedidos/pagos-sin-entrega
func (h *Handler) ListarPagadosSinEntrega(c *fiber.Ctx) error {
	pedidos, err := h.svc.ListarPagadosSinEntrega(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(pedidos)
}

// GET /api/pedidos/:nro
func (h *Handler) Buscar(c *fiber.Ctx) error {
	nro, err := parseNro(c)
	if err != nil {
		return err
	}
	pedido, err := h.svc.Buscar(c.Context(), nro)
	if err != nil {
		return err
	}
	return c.JSON(pedido)
}

// PUT /api/pedidos/:nro
func (h *Handler) Actualizar(c *fiber.Ctx) error {
	nro, err := parseNro(c)
	if err != nil {
		return err
	}
	var in ActualizarPedidoInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	anterior, err := h.svc.Buscar(c.Context(), nro)
	if err != nil {
		return err
	}
	pedido, err := h.svc.Actualizar(c.Context(), nro, in)
	if err != nil {
		return err
	}

	userID, userName := auditoria(c)
	h.recorder.WriteLog(c.Context(), audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "pedido",
		EntityID:    nro,
		Action:      models.AuditActionUpdate,
		Description: "Modificación de pedido",
		Before:      anterior,
		After:       pedido,
	})
	return c.JSON(pedido)
}

// DELETE /api/pedidos/:nro
func (h *Handler) Eliminar(c *fiber.Ctx) error {
	nro, err := parseNro(c)
	if err != nil {
		return err
	}
	anterior, err := h.svc.Buscar(c.Context(), nro)
	if err != nil {
		return err
	}
	if err := h.svc.Eliminar(c.Context(), nro); err != nil {
		return err
	}

	userID, userName := auditoria(c)
	h.recorder.WriteLog(c.Context(), audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "pedido",
		EntityID:    nro,
		Action:      models.AuditActionDelete,
		Description: "Baja de pedido",
		Before:      anterior,
	})
	return c.JSON(fiber.Map{"message": "Pedido eliminado"})
}

// GET /api/pedidos/:nro/lineas
func (h *Handler) ListarLineas(c *fiber.Ctx) error {
	nro, err := parseNro(c)
	if err != nil {
		return err
	}
	lineas, err := h.svc.ListarLineas(c.Context(), nro)
	if err != nil {
		return err
	}
	return c.JSON(lineas)
}

// POST /api/pedidos/:nro/lineas
func (h *Handler) AgregarLinea(c *fiber.Ctx) error {
	nro, err := parseNro(c)
	if err != nil {
		return err
	}
	var in LineaInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	pedido, err := h.svc.AgregarLinea(c.Context(), nro, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(pedido)
}

// PUT /api/lineas/:id
func (h *Handler) ActualizarLinea(c *fiber.Ctx) error {
	lineaID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || lineaID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ID de línea inválido")
	}
	var in LineaInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	pedido, err := h.svc.ActualizarLineaPorID(c.Context(), uint(lineaID), in)
	if err != nil {
		return err
	}
	return c.JSON(pedido)
}

// DELETE /api/lineas/:id
func (h *Handler) EliminarLinea(c *fiber.Ctx) error {
	lineaID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || lineaID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ID de línea inválido")
	}
	pedido, err := h.svc.EliminarLineaPorID(c.Context(), uint(lineaID))
	if err != nil {
		return err
	}
	return c.JSON(pedido)
}

// GET /api/pedidos/mis-pedidos
func (h *Handler) MisPedidos(c *fiber.Ctx) error {
	clienteID, ok := auth.ClienteID(c)
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "El usuario no tiene un cliente asociado")
	}
	pedidos, err := h.svc.ListarDeCliente(c.Context(), clienteID)
	if err != nil {
		return err
	}
	return c.JSON(pedidos)
}

// GET /api/pedidos/mis-pedidos-impagos
func (h *Handler) MisPedidosImpagos(c *fiber.Ctx) error {
	clienteID, ok := auth.ClienteID(c)
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "El usuario no tiene un cliente asociado")
	}
	pedidos, err := h.svc.ListarImpagosDeCliente(c.Context(), clienteID)
	if err != nil {
		return err
	}
	return c.JSON(pedidos)
}
