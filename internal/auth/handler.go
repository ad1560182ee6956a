package auth

import (
	"errors"
	"time"

	"entregas-backend/internal/cache"
	"entregas-backend/internal/config"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handler struct {
	cfg      *config.Config
	users    repository.UserRepository
	clientes repository.ClienteRepository
	denylist *cache.TokenDenylist
}

func NewHandler(cfg *config.Config, users repository.UserRepository, clientes repository.ClienteRepository, denylist *cache.TokenDenylist) *Handler {
	return &Handler{cfg: cfg, users: users, clientes: clientes, denylist: denylist}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Nombre    string `json:"nombre"`
	CUIT      string `json:"cuit"`
	Telefono  string `json:"telefono"`
	Domicilio string `json:"domicilio"`
	ZonaID    *uint  `json:"zonaId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register da de alta un usuario con rol cliente y su ficha de Cliente asociada.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if req.Email == "" || req.Password == "" || req.Nombre == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email, contraseña y nombre son obligatorios")
	}
	if len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "La contraseña debe tener al menos 8 caracteres")
	}

	if _, err := h.users.FindByEmail(c.Context(), req.Email); err == nil {
		return fiber.NewError(fiber.StatusConflict, "Ya existe un usuario con ese email")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	cliente := &models.Cliente{
		CUIT:           req.CUIT,
		ApellidoNombre: req.Nombre,
		Telefono:       req.Telefono,
		Email:          req.Email,
		Domicilio:      req.Domicilio,
		Disponible:     true,
		ZonaID:         req.ZonaID,
	}
	if err := h.clientes.Create(c.Context(), cliente); err != nil {
		return err
	}

	user := &models.User{
		Email:        req.Email,
		Nombre:       req.Nombre,
		PasswordHash: string(hash),
		Role:         models.RoleCliente,
		ClienteID:    &cliente.ID,
	}
	if err := h.users.Create(c.Context(), user); err != nil {
		return err
	}

	log.Info().Str("email", user.Email).Msg("usuario cliente registrado")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        user.ID,
		"email":     user.Email,
		"role":      user.Role,
		"clienteId": cliente.ID,
	})
}

// RegisterAdmin solo funciona mientras no exista ningún admin. El primer
// arranque del sistema lo usa para crear la cuenta inicial.
func (h *Handler) RegisterAdmin(c *fiber.Ctx) error {
	count, err := h.users.CountByRole(c.Context(), models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusForbidden, "Ya existe un administrador")
	}

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}
	if req.Email == "" || req.Password == "" || req.Nombre == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email, contraseña y nombre son obligatorios")
	}
	if len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "La contraseña debe tener al menos 8 caracteres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        req.Email,
		Nombre:       req.Nombre,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := h.users.Create(c.Context(), user); err != nil {
		return err
	}

	log.Info().Str("email", user.Email).Msg("administrador inicial creado")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	user, err := h.users.FindByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas")
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas")
	}

	token, err := GenerateToken(h.cfg.JWTSecret, user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":        user.ID,
			"email":     user.Email,
			"nombre":    user.Nombre,
			"role":      user.Role,
			"clienteId": user.ClienteID,
		},
	})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Sesión inválida")
	}
	user, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"id":      user.ID,
		"email":   user.Email,
		"nombre":  user.Nombre,
		"role":    user.Role,
		"cliente": user.Cliente,
	})
}

// Logout agrega el JTI del token a la denylist hasta su expiración.
func (h *Handler) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals(CtxTokenJTIKey).(string)
	if jti == "" {
		return fiber.NewError(fiber.StatusBadRequest, "El token no tiene identificador")
	}

	// El TTL sale de la expiración del token ya validado por el middleware.
	ttl := 24 * time.Hour
	if exp, ok := c.Locals(CtxTokenExpKey).(time.Time); ok {
		ttl = time.Until(exp)
	}

	if err := h.denylist.Revocar(c.Context(), jti, ttl); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Sesión cerrada"})
}
