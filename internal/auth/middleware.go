package auth

import (
	"fmt"
	"strings"

	"entregas-backend/internal/cache"
	"entregas-backend/internal/config"
	"entregas-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey    = "user_id"
	CtxUserEmailKey = "user_email"
	CtxUserRoleKey  = "user_role"
	CtxClienteIDKey = "cliente_id"
	CtxTokenJTIKey  = "token_jti"
	CtxTokenExpKey  = "token_exp"
)

func JWTMiddleware(cfg *config.Config, denylist *cache.TokenDenylist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Falta el header Authorization")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "El formato debe ser 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inválido")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o expirado")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "No se pudo leer el token")
		}

		if denylist.EstaRevocado(c.Context(), claims.ID) {
			return fiber.NewError(fiber.StatusUnauthorized, "Token revocado")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserEmailKey, claims.Email)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxClienteIDKey, claims.ClienteID)
		c.Locals(CtxTokenJTIKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals(CtxTokenExpKey, claims.ExpiresAt.Time)
		}

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "No se pudo determinar el rol")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "No tenés permisos para esta operación")
	}
}

// ClienteID devuelve el cliente vinculado al usuario autenticado, si existe.
func ClienteID(c *fiber.Ctx) (uint, bool) {
	v, ok := c.Locals(CtxClienteIDKey).(*uint)
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}
