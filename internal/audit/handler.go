package audit

import (
	"strconv"

	"entregas-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?limit=100
func ListHandler(repo repository.AuditRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit"))
		logs, err := repo.List(c.Context(), limit)
		if err != nil {
			return err
		}
		return c.JSON(logs)
	}
}
