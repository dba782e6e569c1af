package audit

import (
	"strconv"

	"dispatch-backend/internal/database"
	"dispatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=sheet&entity_id=...&limit=100
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.AuditLog{}).Order("created_at DESC")

		if et := c.Query("entity_type"); et != "" {
			query = query.Where("entity_type = ?", et)
		}
		if eid := c.Query("entity_id"); eid != "" {
			query = query.Where("entity_id = ?", eid)
		}

		limit := 100
		if l := c.Query("limit"); l != "" {
			if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}

		var logs []models.AuditLog
		if err := query.Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit loglar listelenemedi")
		}

		return c.JSON(logs)
	}
}
