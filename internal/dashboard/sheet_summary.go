package dashboard

import (
	"dispatch-backend/internal/database"
	"dispatch-backend/internal/models"
	"dispatch-backend/internal/sheetcore"

	"github.com/gofiber/fiber/v2"
)

type SheetSummary struct {
	CountsByStatus     map[models.SheetStatus]int64 `json:"counts_by_status"`
	OutstandingBalance int                          `json:"outstanding_balance"` // açık föylerde iade edilecek toplam
	OverLoaded         int                          `json:"over_loaded"`
	RecentCompleted    []RecentSheet                `json:"recent_completed"`
}

type RecentSheet struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Destination string `json:"destination"`
	CompletedBy string `json:"completed_by"`
	CompletedAt string `json:"completed_at"`
}

// GET /api/dashboard/sheet-summary
func SheetSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary := SheetSummary{
			CountsByStatus:  make(map[models.SheetStatus]int64),
			RecentCompleted: make([]RecentSheet, 0),
		}

		// Durum bazlı föy sayıları
		var rows []struct {
			Status models.SheetStatus
			Count  int64
		}
		if err := database.DB.Model(&models.Sheet{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		for _, r := range rows {
			summary.CountsByStatus[r.Status] = r.Count
		}

		// Yükleme aşamasındaki föylerde açık bakiyeler
		var open []models.Sheet
		if err := database.DB.
			Preload("StagingItems").
			Preload("LoadingItems").
			Where("status IN ?", []models.SheetStatus{
				models.StatusLocked,
				models.StatusLoadingVerificationPending,
			}).
			Find(&open).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		for i := range open {
			t := sheetcore.Totals(&open[i])
			summary.OutstandingBalance += t.OutstandingBalance
			summary.OverLoaded += t.OverLoaded
		}

		// Son tamamlanan föyler
		var completed []models.Sheet
		if err := database.DB.
			Where("status = ?", models.StatusCompleted).
			Order("completed_at DESC").
			Limit(5).
			Find(&completed).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}
		for _, s := range completed {
			rs := RecentSheet{
				ID:          s.ID,
				Date:        s.Date.Format("2006-01-02"),
				Destination: s.Destination,
				CompletedBy: s.CompletedBy,
			}
			if s.CompletedAt != nil {
				rs.CompletedAt = s.CompletedAt.Format("2006-01-02 15:04:05")
			}
			summary.RecentCompleted = append(summary.RecentCompleted, rs)
		}

		return c.JSON(summary)
	}
}
