package export

import (
	"errors"
	"fmt"

	"dispatch-backend/internal/database"
	"dispatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/sheets/:id/export
// Sadece tamamlanmış föy dışa aktarılır; süreç ortasındaki föyün çıktısı
// sahada resmi belge gibi dolaşmasın.
func ExportSheetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sheet models.Sheet
		err := database.DB.
			Preload("StagingItems", func(db *gorm.DB) *gorm.DB { return db.Order("serial_no ASC") }).
			Preload("LoadingItems", func(db *gorm.DB) *gorm.DB { return db.Order("staging_serial_no ASC") }).
			Preload("LoadingItems.Cells").
			Preload("AdditionalItems", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
			First(&sheet, "id = ?", c.Params("id")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Föy bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Föy yüklenemedi")
		}

		if sheet.Status != models.StatusCompleted {
			return fiber.NewError(fiber.StatusConflict, "Sadece tamamlanmış föy dışa aktarılabilir")
		}

		f, err := RenderSheet(&sheet)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası yazılamadı")
		}

		filename := fmt.Sprintf("sevkiyat-foyu-%s-%s.xlsx", sheet.Date.Format("2006-01-02"), sheet.ID[:8])
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
