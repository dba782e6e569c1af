package dispatch

import (
	"dispatch-backend/internal/auth"
	"dispatch-backend/internal/database"
	"dispatch-backend/internal/models"
	"dispatch-backend/internal/sheetcore"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StagingItemRequest struct {
	SerialNo       int    `json:"serial_no"`
	SkuName        string `json:"sku_name"`
	CasesPerPallet int    `json:"cases_per_pallet"`
	FullPallets    int    `json:"full_pallets"`
	LooseUnits     int    `json:"loose_units"`
}

type ReplaceStagingItemsRequest struct {
	Items []StagingItemRequest `json:"items"`
}

func stagingItemsFromRequest(sheetID string, reqs []StagingItemRequest) []models.StagingItem {
	items := make([]models.StagingItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, models.StagingItem{
			SheetID:        sheetID,
			SerialNo:       r.SerialNo,
			SkuName:        r.SkuName,
			CasesPerPallet: r.CasesPerPallet,
			FullPallets:    r.FullPallets,
			LooseUnits:     r.LooseUnits,
		})
	}
	return items
}

// PUT /api/sheets/:id/staging-items
// Hazırlama kalemlerini topluca değiştirir. Föy DRAFT değilse core sessiz
// no-op yapar ve güncel föy döner; eski kalemler DB'den silinip yenileri
// yazılır (aggregate bütün olarak kaydedilir).
func ReplaceStagingItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.ActorFromCtx(c); err != nil {
			return err
		}

		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}

		var body ReplaceStagingItemsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if !sheetcore.EditableStaging(sheet) {
			return c.JSON(toSheetResponse(sheet))
		}

		before := sheet.StagingItems
		items := stagingItemsFromRequest(sheet.ID, body.Items)
		if err := sheetcore.ReplaceStagingItems(sheet, items); err != nil {
			return coreErrToFiber(err)
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("sheet_id = ?", sheet.ID).Delete(&models.StagingItem{}).Error; err != nil {
				return err
			}
			return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(sheet).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hazırlama kalemleri kaydedilemedi")
		}

		writeSheetAudit(c, sheet, models.AuditActionUpdate, "Hazırlama kalemleri güncellendi", before, sheet.StagingItems)

		return c.JSON(toSheetResponse(sheet))
	}
}
