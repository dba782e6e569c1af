package dispatch

import (
	"dispatch-backend/internal/auth"
	"dispatch-backend/internal/database"
	"dispatch-backend/internal/models"
	"dispatch-backend/internal/sheetcore"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SetCellRequest struct {
	SerialNo int    `json:"serial_no"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Value    string `json:"value"` // boş string = silme; sayı değilse girdi yok sayılır
}

type SetLooseRequest struct {
	SerialNo int    `json:"serial_no"`
	Value    string `json:"value"`
}

type SetAdditionalRequest struct {
	SkuName *string `json:"sku_name"`
	Col     *int    `json:"col"`
	Value   *string `json:"value"`
}

// SetCellResponse: föyün güncel hali + çağıranın "miktar uyuşmazlığı"
// onay sorusunu gösterebilmesi için tavsiye niteliğinde uyarı alanları.
// Uyuşmazlık engel değildir; motor her negatif olmayan tam sayıyı kabul eder.
type SetCellResponse struct {
	Sheet           SheetResponse `json:"sheet"`
	Mismatch        bool          `json:"mismatch"`
	ExpectedPerCell int           `json:"expected_per_cell,omitempty"`
}

// POST /api/sheets/:id/loading-cells
func SetLoadingCellHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.ActorFromCtx(c); err != nil {
			return err
		}

		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}

		var body SetCellRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if !sheetcore.EditableLoading(sheet) {
			return c.JSON(SetCellResponse{Sheet: toSheetResponse(sheet)})
		}

		// Kapasite: hücre sayısı kilitlenmiş hazırlama kaleminin palet
		// sayısıyla sınırlı; kapasite kilit anındaki değerden türetilir.
		expected := 0
		for _, st := range sheet.StagingItems {
			if st.SerialNo == body.SerialNo {
				expected = st.CasesPerPallet
				if cellCapacityExceeded(body.Value, body.Row, body.Col, st.FullPallets) {
					return fiber.NewError(fiber.StatusBadRequest, "Hücre, kalemin palet kapasitesinin dışında")
				}
				break
			}
		}

		if err := sheetcore.SetCell(sheet, body.SerialNo, body.Row, body.Col, body.Value); err != nil {
			return coreErrToFiber(err)
		}

		if err := saveLoadingItem(sheet, body.SerialNo); err != nil {
			return err
		}

		mismatch := false
		if expected > 0 {
			if v, empty, ok := sheetcore.ParseCount(body.Value); ok && !empty && v > 0 && v != expected {
				mismatch = true
			}
		}

		return c.JSON(SetCellResponse{
			Sheet:           toSheetResponse(sheet),
			Mismatch:        mismatch,
			ExpectedPerCell: expected,
		})
	}
}

// cellCapacityExceeded: girdi kapasite dışı bir pozisyona değer mi yazıyor?
// Sadece gerçekten değer yazacak girdiler kapasiteye tabidir; silme ("" veya
// "0") ve motorun zaten yok sayacağı girdiler her pozisyonda serbesttir.
func cellCapacityExceeded(raw string, row, col, fullPallets int) bool {
	v, empty, ok := sheetcore.ParseCount(raw)
	if !ok || empty || v == 0 {
		return false
	}
	return row*models.PalletColumns+col >= fullPallets
}

// POST /api/sheets/:id/loading-loose
func SetLoadingLooseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.ActorFromCtx(c); err != nil {
			return err
		}

		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}

		var body SetLooseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if !sheetcore.EditableLoading(sheet) {
			return c.JSON(toSheetResponse(sheet))
		}

		if err := sheetcore.SetLoose(sheet, body.SerialNo, body.Value); err != nil {
			return coreErrToFiber(err)
		}

		if err := saveLoadingItem(sheet, body.SerialNo); err != nil {
			return err
		}

		return c.JSON(toSheetResponse(sheet))
	}
}

// PUT /api/sheets/:id/additional-items/:slot
func SetAdditionalItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.ActorFromCtx(c); err != nil {
			return err
		}

		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}

		slot, err := c.ParamsInt("slot")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz slot")
		}

		var body SetAdditionalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if !sheetcore.EditableLoading(sheet) {
			return c.JSON(toSheetResponse(sheet))
		}

		if body.SkuName != nil {
			if err := sheetcore.SetAdditionalSku(sheet, slot, *body.SkuName); err != nil {
				return coreErrToFiber(err)
			}
		}
		if body.Col != nil && body.Value != nil {
			if err := sheetcore.SetAdditionalCount(sheet, slot, *body.Col, *body.Value); err != nil {
				return coreErrToFiber(err)
			}
		}

		if err := saveSheet(sheet); err != nil {
			return err
		}

		return c.JSON(toSheetResponse(sheet))
	}
}

// saveLoadingItem: tek yükleme kaleminin hücrelerini DB'de tazeler.
// Hücre silme de olabileceği için kalemin hücreleri komple yeniden yazılır.
func saveLoadingItem(sheet *models.Sheet, serialNo int) error {
	var target *models.LoadingItem
	for i := range sheet.LoadingItems {
		if sheet.LoadingItems[i].StagingSerialNo == serialNo {
			target = &sheet.LoadingItems[i]
			break
		}
	}
	if target == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Yükleme kalemi bulunamadı")
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if target.ID != 0 {
			if err := tx.Where("loading_item_id = ?", target.ID).Delete(&models.LoadingCell{}).Error; err != nil {
				return err
			}
		}
		for i := range target.Cells {
			target.Cells[i].ID = 0
			target.Cells[i].LoadingItemID = target.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(sheet).Error
	})
	if txErr != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Yükleme kalemi kaydedilemedi")
	}
	return nil
}
