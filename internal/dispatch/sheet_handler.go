package dispatch

import (
	"errors"
	"time"

	"dispatch-backend/internal/audit"
	"dispatch-backend/internal/auth"
	"dispatch-backend/internal/database"
	"dispatch-backend/internal/models"
	"dispatch-backend/internal/sheetcore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSheetRequest: Yeni föy oluşturma
type CreateSheetRequest struct {
	Date             string               `json:"date"` // "2025-12-09"
	Shift            string               `json:"shift"`
	Destination      string               `json:"destination"`
	VehiclePlate     string               `json:"vehicle_plate"`
	DriverName       string               `json:"driver_name"`
	TransportCompany string               `json:"transport_company"`
	StagingItems     []StagingItemRequest `json:"staging_items"`
}

type UpdateHeaderRequest struct {
	Shift            *string `json:"shift"`
	Destination      *string `json:"destination"`
	VehiclePlate     *string `json:"vehicle_plate"`
	DriverName       *string `json:"driver_name"`
	TransportCompany *string `json:"transport_company"`
	Signature        *string `json:"signature"` // hazırlama sorumlusu imzası
}

// POST /api/sheets
func CreateSheetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateSheetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		sheet := models.Sheet{
			ID:                uuid.NewString(),
			Date:              d,
			Shift:             body.Shift,
			Destination:       body.Destination,
			VehiclePlate:      body.VehiclePlate,
			DriverName:        body.DriverName,
			TransportCompany:  body.TransportCompany,
			StagingSupervisor: actor.FullName,
			Status:            models.StatusDraft,
			CreatedBy:         actor.Username,
		}

		// Sabit ek ürün satırları föyle birlikte doğar
		for slot := 1; slot <= models.AdditionalSlotCount; slot++ {
			sheet.AdditionalItems = append(sheet.AdditionalItems, models.AdditionalItem{
				Slot:   slot,
				Counts: make([]int, models.PalletColumns),
			})
		}

		if len(body.StagingItems) > 0 {
			items := stagingItemsFromRequest(sheet.ID, body.StagingItems)
			if err := sheetcore.ReplaceStagingItems(&sheet, items); err != nil {
				return coreErrToFiber(err)
			}
		}

		if err := database.DB.Create(&sheet).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Föy oluşturulamadı")
		}

		writeSheetAudit(c, &sheet, models.AuditActionCreate, "Föy oluşturuldu", nil, &sheet)

		return c.Status(fiber.StatusCreated).JSON(toSheetResponse(&sheet))
	}
}

// GET /api/sheets?status=DRAFT&from=2025-12-01&to=2025-12-31
func ListSheetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Sheet{}).Order("date DESC, created_at DESC")

		if s := c.Query("status"); s != "" {
			query = query.Where("status = ?", s)
		}
		if from := c.Query("from"); from != "" {
			if d, err := time.Parse("2006-01-02", from); err == nil {
				query = query.Where("date >= ?", d)
			}
		}
		if to := c.Query("to"); to != "" {
			if d, err := time.Parse("2006-01-02", to); err == nil {
				query = query.Where("date <= ?", d)
			}
		}

		var sheets []models.Sheet
		if err := query.Find(&sheets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Föyler listelenemedi")
		}

		resp := make([]SheetSummaryResponse, 0, len(sheets))
		for i := range sheets {
			resp = append(resp, toSheetSummaryResponse(&sheets[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/sheets/:id
func GetSheetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toSheetResponse(sheet))
	}
}

// PUT /api/sheets/:id/header
// DRAFT dışında no-op: bayat ekrandan gelen düzenleme sessizce yutulur,
// güncel föy geri döner.
func UpdateHeaderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.ActorFromCtx(c); err != nil {
			return err
		}

		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateHeaderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if sheetcore.EditableStaging(sheet) {
			before := *sheet
			if body.Shift != nil {
				sheet.Shift = *body.Shift
			}
			if body.Destination != nil {
				sheet.Destination = *body.Destination
			}
			if body.VehiclePlate != nil {
				sheet.VehiclePlate = *body.VehiclePlate
			}
			if body.DriverName != nil {
				sheet.DriverName = *body.DriverName
			}
			if body.TransportCompany != nil {
				sheet.TransportCompany = *body.TransportCompany
			}
			if body.Signature != nil {
				sheet.StagingSupervisorSignature = *body.Signature
			}

			if err := saveSheet(sheet); err != nil {
				return err
			}
			writeSheetAudit(c, sheet, models.AuditActionUpdate, "Föy başlığı güncellendi", &before, sheet)
		}

		return c.JSON(toSheetResponse(sheet))
	}
}

// DELETE /api/sheets/:id
// Silme bir yaşam döngüsü geçişi değildir; sadece admin, sadece DRAFT.
func DeleteSheetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}

		if sheet.Status != models.StatusDraft {
			return fiber.NewError(fiber.StatusConflict, "Sadece DRAFT durumundaki föy silinebilir")
		}

		if err := database.DB.Select("StagingItems", "LoadingItems", "AdditionalItems", "Comments", "History").
			Delete(sheet).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Föy silinemedi")
		}

		writeSheetAudit(c, sheet, models.AuditActionDelete, "Föy silindi", sheet, nil)

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// cellOrder: grid hücrelerinin yükleme sırası. LoadingCell'deki kolon
// adlarıyla birebir aynı kalmalı.
const cellOrder = "grid_row ASC, grid_col ASC"

// loadSheet: föyü tüm alt kayıtlarıyla birlikte yükler (tek tutarlılık birimi)
func loadSheet(id string) (*models.Sheet, error) {
	var sheet models.Sheet
	err := database.DB.
		Preload("StagingItems", func(db *gorm.DB) *gorm.DB { return db.Order("serial_no ASC") }).
		Preload("LoadingItems", func(db *gorm.DB) *gorm.DB { return db.Order("staging_serial_no ASC") }).
		Preload("LoadingItems.Cells", func(db *gorm.DB) *gorm.DB { return db.Order(cellOrder) }).
		Preload("AdditionalItems", func(db *gorm.DB) *gorm.DB { return db.Order("slot ASC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&sheet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Föy bulunamadı")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Föy yüklenemedi")
	}
	return &sheet, nil
}

// saveSheet: aggregate'i alt kayıtlarıyla birlikte kaydeder
func saveSheet(sheet *models.Sheet) error {
	if err := database.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(sheet).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Föy kaydedilemedi")
	}
	return nil
}

// coreErrToFiber: core hata taksonomisini HTTP durum kodlarına çevirir
func coreErrToFiber(err error) error {
	var ve *sheetcore.ValidationError
	var ae *sheetcore.AuthorizationError
	var ite *sheetcore.IllegalTransitionError

	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Error())
	case errors.As(err, &ae):
		return fiber.NewError(fiber.StatusForbidden, ae.Error())
	case errors.As(err, &ite):
		return fiber.NewError(fiber.StatusConflict, ite.Error())
	}
	return err
}

func writeSheetAudit(c *fiber.Ctx, sheet *models.Sheet, action models.AuditAction, desc string, before any, after any) {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return
	}
	// Audit yazılamazsa ana işlemi geri alma
	_ = audit.WriteLog(audit.LogOptions{
		UserID:      auth.UserIDFromCtx(c),
		UserName:    actor.FullName,
		EntityType:  "sheet",
		EntityID:    sheet.ID,
		Action:      action,
		Description: desc,
		Before:      before,
		After:       after,
	})
}
