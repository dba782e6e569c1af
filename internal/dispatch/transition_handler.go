package dispatch

import (
	"dispatch-backend/internal/auth"
	"dispatch-backend/internal/models"
	"dispatch-backend/internal/sheetcore"

	"github.com/gofiber/fiber/v2"
)

type VerifyRequest struct {
	Checklist sheetcore.Checklist `json:"checklist"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type SubmitRequest struct {
	Signature string `json:"signature"`
}

type ItemRejectRequest struct {
	Stage  string `json:"stage"` // "staging" | "loading"
	Reason string `json:"reason"`
}

type AddCommentRequest struct {
	Text string `json:"text"`
}

// transitionHandler: altı geçiş endpoint'inin ortak gövdesi. Durum ve rol
// kontrolü core'un geçiş tablosunda; burada sadece girdi toplanır, sonuç
// kaydedilir ve audit yazılır.
func transitionHandler(ev sheetcore.Event, buildReq func(c *fiber.Ctx, actor sheetcore.Actor) (sheetcore.TransitionRequest, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}
		beforeStatus := sheet.Status

		req, err := buildReq(c, actor)
		if err != nil {
			return err
		}

		if err := sheetcore.Apply(sheet, ev, req); err != nil {
			return coreErrToFiber(err)
		}

		if err := saveSheet(sheet); err != nil {
			return err
		}

		writeSheetAudit(c, sheet, models.AuditActionTransition,
			string(beforeStatus)+" -> "+string(sheet.Status),
			fiber.Map{"status": beforeStatus}, fiber.Map{"status": sheet.Status})

		return c.JSON(toSheetResponse(sheet))
	}
}

// POST /api/sheets/:id/submit-staging
func SubmitStagingHandler() fiber.Handler {
	return transitionHandler(sheetcore.EventSubmitStaging, func(c *fiber.Ctx, actor sheetcore.Actor) (sheetcore.TransitionRequest, error) {
		var body SubmitRequest
		_ = c.BodyParser(&body) // imza opsiyonel, gövde boş olabilir
		return sheetcore.TransitionRequest{Actor: actor, Signature: body.Signature}, nil
	})
}

// POST /api/sheets/:id/verify-staging
func VerifyStagingHandler() fiber.Handler {
	return transitionHandler(sheetcore.EventVerifyStaging, func(c *fiber.Ctx, actor sheetcore.Actor) (sheetcore.TransitionRequest, error) {
		var body VerifyRequest
		if err := c.BodyParser(&body); err != nil {
			return sheetcore.TransitionRequest{}, fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		return sheetcore.TransitionRequest{Actor: actor, Checklist: body.Checklist}, nil
	})
}

// POST /api/sheets/:id/reject-staging
func RejectStagingHandler() fiber.Handler {
	return transitionHandler(sheetcore.EventRejectStaging, func(c *fiber.Ctx, actor sheetcore.Actor) (sheetcore.TransitionRequest, error) {
		var body RejectRequest
		if err := c.BodyParser(&body); err != nil {
			return sheetcore.TransitionRequest{}, fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		return sheetcore.TransitionRequest{Actor: actor, Reason: body.Reason}, nil
	})
}

// POST /api/sheets/:id/submit-loading
func SubmitLoadingHandler() fiber.Handler {
	return transitionHandler(sheetcore.EventSubmitLoading, func(c *fiber.Ctx, actor sheetcore.Actor) (sheetcore.TransitionRequest, error) {
		var body SubmitRequest
		_ = c.BodyParser(&body)
		return sheetcore.TransitionRequest{Actor: actor, Signature: body.Signature}, nil
	})
}

// POST /api/sheets/:id/verify-loading
func VerifyLoadingHandler() fiber.Handler {
	return transitionHandler(sheetcore.EventVerifyLoading, func(c *fiber.Ctx, actor sheetcore.Actor) (sheetcore.TransitionRequest, error) {
		var body VerifyRequest
		if err := c.BodyParser(&body); err != nil {
			return sheetcore.TransitionRequest{}, fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		return sheetcore.TransitionRequest{Actor: actor, Checklist: body.Checklist}, nil
	})
}

// POST /api/sheets/:id/reject-loading
func RejectLoadingHandler() fiber.Handler {
	return transitionHandler(sheetcore.EventRejectLoading, func(c *fiber.Ctx, actor sheetcore.Actor) (sheetcore.TransitionRequest, error) {
		var body RejectRequest
		if err := c.BodyParser(&body); err != nil {
			return sheetcore.TransitionRequest{}, fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		return sheetcore.TransitionRequest{Actor: actor, Reason: body.Reason}, nil
	})
}

// POST /api/sheets/:id/items/:serial/reject
// Kalem seviyesi ret. Rol ve durum kontrolü core'da: yanlış durum sessiz
// no-op (bayat ekran), yanlış rol 403.
func ToggleItemRejectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}

		serial, err := c.ParamsInt("serial")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz seri numarası")
		}

		var body ItemRejectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := sheetcore.ToggleItemRejection(sheet, actor, sheetcore.ItemStage(body.Stage), serial, body.Reason); err != nil {
			return coreErrToFiber(err)
		}

		if err := saveSheet(sheet); err != nil {
			return err
		}

		writeSheetAudit(c, sheet, models.AuditActionUpdate, "Kalem ret işareti değiştirildi", nil, fiber.Map{
			"stage":  body.Stage,
			"serial": serial,
		})

		return c.JSON(toSheetResponse(sheet))
	}
}

// POST /api/sheets/:id/comments
func AddCommentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		sheet, err := loadSheet(c.Params("id"))
		if err != nil {
			return err
		}

		var body AddCommentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Yorum metni zorunlu")
		}

		// COMPLETED föy her mutasyon için salt okunur
		if sheet.Status == models.StatusCompleted {
			return c.JSON(toSheetResponse(sheet))
		}

		sheet.Comments = append(sheet.Comments, models.SheetComment{
			SheetID: sheet.ID,
			Author:  actor.FullName,
			Text:    body.Text,
		})

		if err := saveSheet(sheet); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toSheetResponse(sheet))
	}
}
