package sheetcore

import (
	"strings"
	"time"

	"dispatch-backend/internal/models"
)

// Event: yaşam döngüsü geçiş olayları
type Event string

const (
	EventSubmitStaging Event = "SUBMIT_STAGING"
	EventVerifyStaging Event = "VERIFY_STAGING"
	EventRejectStaging Event = "REJECT_STAGING"
	EventSubmitLoading Event = "SUBMIT_LOADING"
	EventVerifyLoading Event = "VERIFY_LOADING"
	EventRejectLoading Event = "REJECT_LOADING"
)

// Checklist: vardiya amirinin onay sırasında tek tek işaretlediği maddeler.
// Hazırlama onayında: miktar uyumu, palet durumu, sorumlu imzası.
// Yükleme onayında: miktar uyumu, yük emniyeti, sorumlu imzası.
type Checklist struct {
	QuantityMatch    bool `json:"quantity_match"`
	ConditionOK      bool `json:"condition_ok"`
	SignaturePresent bool `json:"signature_present"`
}

func (cl Checklist) confirmed() bool {
	return cl.QuantityMatch && cl.ConditionOK && cl.SignaturePresent
}

// TransitionRequest: bir geçiş çağrısının tüm girdileri. Hangi alanların
// zorunlu olduğu olaya göre değişir (ret → Reason, onay → Checklist,
// yükleme gönderimi → Signature).
type TransitionRequest struct {
	Actor     Actor
	Checklist Checklist
	Reason    string
	Signature string
}

type transition struct {
	from   models.SheetStatus
	to     models.SheetStatus
	roles  []models.UserRole
	action string
	// apply: önce korumaları çalıştırır, sonra yan etkileri uygular.
	// Hata dönerse aggregate üzerinde hiçbir değişiklik yapılmamış olmalı.
	apply func(sheet *models.Sheet, req TransitionRequest, now time.Time) (details string, err error)
}

// Geçiş tablosu: hangi durumdan hangi olayla nereye gidilir, kim tetikleyebilir.
// Durum kontrolü ve rol kontrolü tek noktada, Apply içinde yapılır; hiçbir
// handler durum stringi karşılaştırmaz.
var transitions = map[Event]transition{
	EventSubmitStaging: {
		from:   models.StatusDraft,
		to:     models.StatusStagingVerificationPending,
		roles:  []models.UserRole{models.RoleStagingSupervisor},
		action: HistoryStagingSubmitted,
		apply: func(sheet *models.Sheet, req TransitionRequest, now time.Time) (string, error) {
			sheet.RejectionReason = ""
			if s := strings.TrimSpace(req.Signature); s != "" {
				sheet.StagingSupervisorSignature = s
			}
			return "", nil
		},
	},
	EventVerifyStaging: {
		from:   models.StatusStagingVerificationPending,
		to:     models.StatusLocked,
		roles:  []models.UserRole{models.RoleShiftLead, models.RoleAdmin},
		action: HistoryStagingVerified,
		apply: func(sheet *models.Sheet, req TransitionRequest, now time.Time) (string, error) {
			if !req.Checklist.confirmed() {
				return "", &ValidationError{Msg: "onay listesi eksik: tüm maddeler tek tek işaretlenmeli"}
			}
			sheet.LockedBy = req.Actor.FullName
			sheet.LockedAt = &now
			sheet.ShiftLeadSignature = req.Actor.FullName
			DeriveLoadingItems(sheet)
			return "", nil
		},
	},
	EventRejectStaging: {
		from:   models.StatusStagingVerificationPending,
		to:     models.StatusDraft,
		roles:  []models.UserRole{models.RoleShiftLead, models.RoleAdmin},
		action: HistoryStagingRejected,
		apply: func(sheet *models.Sheet, req TransitionRequest, now time.Time) (string, error) {
			reason := strings.TrimSpace(req.Reason)
			if reason == "" {
				return "", &ValidationError{Msg: "ret gerekçesi zorunlu"}
			}
			sheet.RejectionReason = reason
			sheet.Comments = append(sheet.Comments, models.SheetComment{
				SheetID:   sheet.ID,
				Author:    req.Actor.FullName,
				Text:      reason,
				CreatedAt: now,
			})
			return reason, nil
		},
	},
	EventSubmitLoading: {
		from:   models.StatusLocked,
		to:     models.StatusLoadingVerificationPending,
		roles:  []models.UserRole{models.RoleLoadingSupervisor},
		action: HistoryLoadingSubmitted,
		apply: func(sheet *models.Sheet, req TransitionRequest, now time.Time) (string, error) {
			signature := strings.TrimSpace(req.Signature)
			if signature == "" {
				signature = strings.TrimSpace(sheet.LoadingSupervisorSignature)
			}
			if signature == "" {
				return "", &ValidationError{Msg: "imza zorunlu"}
			}
			sheet.LoadingSupervisor = req.Actor.FullName
			sheet.LoadingSupervisorSignature = signature
			if sheet.LoadingEndedAt == nil {
				sheet.LoadingEndedAt = &now
			}
			sheet.RejectionReason = ""
			return "", nil
		},
	},
	EventVerifyLoading: {
		from:   models.StatusLoadingVerificationPending,
		to:     models.StatusCompleted,
		roles:  []models.UserRole{models.RoleShiftLead, models.RoleAdmin},
		action: HistoryCompleted,
		apply: func(sheet *models.Sheet, req TransitionRequest, now time.Time) (string, error) {
			if !req.Checklist.confirmed() {
				return "", &ValidationError{Msg: "onay listesi eksik: tüm maddeler tek tek işaretlenmeli"}
			}
			sheet.LoadingApprovedBy = req.Actor.FullName
			sheet.LoadingApprovedAt = &now
			sheet.CompletedBy = req.Actor.FullName
			sheet.CompletedAt = &now
			sheet.ShiftLeadSignature = req.Actor.FullName
			return "", nil
		},
	},
	EventRejectLoading: {
		from:   models.StatusLoadingVerificationPending,
		to:     models.StatusLocked,
		roles:  []models.UserRole{models.RoleShiftLead, models.RoleAdmin},
		action: HistoryLoadingRejected,
		apply: func(sheet *models.Sheet, req TransitionRequest, now time.Time) (string, error) {
			reason := strings.TrimSpace(req.Reason)
			if reason == "" {
				return "", &ValidationError{Msg: "ret gerekçesi zorunlu"}
			}
			sheet.RejectionReason = reason
			return reason, nil
		},
	},
}

// Apply: geçişi doğrular ve uygular. Başarılı her geçiş tam bir geçmiş
// kaydı ekler; başarısız deneme aggregate'i hiç değiştirmez.
func Apply(sheet *models.Sheet, ev Event, req TransitionRequest) error {
	t, ok := transitions[ev]
	if !ok {
		return &IllegalTransitionError{Status: sheet.Status, Event: ev}
	}
	if sheet.Status != t.from {
		return &IllegalTransitionError{Status: sheet.Status, Event: ev}
	}
	if !roleAllowed(req.Actor.Role, t.roles) {
		return &AuthorizationError{Role: req.Actor.Role, Event: ev}
	}

	details, err := t.apply(sheet, req, time.Now())
	if err != nil {
		return err
	}

	sheet.Status = t.to
	AppendHistory(sheet, req.Actor, t.action, details)
	return nil
}

// EditableStaging / EditableLoading: mutator'ların durum kapıları.
// COMPLETED her rol için tamamen salt okunurdur.
func EditableStaging(sheet *models.Sheet) bool {
	return sheet.Status == models.StatusDraft
}

func EditableLoading(sheet *models.Sheet) bool {
	return sheet.Status == models.StatusLocked
}
