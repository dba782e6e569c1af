package sheetcore

import (
	"fmt"

	"dispatch-backend/internal/models"
)

// ValidationError: eksik gerekçe/imza veya bozuk girdi. Durum değişmez,
// kullanıcıya gösterilir, düzeltilip tekrar denenebilir.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuthorizationError: yanlış roldeki kullanıcı bir geçişi denedi.
type AuthorizationError struct {
	Role  models.UserRole
	Event Event
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s rolünün %s işlemi için yetkisi yok", e.Role, e.Event)
}

// IllegalTransitionError: föyün mevcut durumu bu geçişe izin vermiyor.
type IllegalTransitionError struct {
	Status models.SheetStatus
	Event  Event
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s durumundaki föy için %s geçişi geçersiz", e.Status, e.Event)
}
