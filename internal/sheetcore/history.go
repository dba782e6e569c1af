package sheetcore

import (
	"time"

	"dispatch-backend/internal/models"
)

// Geçmiş aksiyon adları
const (
	HistoryStagingSubmitted = "STAGING_SUBMITTED"
	HistoryStagingVerified  = "STAGING_VERIFIED"
	HistoryStagingRejected  = "STAGING_REJECTED"
	HistoryLoadingSubmitted = "LOADING_SUBMITTED"
	HistoryCompleted        = "COMPLETED"
	HistoryLoadingRejected  = "REJECTED_LOADING"
)

// AppendHistory: föy geçmişine tek kayıt ekler. Geçmiş sadece eklenir,
// sıralama ekleme sırasıdır ve sonradan asla değiştirilmez.
func AppendHistory(sheet *models.Sheet, actor Actor, action, details string) {
	sheet.History = append(sheet.History, models.SheetHistory{
		SheetID:   sheet.ID,
		Actor:     actor.FullName,
		Username:  actor.Username,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	})
}
