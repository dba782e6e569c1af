package sheetcore

import (
	"strconv"
	"strings"

	"dispatch-backend/internal/models"
)

// ItemStage: ret işaretinin hangi kaleme uygulanacağı
type ItemStage string

const (
	StageStaging ItemStage = "staging"
	StageLoading ItemStage = "loading"
)

// ToggleItemRejection: tek bir kalemin ret işaretini değiştirir.
// İşaretli kalemde çağrılırsa işareti ve gerekçeyi temizler; işaretsiz
// kalemde boş olmayan bir gerekçe ister. Sadece onay bekleyen durumda ve
// sadece onay yetkisi olan rollerce çalışır; durum uymuyorsa sessiz no-op
// (buton bayat bir ekranda kalmış olabilir), rol uymuyorsa yetki hatası.
func ToggleItemRejection(sheet *models.Sheet, actor Actor, stage ItemStage, serialNo int, reason string) error {
	if !actor.isVerifier() {
		return &AuthorizationError{Role: actor.Role, Event: Event("kalem reddi")}
	}

	switch stage {
	case StageStaging:
		if sheet.Status != models.StatusStagingVerificationPending {
			return nil
		}
		st := findStagingItem(sheet, serialNo)
		if st == nil {
			return &ValidationError{Msg: "hazırlama kalemi bulunamadı: " + strconv.Itoa(serialNo)}
		}
		return toggleFlag(&st.IsRejected, &st.RejectionReason, reason)

	case StageLoading:
		if sheet.Status != models.StatusLoadingVerificationPending {
			return nil
		}
		li := findLoadingItem(sheet, serialNo)
		if li == nil {
			return &ValidationError{Msg: "yükleme kalemi bulunamadı: " + strconv.Itoa(serialNo)}
		}
		return toggleFlag(&li.IsRejected, &li.RejectionReason, reason)

	default:
		return &ValidationError{Msg: "geçersiz kalem aşaması: " + string(stage)}
	}
}

func toggleFlag(flag *bool, reasonField *string, reason string) error {
	if *flag {
		*flag = false
		*reasonField = ""
		return nil
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return &ValidationError{Msg: "ret gerekçesi zorunlu"}
	}
	*flag = true
	*reasonField = reason
	return nil
}
