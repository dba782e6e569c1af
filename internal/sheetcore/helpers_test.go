package sheetcore

import (
	"testing"

	"dispatch-backend/internal/models"
)

var (
	stagingSup = Actor{Username: "ayse", FullName: "Ayşe Demir", Role: models.RoleStagingSupervisor}
	loadingSup = Actor{Username: "mehmet", FullName: "Mehmet Kaya", Role: models.RoleLoadingSupervisor}
	shiftLead  = Actor{Username: "fatma", FullName: "Fatma Çelik", Role: models.RoleShiftLead}
	adminUser  = Actor{Username: "admin", FullName: "Sistem Admin", Role: models.RoleAdmin}
)

func allConfirmed() Checklist {
	return Checklist{QuantityMatch: true, ConditionOK: true, SignaturePresent: true}
}

// newDraftSheet: iki kalemli taze föy
func newDraftSheet(t *testing.T) *models.Sheet {
	t.Helper()

	sheet := &models.Sheet{
		ID:     "test-sheet-1",
		Status: models.StatusDraft,
	}
	items := []models.StagingItem{
		{SerialNo: 1, SkuName: "Su 0.5L", CasesPerPallet: 10, FullPallets: 5, LooseUnits: 3},
		{SerialNo: 2, SkuName: "Kola 1L", CasesPerPallet: 20, FullPallets: 2, LooseUnits: 0},
	}
	if err := ReplaceStagingItems(sheet, items); err != nil {
		t.Fatalf("ReplaceStagingItems: %v", err)
	}
	return sheet
}

// lockSheet: föyü DRAFT'tan LOCKED'a taşır (gönderim + onay)
func lockSheet(t *testing.T, sheet *models.Sheet) {
	t.Helper()

	if err := Apply(sheet, EventSubmitStaging, TransitionRequest{Actor: stagingSup}); err != nil {
		t.Fatalf("submit staging: %v", err)
	}
	if err := Apply(sheet, EventVerifyStaging, TransitionRequest{Actor: shiftLead, Checklist: allConfirmed()}); err != nil {
		t.Fatalf("verify staging: %v", err)
	}
	if sheet.Status != models.StatusLocked {
		t.Fatalf("beklenen LOCKED, gelen %s", sheet.Status)
	}
}
