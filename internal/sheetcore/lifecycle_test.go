package sheetcore

import (
	"errors"
	"testing"

	"dispatch-backend/internal/models"
)

func TestFullLifecycle(t *testing.T) {
	sheet := newDraftSheet(t)

	if err := Apply(sheet, EventSubmitStaging, TransitionRequest{Actor: stagingSup}); err != nil {
		t.Fatalf("submit staging: %v", err)
	}
	if sheet.Status != models.StatusStagingVerificationPending {
		t.Fatalf("durum = %s", sheet.Status)
	}

	if err := Apply(sheet, EventVerifyStaging, TransitionRequest{Actor: shiftLead, Checklist: allConfirmed()}); err != nil {
		t.Fatalf("verify staging: %v", err)
	}
	if sheet.Status != models.StatusLocked {
		t.Fatalf("durum = %s", sheet.Status)
	}
	if sheet.LockedBy != shiftLead.FullName || sheet.LockedAt == nil {
		t.Errorf("kilit damgası eksik: LockedBy=%q LockedAt=%v", sheet.LockedBy, sheet.LockedAt)
	}
	if sheet.ShiftLeadSignature != shiftLead.FullName {
		t.Errorf("vardiya amiri imzası otomatik atılmalı")
	}
	if len(sheet.LoadingItems) != 2 {
		t.Errorf("kilitte yükleme kalemleri türetilmeli, gelen %d", len(sheet.LoadingItems))
	}

	if err := Apply(sheet, EventSubmitLoading, TransitionRequest{Actor: loadingSup, Signature: "M.Kaya"}); err != nil {
		t.Fatalf("submit loading: %v", err)
	}
	if sheet.Status != models.StatusLoadingVerificationPending {
		t.Fatalf("durum = %s", sheet.Status)
	}
	if sheet.LoadingEndedAt == nil {
		t.Errorf("yükleme bitiş zamanı damgalanmalı")
	}

	if err := Apply(sheet, EventVerifyLoading, TransitionRequest{Actor: shiftLead, Checklist: allConfirmed()}); err != nil {
		t.Fatalf("verify loading: %v", err)
	}
	if sheet.Status != models.StatusCompleted {
		t.Fatalf("durum = %s", sheet.Status)
	}
	if sheet.CompletedBy != shiftLead.FullName || sheet.CompletedAt == nil {
		t.Errorf("tamamlama damgası eksik")
	}
	if sheet.LoadingApprovedBy != shiftLead.FullName || sheet.LoadingApprovedAt == nil {
		t.Errorf("yükleme onay damgası eksik")
	}

	// 4 başarılı geçiş = 4 geçmiş kaydı, ekleme sırasıyla
	wantActions := []string{HistoryStagingSubmitted, HistoryStagingVerified, HistoryLoadingSubmitted, HistoryCompleted}
	if len(sheet.History) != len(wantActions) {
		t.Fatalf("geçmiş kaydı sayısı = %d, beklenen %d", len(sheet.History), len(wantActions))
	}
	for i, want := range wantActions {
		if sheet.History[i].Action != want {
			t.Errorf("history[%d] = %s, beklenen %s", i, sheet.History[i].Action, want)
		}
	}
}

func TestIllegalTransitions(t *testing.T) {
	sheet := newDraftSheet(t)

	// DRAFT durumda verify & lock çağrılamaz
	err := Apply(sheet, EventVerifyStaging, TransitionRequest{Actor: shiftLead, Checklist: allConfirmed()})
	var ite *IllegalTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("IllegalTransitionError beklenir, gelen: %v", err)
	}
	if sheet.Status != models.StatusDraft {
		t.Errorf("başarısız geçiş durumu değiştirmemeli")
	}
	if len(sheet.History) != 0 {
		t.Errorf("başarısız geçiş geçmişe kayıt eklememeli")
	}

	// Bilinmeyen olay da aynı hatayı verir
	err = Apply(sheet, Event("UNKNOWN"), TransitionRequest{Actor: adminUser})
	if !errors.As(err, &ite) {
		t.Errorf("bilinmeyen olay IllegalTransitionError vermeli, gelen: %v", err)
	}
}

func TestRoleGating(t *testing.T) {
	sheet := newDraftSheet(t)
	if err := Apply(sheet, EventSubmitStaging, TransitionRequest{Actor: stagingSup}); err != nil {
		t.Fatal(err)
	}

	// Yükleme sorumlusu vardiya amirine ait geçişi deneyemez
	err := Apply(sheet, EventVerifyStaging, TransitionRequest{Actor: loadingSup, Checklist: allConfirmed()})
	var ae *AuthorizationError
	if !errors.As(err, &ae) {
		t.Fatalf("AuthorizationError beklenir, gelen: %v", err)
	}
	if sheet.Status != models.StatusStagingVerificationPending {
		t.Errorf("yetki hatası durumu değiştirmemeli")
	}

	// Admin ve super admin vardiya amiri geçişlerini yapabilir
	if err := Apply(sheet, EventVerifyStaging, TransitionRequest{Actor: adminUser, Checklist: allConfirmed()}); err != nil {
		t.Errorf("admin onaylayabilmeli: %v", err)
	}

	sheet2 := newDraftSheet(t)
	if err := Apply(sheet2, EventSubmitStaging, TransitionRequest{Actor: stagingSup}); err != nil {
		t.Fatal(err)
	}
	superAdmin := Actor{Username: "root", FullName: "Super Admin", Role: models.RoleSuperAdmin}
	if err := Apply(sheet2, EventVerifyStaging, TransitionRequest{Actor: superAdmin, Checklist: allConfirmed()}); err != nil {
		t.Errorf("super admin onaylayabilmeli: %v", err)
	}

	// Vardiya amiri hazırlama gönderemez
	sheet3 := newDraftSheet(t)
	err = Apply(sheet3, EventSubmitStaging, TransitionRequest{Actor: shiftLead})
	if !errors.As(err, &ae) {
		t.Errorf("vardiya amiri hazırlama gönderememeli, gelen: %v", err)
	}
}

func TestVerifyRequiresFullChecklist(t *testing.T) {
	partials := []Checklist{
		{},
		{QuantityMatch: true},
		{QuantityMatch: true, ConditionOK: true},
		{QuantityMatch: true, SignaturePresent: true},
	}

	for _, cl := range partials {
		sheet := newDraftSheet(t)
		if err := Apply(sheet, EventSubmitStaging, TransitionRequest{Actor: stagingSup}); err != nil {
			t.Fatal(err)
		}

		err := Apply(sheet, EventVerifyStaging, TransitionRequest{Actor: shiftLead, Checklist: cl})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("eksik checklist %+v ValidationError vermeli, gelen: %v", cl, err)
		}
		if sheet.Status != models.StatusStagingVerificationPending {
			t.Errorf("eksik checklist durumu değiştirmemeli")
		}
		if len(sheet.LoadingItems) != 0 {
			t.Errorf("başarısız onay yükleme kalemi türetmemeli")
		}
	}
}

func TestRejectStaging(t *testing.T) {
	sheet := newDraftSheet(t)
	if err := Apply(sheet, EventSubmitStaging, TransitionRequest{Actor: stagingSup}); err != nil {
		t.Fatal(err)
	}

	// Gerekçesiz ret reddedilir
	err := Apply(sheet, EventRejectStaging, TransitionRequest{Actor: shiftLead, Reason: "  "})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("boş gerekçe ValidationError vermeli, gelen: %v", err)
	}
	if len(sheet.History) != 1 || len(sheet.Comments) != 0 {
		t.Errorf("başarısız ret hiçbir iz bırakmamalı")
	}

	if err := Apply(sheet, EventRejectStaging, TransitionRequest{Actor: shiftLead, Reason: "Yanlış Koli/PLT"}); err != nil {
		t.Fatalf("reject staging: %v", err)
	}
	if sheet.Status != models.StatusDraft {
		t.Errorf("ret sonrası durum DRAFT olmalı, gelen %s", sheet.Status)
	}
	if sheet.RejectionReason != "Yanlış Koli/PLT" {
		t.Errorf("föy seviyesi gerekçe yazılmalı: %q", sheet.RejectionReason)
	}
	if len(sheet.Comments) != 1 || sheet.Comments[0].Author != shiftLead.FullName || sheet.Comments[0].Text != "Yanlış Koli/PLT" {
		t.Errorf("ret bir yorum eklemeli: %+v", sheet.Comments)
	}
	if len(sheet.History) != 2 || sheet.History[1].Action != HistoryStagingRejected {
		t.Errorf("STAGING_REJECTED geçmiş kaydı beklenir")
	}

	// Yeniden gönderim gerekçeyi temizler, eski geçmişi korur
	if err := Apply(sheet, EventSubmitStaging, TransitionRequest{Actor: stagingSup}); err != nil {
		t.Fatal(err)
	}
	if sheet.RejectionReason != "" {
		t.Errorf("yeniden gönderim gerekçeyi temizlemeli")
	}
	if len(sheet.History) != 3 {
		t.Errorf("yeniden gönderim önceki kayıtları silmemeli: %d", len(sheet.History))
	}
}

func TestSubmitLoadingRequiresSignature(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)

	err := Apply(sheet, EventSubmitLoading, TransitionRequest{Actor: loadingSup})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("imzasız gönderim ValidationError vermeli, gelen: %v", err)
	}
	if sheet.Status != models.StatusLocked {
		t.Errorf("imzasız gönderim durumu değiştirmemeli, gelen %s", sheet.Status)
	}

	// Föyde önceden imza varsa istek gövdesinde tekrar gerekmez
	sheet.LoadingSupervisorSignature = "M.Kaya"
	if err := Apply(sheet, EventSubmitLoading, TransitionRequest{Actor: loadingSup}); err != nil {
		t.Errorf("föydeki imza yeterli olmalı: %v", err)
	}
}

func TestRejectLoading(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)
	if err := Apply(sheet, EventSubmitLoading, TransitionRequest{Actor: loadingSup, Signature: "M.Kaya"}); err != nil {
		t.Fatal(err)
	}

	if err := Apply(sheet, EventRejectLoading, TransitionRequest{Actor: shiftLead, Reason: "Eksik palet"}); err != nil {
		t.Fatalf("reject loading: %v", err)
	}
	if sheet.Status != models.StatusLocked {
		t.Errorf("yükleme reddi LOCKED'a dönmeli, gelen %s", sheet.Status)
	}
	if sheet.RejectionReason != "Eksik palet" {
		t.Errorf("gerekçe yazılmalı")
	}
	last := sheet.History[len(sheet.History)-1]
	if last.Action != HistoryLoadingRejected {
		t.Errorf("son geçmiş kaydı REJECTED_LOADING olmalı, gelen %s", last.Action)
	}

	// Yeniden gönderim gerekçeyi temizler
	if err := Apply(sheet, EventSubmitLoading, TransitionRequest{Actor: loadingSup, Signature: "M.Kaya"}); err != nil {
		t.Fatal(err)
	}
	if sheet.RejectionReason != "" {
		t.Errorf("yeniden gönderim gerekçeyi temizlemeli")
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)
	if err := Apply(sheet, EventSubmitLoading, TransitionRequest{Actor: loadingSup, Signature: "M.Kaya"}); err != nil {
		t.Fatal(err)
	}
	if err := Apply(sheet, EventVerifyLoading, TransitionRequest{Actor: shiftLead, Checklist: allConfirmed()}); err != nil {
		t.Fatal(err)
	}

	events := []Event{
		EventSubmitStaging, EventVerifyStaging, EventRejectStaging,
		EventSubmitLoading, EventVerifyLoading, EventRejectLoading,
	}
	var ite *IllegalTransitionError
	for _, ev := range events {
		err := Apply(sheet, ev, TransitionRequest{Actor: adminUser, Checklist: allConfirmed(), Reason: "x", Signature: "x"})
		if !errors.As(err, &ite) {
			t.Errorf("COMPLETED föyde %s kabul edilmemeli, gelen: %v", ev, err)
		}
	}
	if sheet.Status != models.StatusCompleted {
		t.Errorf("durum COMPLETED kalmalı")
	}

	// Mutatorlar da sessiz no-op
	if err := SetCell(sheet, 1, 0, 0, "10"); err != nil {
		t.Errorf("COMPLETED föyde SetCell hata vermemeli (no-op): %v", err)
	}
	for _, li := range sheet.LoadingItems {
		if len(li.Cells) != 0 {
			t.Errorf("COMPLETED föyde hücre yazılmamalı")
		}
	}
}

func TestHistoryCountMatchesSuccessfulTransitions(t *testing.T) {
	sheet := newDraftSheet(t)

	attempts := 0
	successes := 0
	try := func(ev Event, req TransitionRequest) {
		attempts++
		if err := Apply(sheet, ev, req); err == nil {
			successes++
		}
	}

	try(EventVerifyStaging, TransitionRequest{Actor: shiftLead, Checklist: allConfirmed()})  // illegal
	try(EventSubmitStaging, TransitionRequest{Actor: stagingSup})                            // ok
	try(EventSubmitStaging, TransitionRequest{Actor: stagingSup})                            // illegal (tekrar)
	try(EventVerifyStaging, TransitionRequest{Actor: loadingSup, Checklist: allConfirmed()}) // yetki yok
	try(EventVerifyStaging, TransitionRequest{Actor: shiftLead, Checklist: Checklist{}})     // checklist eksik
	try(EventVerifyStaging, TransitionRequest{Actor: shiftLead, Checklist: allConfirmed()})  // ok
	try(EventSubmitLoading, TransitionRequest{Actor: loadingSup})                            // imza yok
	try(EventSubmitLoading, TransitionRequest{Actor: loadingSup, Signature: "M.K."})         // ok

	if successes != 3 {
		t.Fatalf("beklenen 3 başarılı geçiş, gelen %d (%d deneme)", successes, attempts)
	}
	if len(sheet.History) != successes {
		t.Errorf("geçmiş kaydı sayısı (%d) başarılı geçiş sayısına (%d) eşit olmalı", len(sheet.History), successes)
	}
}
