package sheetcore

import (
	"strconv"
	"testing"

	"dispatch-backend/internal/models"
)

func TestRecomputeStagingItem(t *testing.T) {
	it := models.StagingItem{CasesPerPallet: 10, FullPallets: 5, LooseUnits: 3}
	RecomputeStagingItem(&it)
	if it.TotalCases != 53 {
		t.Errorf("TotalCases = %d, beklenen 53", it.TotalCases)
	}

	it.LooseUnits = 0
	RecomputeStagingItem(&it)
	if it.TotalCases != 50 {
		t.Errorf("TotalCases = %d, beklenen 50", it.TotalCases)
	}
}

func TestReplaceStagingItems_Validation(t *testing.T) {
	sheet := &models.Sheet{ID: "s1", Status: models.StatusDraft}

	err := ReplaceStagingItems(sheet, []models.StagingItem{{SerialNo: 0, SkuName: "X"}})
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("sıfır seri numarası ValidationError vermeli, gelen: %v", err)
	}

	err = ReplaceStagingItems(sheet, []models.StagingItem{
		{SerialNo: 1, SkuName: "X"},
		{SerialNo: 1, SkuName: "Y"},
	})
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("tekrarlı seri numarası ValidationError vermeli, gelen: %v", err)
	}

	err = ReplaceStagingItems(sheet, []models.StagingItem{
		{SerialNo: 1, SkuName: "X", FullPallets: -1},
	})
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("negatif miktar ValidationError vermeli, gelen: %v", err)
	}
}

func TestReplaceStagingItems_NoOpOutsideDraft(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)

	before := len(sheet.StagingItems)
	if err := ReplaceStagingItems(sheet, nil); err != nil {
		t.Fatalf("LOCKED durumda hata beklenmez: %v", err)
	}
	if len(sheet.StagingItems) != before {
		t.Errorf("LOCKED durumda kalemler değişmemeli")
	}
}

func TestReplaceStagingItems_PreservesRejectionFlags(t *testing.T) {
	sheet := newDraftSheet(t)
	sheet.StagingItems[0].IsRejected = true
	sheet.StagingItems[0].RejectionReason = "Yanlış Koli/PLT"

	err := ReplaceStagingItems(sheet, []models.StagingItem{
		{SerialNo: 1, SkuName: "Su 0.5L", CasesPerPallet: 10, FullPallets: 6},
		{SerialNo: 3, SkuName: "Yeni Ürün", CasesPerPallet: 5, FullPallets: 1},
	})
	if err != nil {
		t.Fatalf("ReplaceStagingItems: %v", err)
	}

	if !sheet.StagingItems[0].IsRejected || sheet.StagingItems[0].RejectionReason != "Yanlış Koli/PLT" {
		t.Errorf("aynı seri numaralı kalemin ret işareti korunmalı")
	}
	if sheet.StagingItems[1].IsRejected {
		t.Errorf("yeni kalem ret işareti taşımamalı")
	}
}

func TestDeriveLoadingItems(t *testing.T) {
	sheet := newDraftSheet(t)
	sheet.StagingItems = append(sheet.StagingItems,
		models.StagingItem{SerialNo: 3, SkuName: "", CasesPerPallet: 10, FullPallets: 1, TotalCases: 10},
		models.StagingItem{SerialNo: 4, SkuName: "Boş Satır", TotalCases: 0},
	)

	DeriveLoadingItems(sheet)

	if len(sheet.LoadingItems) != 2 {
		t.Fatalf("2 yükleme kalemi beklenir (adı boş ve toplamı 0 olanlar elenir), gelen %d", len(sheet.LoadingItems))
	}
	for _, li := range sheet.LoadingItems {
		if li.Total != 0 {
			t.Errorf("yeni kalemin Total'i 0 olmalı")
		}
	}
	if sheet.LoadingItems[0].Balance != 53 || sheet.LoadingItems[1].Balance != 40 {
		t.Errorf("başlangıç bakiyeleri hazırlama toplamına eşit olmalı: %d, %d",
			sheet.LoadingItems[0].Balance, sheet.LoadingItems[1].Balance)
	}
}

func TestDeriveLoadingItems_Idempotent(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet) // derive burada çalışır

	// Devam eden yükleme verisi var
	if err := SetCell(sheet, 1, 0, 0, "10"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	first := len(sheet.LoadingItems)
	DeriveLoadingItems(sheet)
	if len(sheet.LoadingItems) != first {
		t.Errorf("ikinci türetme kalem eklememeli: %d -> %d", first, len(sheet.LoadingItems))
	}
	if sheet.LoadingItems[0].Total != 10 {
		t.Errorf("ikinci türetme mevcut veriyi ezmemeli: Total = %d", sheet.LoadingItems[0].Total)
	}
}

func TestSetCell_TotalsAndBalance(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)

	// Senaryo: 10 koli/palet × 5 palet + 3 açık = 53 hazırlanan.
	// 4 tam palet hücre (4×10=40) + 10 açık koli → 50 yüklenen, bakiye 3.
	for col := 0; col < 4; col++ {
		if err := SetCell(sheet, 1, 0, col, "10"); err != nil {
			t.Fatalf("SetCell col=%d: %v", col, err)
		}
	}
	if err := SetLoose(sheet, 1, "10"); err != nil {
		t.Fatalf("SetLoose: %v", err)
	}

	li := findLoadingItem(sheet, 1)
	if li.Total != 50 {
		t.Errorf("Total = %d, beklenen 50", li.Total)
	}
	if li.Balance != 3 {
		t.Errorf("Balance = %d, beklenen 3 (iade edilecek)", li.Balance)
	}

	// Her düzenlemeden sonra invariant: total == Σ hücre + loose
	sum := 0
	for _, cell := range li.Cells {
		sum += cell.Value
	}
	if li.LooseInput != nil {
		sum += *li.LooseInput
	}
	if li.Total != sum {
		t.Errorf("Total (%d) hücre+loose toplamına (%d) eşit değil", li.Total, sum)
	}
}

func TestSetCell_UpsertAndRemove(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)

	if err := SetCell(sheet, 1, 0, 0, "10"); err != nil {
		t.Fatal(err)
	}
	if err := SetCell(sheet, 1, 0, 0, "12"); err != nil {
		t.Fatal(err)
	}
	li := findLoadingItem(sheet, 1)
	if len(li.Cells) != 1 || li.Cells[0].Value != 12 {
		t.Errorf("aynı konuma yazmak mevcut hücreyi değiştirmeli, çoğaltmamalı")
	}

	// Boş string = silme
	if err := SetCell(sheet, 1, 0, 0, ""); err != nil {
		t.Fatal(err)
	}
	if len(li.Cells) != 0 {
		t.Errorf("boş girdi hücreyi kaldırmalı")
	}
	if li.Total != 0 || li.Balance != 53 {
		t.Errorf("silme sonrası Total=%d Balance=%d, beklenen 0/53", li.Total, li.Balance)
	}
}

func TestSetCell_InvalidInputIsSilentNoOp(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)

	if err := SetCell(sheet, 1, 0, 0, "10"); err != nil {
		t.Fatal(err)
	}

	for _, raw := range []string{"abc", "-5", "3.5", "1e3"} {
		if err := SetCell(sheet, 1, 0, 0, raw); err != nil {
			t.Errorf("bozuk girdi %q hata döndürmemeli: %v", raw, err)
		}
	}

	li := findLoadingItem(sheet, 1)
	if len(li.Cells) != 1 || li.Cells[0].Value != 10 {
		t.Errorf("bozuk girdi önceki durumu değiştirmemeli")
	}
}

func TestSetCell_OutOfGrid(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {0, models.PalletColumns}} {
		err := SetCell(sheet, 1, pos[0], pos[1], "5")
		if _, ok := err.(*ValidationError); !ok {
			t.Errorf("grid dışı konum (%d,%d) ValidationError vermeli, gelen: %v", pos[0], pos[1], err)
		}
	}
}

func TestSetCell_NoOpOutsideLocked(t *testing.T) {
	sheet := newDraftSheet(t)
	DeriveLoadingItems(sheet)

	// DRAFT durumda sessiz no-op
	if err := SetCell(sheet, 1, 0, 0, "10"); err != nil {
		t.Fatalf("DRAFT durumda hata beklenmez: %v", err)
	}
	if len(sheet.LoadingItems[0].Cells) != 0 {
		t.Errorf("DRAFT durumda hücre yazılmamalı")
	}
}

func TestSetLoose_Remove(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)

	if err := SetLoose(sheet, 1, "7"); err != nil {
		t.Fatal(err)
	}
	li := findLoadingItem(sheet, 1)
	if li.LooseInput == nil || *li.LooseInput != 7 || li.Total != 7 {
		t.Fatalf("LooseInput=7 beklenir, Total=%d", li.Total)
	}

	if err := SetLoose(sheet, 1, ""); err != nil {
		t.Fatal(err)
	}
	if li.LooseInput != nil || li.Total != 0 {
		t.Errorf("boş girdi loose değerini kaldırmalı")
	}
}

func TestSetLoose_UnknownSerial(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)

	err := SetLoose(sheet, 99, "5")
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("bilinmeyen seri numarası ValidationError vermeli, gelen: %v", err)
	}
}

func TestBalanceFallbackWithoutStagingMatch(t *testing.T) {
	sheet := newDraftSheet(t)
	lockSheet(t, sheet)

	// Eşleşen hazırlama kalemi yoksa balance 0−total'e düşer
	sheet.LoadingItems = append(sheet.LoadingItems, models.LoadingItem{StagingSerialNo: 42})
	if err := SetCell(sheet, 42, 0, 0, "8"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	li := findLoadingItem(sheet, 42)
	if li.Balance != -8 {
		t.Errorf("Balance = %d, beklenen -8", li.Balance)
	}
}

func TestAdditionalItems(t *testing.T) {
	sheet := newDraftSheet(t)
	for slot := 1; slot <= models.AdditionalSlotCount; slot++ {
		sheet.AdditionalItems = append(sheet.AdditionalItems, models.AdditionalItem{
			Slot:   slot,
			Counts: make([]int, models.PalletColumns),
		})
	}
	lockSheet(t, sheet)

	if err := SetAdditionalSku(sheet, 1, "  Promosyon Kutusu "); err != nil {
		t.Fatal(err)
	}
	if sheet.AdditionalItems[0].SkuName != "Promosyon Kutusu" {
		t.Errorf("SkuName trim'lenmeli: %q", sheet.AdditionalItems[0].SkuName)
	}

	if err := SetAdditionalCount(sheet, 1, 0, "4"); err != nil {
		t.Fatal(err)
	}
	if err := SetAdditionalCount(sheet, 1, 3, "6"); err != nil {
		t.Fatal(err)
	}
	if sheet.AdditionalItems[0].Total != 10 {
		t.Errorf("ek ürün Total = %d, beklenen 10", sheet.AdditionalItems[0].Total)
	}

	err := SetAdditionalCount(sheet, 1, models.PalletColumns, "1")
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("grid dışı pozisyon ValidationError vermeli, gelen: %v", err)
	}
	err = SetAdditionalCount(sheet, 99, 0, "1")
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("bilinmeyen slot ValidationError vermeli, gelen: %v", err)
	}
}

func TestTotals(t *testing.T) {
	sheet := newDraftSheet(t)
	sheet.AdditionalItems = append(sheet.AdditionalItems, models.AdditionalItem{
		Slot: 1, Counts: make([]int, models.PalletColumns),
	})
	lockSheet(t, sheet)

	// Kalem 1: 40 hücre + 10 açık = 50 (bakiye +3)
	for col := 0; col < 4; col++ {
		if err := SetCell(sheet, 1, 0, col, "10"); err != nil {
			t.Fatal(err)
		}
	}
	if err := SetLoose(sheet, 1, "10"); err != nil {
		t.Fatal(err)
	}
	// Kalem 2: 45 yüklendi (hazırlanan 40 → bakiye −5, fazla yükleme)
	if err := SetCell(sheet, 2, 0, 0, "20"); err != nil {
		t.Fatal(err)
	}
	if err := SetCell(sheet, 2, 0, 1, strconv.Itoa(25)); err != nil {
		t.Fatal(err)
	}
	// Ek ürün: 5
	if err := SetAdditionalCount(sheet, 1, 0, "5"); err != nil {
		t.Fatal(err)
	}

	got := Totals(sheet)
	want := SheetTotals{
		TotalStaging:       93,
		TotalLoadedMain:    95,
		TotalAdditional:    5,
		GrandTotalLoaded:   100,
		OutstandingBalance: 3, // sadece pozitif bakiyeler
		OverLoaded:         5,
	}
	if got != want {
		t.Errorf("Totals = %+v, beklenen %+v", got, want)
	}
}
