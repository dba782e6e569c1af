package sheetcore

import (
	"strconv"
	"strings"

	"dispatch-backend/internal/models"
)

// RecomputeStagingItem: türetilmiş TotalCases alanını tek noktadan hesaplar.
// Hiçbir çağrı noktası bu alanı doğrudan yazmaz.
func RecomputeStagingItem(it *models.StagingItem) {
	it.TotalCases = it.CasesPerPallet*it.FullPallets + it.LooseUnits
}

// ReplaceStagingItems: hazırlama kalemlerini topluca günceller. Föy DRAFT
// değilse sessizce hiçbir şey yapmaz (bayat UI durumuna tolerans). Seri
// numaraları föy içinde benzersiz ve pozitif olmalı; mevcut kalemlerdeki
// ret işaretleri seri numarasına göre korunur.
func ReplaceStagingItems(sheet *models.Sheet, items []models.StagingItem) error {
	if sheet.Status != models.StatusDraft {
		return nil
	}

	seen := make(map[int]bool, len(items))
	for i := range items {
		it := &items[i]
		if it.SerialNo <= 0 {
			return &ValidationError{Msg: "seri numarası pozitif olmalı"}
		}
		if seen[it.SerialNo] {
			return &ValidationError{Msg: "seri numarası föy içinde benzersiz olmalı: " + strconv.Itoa(it.SerialNo)}
		}
		seen[it.SerialNo] = true
		if it.CasesPerPallet < 0 || it.FullPallets < 0 || it.LooseUnits < 0 {
			return &ValidationError{Msg: "miktar alanları negatif olamaz"}
		}
		RecomputeStagingItem(it)
	}

	// Vardiya amirinin koyduğu ret işaretleri düzenleme sırasında kaybolmasın
	prev := make(map[int]*models.StagingItem, len(sheet.StagingItems))
	for i := range sheet.StagingItems {
		prev[sheet.StagingItems[i].SerialNo] = &sheet.StagingItems[i]
	}
	for i := range items {
		if old, ok := prev[items[i].SerialNo]; ok {
			items[i].IsRejected = old.IsRejected
			items[i].RejectionReason = old.RejectionReason
		}
	}

	sheet.StagingItems = items
	return nil
}

// DeriveLoadingItems: hazırlama kalemlerinden yükleme kalemleri türetir.
// Sadece adı dolu ve toplamı sıfırdan büyük kalemler için üretir; zaten
// mevcut olan kalemlere dokunmaz (idempotent).
func DeriveLoadingItems(sheet *models.Sheet) {
	existing := make(map[int]bool, len(sheet.LoadingItems))
	for _, li := range sheet.LoadingItems {
		existing[li.StagingSerialNo] = true
	}

	for _, st := range sheet.StagingItems {
		if strings.TrimSpace(st.SkuName) == "" || st.TotalCases <= 0 {
			continue
		}
		if existing[st.SerialNo] {
			continue
		}
		sheet.LoadingItems = append(sheet.LoadingItems, models.LoadingItem{
			SheetID:         sheet.ID,
			StagingSerialNo: st.SerialNo,
			Total:           0,
			Balance:         st.TotalCases,
		})
	}
}

// ParseCount: kullanıcı girdisini koli adedine çevirir.
// Boş string = silme (0). Sayı değilse veya negatifse ok=false döner ve
// çağıran mevcut durumu değiştirmeden bırakır.
func ParseCount(raw string) (value int, empty bool, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false, false
	}
	return n, false, true
}

// SetCell: bir palet hücresine değer yazar ve kalemin türetilmiş alanlarını
// yeniden hesaplar. Bozuk sayı girdisi sessiz no-op'tur; föy LOCKED değilse
// de no-op (mutasyon izni yalnız yükleme aşamasında).
func SetCell(sheet *models.Sheet, serialNo, row, col int, raw string) error {
	if sheet.Status != models.StatusLocked {
		return nil
	}
	if row < 0 || col < 0 || col >= models.PalletColumns {
		return &ValidationError{Msg: "hücre konumu grid sınırları dışında"}
	}

	li := findLoadingItem(sheet, serialNo)
	if li == nil {
		return &ValidationError{Msg: "yükleme kalemi bulunamadı: " + strconv.Itoa(serialNo)}
	}

	value, empty, ok := ParseCount(raw)
	if !ok {
		return nil
	}

	if empty || value == 0 {
		removeCell(li, row, col)
	} else {
		upsertCell(li, row, col, value)
	}

	recomputeLoadingItem(sheet, li)
	return nil
}

// SetLoose: palet dışı (açık) koli girişini günceller. Doğrulama ve yeniden
// hesaplama kuralları SetCell ile aynı.
func SetLoose(sheet *models.Sheet, serialNo int, raw string) error {
	if sheet.Status != models.StatusLocked {
		return nil
	}

	li := findLoadingItem(sheet, serialNo)
	if li == nil {
		return &ValidationError{Msg: "yükleme kalemi bulunamadı: " + strconv.Itoa(serialNo)}
	}

	value, empty, ok := ParseCount(raw)
	if !ok {
		return nil
	}

	if empty {
		li.LooseInput = nil
	} else {
		li.LooseInput = &value
	}

	recomputeLoadingItem(sheet, li)
	return nil
}

// SetAdditionalCount: sabit ek ürün satırının bir palet pozisyonunu günceller.
func SetAdditionalCount(sheet *models.Sheet, slot, col int, raw string) error {
	if sheet.Status != models.StatusLocked {
		return nil
	}
	if col < 0 || col >= models.PalletColumns {
		return &ValidationError{Msg: "palet pozisyonu grid sınırları dışında"}
	}

	ai := findAdditionalItem(sheet, slot)
	if ai == nil {
		return &ValidationError{Msg: "ek ürün satırı bulunamadı: " + strconv.Itoa(slot)}
	}

	value, _, ok := ParseCount(raw)
	if !ok {
		return nil
	}

	if len(ai.Counts) < models.PalletColumns {
		counts := make([]int, models.PalletColumns)
		copy(counts, ai.Counts)
		ai.Counts = counts
	}
	ai.Counts[col] = value

	total := 0
	for _, v := range ai.Counts {
		total += v
	}
	ai.Total = total
	return nil
}

// SetAdditionalSku: ek ürün satırının adını günceller.
func SetAdditionalSku(sheet *models.Sheet, slot int, name string) error {
	if sheet.Status != models.StatusLocked {
		return nil
	}

	ai := findAdditionalItem(sheet, slot)
	if ai == nil {
		return &ValidationError{Msg: "ek ürün satırı bulunamadı: " + strconv.Itoa(slot)}
	}

	ai.SkuName = strings.TrimSpace(name)
	return nil
}

// SheetTotals: föyün özet toplamları
type SheetTotals struct {
	TotalStaging       int // Σ hazırlama TotalCases
	TotalLoadedMain    int // Σ yükleme Total
	TotalAdditional    int // Σ ek ürün Total
	GrandTotalLoaded   int // ana + ek
	OutstandingBalance int // Σ max(0, balance) — iade edilecek
	OverLoaded         int // Σ |min(0, balance)| — fazla yüklenen
}

func Totals(sheet *models.Sheet) SheetTotals {
	var t SheetTotals
	for _, st := range sheet.StagingItems {
		t.TotalStaging += st.TotalCases
	}
	for _, li := range sheet.LoadingItems {
		t.TotalLoadedMain += li.Total
		if li.Balance > 0 {
			t.OutstandingBalance += li.Balance
		} else {
			t.OverLoaded += -li.Balance
		}
	}
	for _, ai := range sheet.AdditionalItems {
		t.TotalAdditional += ai.Total
	}
	t.GrandTotalLoaded = t.TotalLoadedMain + t.TotalAdditional
	return t
}

func findLoadingItem(sheet *models.Sheet, serialNo int) *models.LoadingItem {
	for i := range sheet.LoadingItems {
		if sheet.LoadingItems[i].StagingSerialNo == serialNo {
			return &sheet.LoadingItems[i]
		}
	}
	return nil
}

func findStagingItem(sheet *models.Sheet, serialNo int) *models.StagingItem {
	for i := range sheet.StagingItems {
		if sheet.StagingItems[i].SerialNo == serialNo {
			return &sheet.StagingItems[i]
		}
	}
	return nil
}

func findAdditionalItem(sheet *models.Sheet, slot int) *models.AdditionalItem {
	for i := range sheet.AdditionalItems {
		if sheet.AdditionalItems[i].Slot == slot {
			return &sheet.AdditionalItems[i]
		}
	}
	return nil
}

func upsertCell(li *models.LoadingItem, row, col, value int) {
	for i := range li.Cells {
		if li.Cells[i].Row == row && li.Cells[i].Col == col {
			li.Cells[i].Value = value
			return
		}
	}
	li.Cells = append(li.Cells, models.LoadingCell{Row: row, Col: col, Value: value})
}

func removeCell(li *models.LoadingItem, row, col int) {
	for i := range li.Cells {
		if li.Cells[i].Row == row && li.Cells[i].Col == col {
			li.Cells = append(li.Cells[:i], li.Cells[i+1:]...)
			return
		}
	}
}

// recomputeLoadingItem: Total ve Balance tek noktadan hesaplanır.
// Eşleşen hazırlama kalemi yoksa balance 0−total'e düşer.
func recomputeLoadingItem(sheet *models.Sheet, li *models.LoadingItem) {
	total := 0
	for _, c := range li.Cells {
		total += c.Value
	}
	if li.LooseInput != nil {
		total += *li.LooseInput
	}
	li.Total = total

	staged := 0
	if st := findStagingItem(sheet, li.StagingSerialNo); st != nil {
		staged = st.TotalCases
	}
	li.Balance = staged - total
}
