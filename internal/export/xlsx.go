package export

import (
	"fmt"
	"strconv"

	"dispatch-backend/internal/models"
	"dispatch-backend/internal/sheetcore"

	"github.com/xuri/excelize/v2"
)

// RenderSheet: tamamlanmış föyü tek sayfalık .xlsx dosyasına yazar.
// Çıktı saha arşivine gönderilen basılı föyün birebir karşılığıdır:
// başlık bloğu, hazırlama tablosu, yükleme gridi, ek ürünler ve toplamlar.
func RenderSheet(sheet *models.Sheet) (*excelize.File, error) {
	f := excelize.NewFile()
	ws := f.GetSheetName(0)

	row := 1
	set := func(col string, r int, v any) {
		_ = f.SetCellValue(ws, col+strconv.Itoa(r), v)
	}

	// Başlık bloğu
	set("A", row, "SEVKİYAT FÖYÜ")
	row += 2
	set("A", row, "Tarih")
	set("B", row, sheet.Date.Format("2006-01-02"))
	set("D", row, "Vardiya")
	set("E", row, sheet.Shift)
	row++
	set("A", row, "Varış Noktası")
	set("B", row, sheet.Destination)
	set("D", row, "Araç Plakası")
	set("E", row, sheet.VehiclePlate)
	row++
	set("A", row, "Şoför")
	set("B", row, sheet.DriverName)
	set("D", row, "Nakliye Firması")
	set("E", row, sheet.TransportCompany)
	row++
	set("A", row, "Hazırlama Sorumlusu")
	set("B", row, sheet.StagingSupervisor)
	set("D", row, "Yükleme Sorumlusu")
	set("E", row, sheet.LoadingSupervisor)
	row++
	set("A", row, "Vardiya Amiri")
	set("B", row, sheet.ShiftLeadSignature)
	if sheet.CompletedAt != nil {
		set("D", row, "Tamamlanma")
		set("E", row, sheet.CompletedAt.Format("2006-01-02 15:04"))
	}
	row += 2

	// Hazırlama tablosu
	set("A", row, "HAZIRLAMA")
	row++
	headers := []string{"Sıra", "Ürün", "Koli/Palet", "Tam Palet", "Açık Koli", "Toplam Koli", "Ret"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		set(col, row, h)
	}
	row++
	for _, st := range sheet.StagingItems {
		set("A", row, st.SerialNo)
		set("B", row, st.SkuName)
		set("C", row, st.CasesPerPallet)
		set("D", row, st.FullPallets)
		set("E", row, st.LooseUnits)
		set("F", row, st.TotalCases)
		if st.IsRejected {
			set("G", row, st.RejectionReason)
		}
		row++
	}
	row++

	// Yükleme gridi: her kalem için palet hücreleri sütun sütun
	set("A", row, "YÜKLEME")
	row++
	set("A", row, "Sıra")
	for col := 0; col < models.PalletColumns; col++ {
		name, _ := excelize.ColumnNumberToName(col + 2)
		set(name, row, fmt.Sprintf("P%d", col+1))
	}
	looseCol, _ := excelize.ColumnNumberToName(models.PalletColumns + 2)
	totalCol, _ := excelize.ColumnNumberToName(models.PalletColumns + 3)
	balanceCol, _ := excelize.ColumnNumberToName(models.PalletColumns + 4)
	set(looseCol, row, "Açık")
	set(totalCol, row, "Toplam")
	set(balanceCol, row, "Bakiye")
	row++
	for _, li := range sheet.LoadingItems {
		// Grid satır sayısı kadar excel satırı; çoğu kalem tek satıra sığar
		maxRow := 0
		for _, cell := range li.Cells {
			if cell.Row > maxRow {
				maxRow = cell.Row
			}
		}
		for r := 0; r <= maxRow; r++ {
			if r == 0 {
				set("A", row, li.StagingSerialNo)
			}
			for _, cell := range li.Cells {
				if cell.Row != r {
					continue
				}
				name, _ := excelize.ColumnNumberToName(cell.Col + 2)
				set(name, row, cell.Value)
			}
			if r == 0 {
				if li.LooseInput != nil {
					set(looseCol, row, *li.LooseInput)
				}
				set(totalCol, row, li.Total)
				set(balanceCol, row, li.Balance)
			}
			row++
		}
	}
	row++

	// Ek ürünler
	hasAdditional := false
	for _, ai := range sheet.AdditionalItems {
		if ai.SkuName != "" || ai.Total > 0 {
			hasAdditional = true
			break
		}
	}
	if hasAdditional {
		set("A", row, "EK ÜRÜNLER")
		row++
		for _, ai := range sheet.AdditionalItems {
			if ai.SkuName == "" && ai.Total == 0 {
				continue
			}
			set("A", row, ai.Slot)
			set("B", row, ai.SkuName)
			for i, v := range ai.Counts {
				if v == 0 {
					continue
				}
				name, _ := excelize.ColumnNumberToName(i + 3)
				set(name, row, v)
			}
			set(totalCol, row, ai.Total)
			row++
		}
		row++
	}

	// Toplamlar
	t := sheetcore.Totals(sheet)
	set("A", row, "Hazırlanan Toplam")
	set("B", row, t.TotalStaging)
	row++
	set("A", row, "Yüklenen (Ana)")
	set("B", row, t.TotalLoadedMain)
	row++
	set("A", row, "Yüklenen (Ek)")
	set("B", row, t.TotalAdditional)
	row++
	set("A", row, "Genel Toplam")
	set("B", row, t.GrandTotalLoaded)
	row++
	set("A", row, "İade Edilecek")
	set("B", row, t.OutstandingBalance)
	if t.OverLoaded > 0 {
		row++
		set("A", row, "Fazla Yüklenen")
		set("B", row, t.OverLoaded)
	}

	return f, nil
}
