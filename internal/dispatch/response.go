package dispatch

import (
	"time"

	"dispatch-backend/internal/models"
	"dispatch-backend/internal/sheetcore"
)

// SheetSummaryResponse: liste ekranı için kısa föy özeti
type SheetSummaryResponse struct {
	ID                string             `json:"id"`
	Date              string             `json:"date"`
	Shift             string             `json:"shift"`
	Destination       string             `json:"destination"`
	VehiclePlate      string             `json:"vehicle_plate"`
	Status            models.SheetStatus `json:"status"`
	StagingSupervisor string             `json:"staging_supervisor"`
	LoadingSupervisor string             `json:"loading_supervisor"`
	RejectionReason   string             `json:"rejection_reason,omitempty"`
	CreatedAt         string             `json:"created_at"`
}

type SheetResponse struct {
	ID               string `json:"id"`
	Date             string `json:"date"`
	Shift            string `json:"shift"`
	Destination      string `json:"destination"`
	VehiclePlate     string `json:"vehicle_plate"`
	DriverName       string `json:"driver_name"`
	TransportCompany string `json:"transport_company"`

	StagingSupervisor          string `json:"staging_supervisor"`
	StagingSupervisorSignature string `json:"staging_supervisor_signature"`
	LoadingSupervisor          string `json:"loading_supervisor"`
	LoadingSupervisorSignature string `json:"loading_supervisor_signature"`
	ShiftLeadSignature         string `json:"shift_lead_signature"`

	Status          models.SheetStatus `json:"status"`
	RejectionReason string             `json:"rejection_reason,omitempty"`

	LockedBy          string  `json:"locked_by,omitempty"`
	LockedAt          *string `json:"locked_at,omitempty"`
	LoadingEndedAt    *string `json:"loading_ended_at,omitempty"`
	LoadingApprovedBy string  `json:"loading_approved_by,omitempty"`
	LoadingApprovedAt *string `json:"loading_approved_at,omitempty"`
	CompletedBy       string  `json:"completed_by,omitempty"`
	CompletedAt       *string `json:"completed_at,omitempty"`

	StagingItems    []StagingItemResponse    `json:"staging_items"`
	LoadingItems    []LoadingItemResponse    `json:"loading_items"`
	AdditionalItems []AdditionalItemResponse `json:"additional_items"`
	Comments        []CommentResponse        `json:"comments"`
	History         []HistoryResponse        `json:"history"`

	Totals TotalsResponse `json:"totals"`

	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

type StagingItemResponse struct {
	SerialNo        int    `json:"serial_no"`
	SkuName         string `json:"sku_name"`
	CasesPerPallet  int    `json:"cases_per_pallet"`
	FullPallets     int    `json:"full_pallets"`
	LooseUnits      int    `json:"loose_units"`
	TotalCases      int    `json:"total_cases"`
	IsRejected      bool   `json:"is_rejected"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

type LoadingItemResponse struct {
	StagingSerialNo int            `json:"staging_serial_no"`
	Cells           []CellResponse `json:"cells"`
	LooseInput      *int           `json:"loose_input,omitempty"`
	Total           int            `json:"total"`
	Balance         int            `json:"balance"`
	IsRejected      bool           `json:"is_rejected"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
}

type CellResponse struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

type AdditionalItemResponse struct {
	Slot    int    `json:"slot"`
	SkuName string `json:"sku_name"`
	Counts  []int  `json:"counts"`
	Total   int    `json:"total"`
}

type CommentResponse struct {
	ID        uint   `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type HistoryResponse struct {
	ID        uint   `json:"id"`
	Actor     string `json:"actor"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type TotalsResponse struct {
	TotalStaging       int `json:"total_staging"`
	TotalLoadedMain    int `json:"total_loaded_main"`
	TotalAdditional    int `json:"total_additional"`
	GrandTotalLoaded   int `json:"grand_total_loaded"`
	OutstandingBalance int `json:"outstanding_balance"` // iade edilecek
	OverLoaded         int `json:"over_loaded"`         // fazla yüklenen
}

func fmtTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fmtTime(*t)
	return &s
}

func toSheetSummaryResponse(sheet *models.Sheet) SheetSummaryResponse {
	return SheetSummaryResponse{
		ID:                sheet.ID,
		Date:              sheet.Date.Format("2006-01-02"),
		Shift:             sheet.Shift,
		Destination:       sheet.Destination,
		VehiclePlate:      sheet.VehiclePlate,
		Status:            sheet.Status,
		StagingSupervisor: sheet.StagingSupervisor,
		LoadingSupervisor: sheet.LoadingSupervisor,
		RejectionReason:   sheet.RejectionReason,
		CreatedAt:         fmtTime(sheet.CreatedAt),
	}
}

func toSheetResponse(sheet *models.Sheet) SheetResponse {
	resp := SheetResponse{
		ID:               sheet.ID,
		Date:             sheet.Date.Format("2006-01-02"),
		Shift:            sheet.Shift,
		Destination:      sheet.Destination,
		VehiclePlate:     sheet.VehiclePlate,
		DriverName:       sheet.DriverName,
		TransportCompany: sheet.TransportCompany,

		StagingSupervisor:          sheet.StagingSupervisor,
		StagingSupervisorSignature: sheet.StagingSupervisorSignature,
		LoadingSupervisor:          sheet.LoadingSupervisor,
		LoadingSupervisorSignature: sheet.LoadingSupervisorSignature,
		ShiftLeadSignature:         sheet.ShiftLeadSignature,

		Status:          sheet.Status,
		RejectionReason: sheet.RejectionReason,

		LockedBy:          sheet.LockedBy,
		LockedAt:          fmtTimePtr(sheet.LockedAt),
		LoadingEndedAt:    fmtTimePtr(sheet.LoadingEndedAt),
		LoadingApprovedBy: sheet.LoadingApprovedBy,
		LoadingApprovedAt: fmtTimePtr(sheet.LoadingApprovedAt),
		CompletedBy:       sheet.CompletedBy,
		CompletedAt:       fmtTimePtr(sheet.CompletedAt),

		StagingItems:    make([]StagingItemResponse, 0, len(sheet.StagingItems)),
		LoadingItems:    make([]LoadingItemResponse, 0, len(sheet.LoadingItems)),
		AdditionalItems: make([]AdditionalItemResponse, 0, len(sheet.AdditionalItems)),
		Comments:        make([]CommentResponse, 0, len(sheet.Comments)),
		History:         make([]HistoryResponse, 0, len(sheet.History)),

		CreatedBy: sheet.CreatedBy,
		CreatedAt: fmtTime(sheet.CreatedAt),
	}

	for _, st := range sheet.StagingItems {
		resp.StagingItems = append(resp.StagingItems, StagingItemResponse{
			SerialNo:        st.SerialNo,
			SkuName:         st.SkuName,
			CasesPerPallet:  st.CasesPerPallet,
			FullPallets:     st.FullPallets,
			LooseUnits:      st.LooseUnits,
			TotalCases:      st.TotalCases,
			IsRejected:      st.IsRejected,
			RejectionReason: st.RejectionReason,
		})
	}

	for _, li := range sheet.LoadingItems {
		cells := make([]CellResponse, 0, len(li.Cells))
		for _, cell := range li.Cells {
			cells = append(cells, CellResponse{Row: cell.Row, Col: cell.Col, Value: cell.Value})
		}
		resp.LoadingItems = append(resp.LoadingItems, LoadingItemResponse{
			StagingSerialNo: li.StagingSerialNo,
			Cells:           cells,
			LooseInput:      li.LooseInput,
			Total:           li.Total,
			Balance:         li.Balance,
			IsRejected:      li.IsRejected,
			RejectionReason: li.RejectionReason,
		})
	}

	for _, ai := range sheet.AdditionalItems {
		resp.AdditionalItems = append(resp.AdditionalItems, AdditionalItemResponse{
			Slot:    ai.Slot,
			SkuName: ai.SkuName,
			Counts:  ai.Counts,
			Total:   ai.Total,
		})
	}

	for _, cm := range sheet.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:        cm.ID,
			Author:    cm.Author,
			Text:      cm.Text,
			CreatedAt: fmtTime(cm.CreatedAt),
		})
	}

	for _, h := range sheet.History {
		resp.History = append(resp.History, HistoryResponse{
			ID:        h.ID,
			Actor:     h.Actor,
			Username:  h.Username,
			Action:    h.Action,
			Details:   h.Details,
			CreatedAt: fmtTime(h.CreatedAt),
		})
	}

	t := sheetcore.Totals(sheet)
	resp.Totals = TotalsResponse{
		TotalStaging:       t.TotalStaging,
		TotalLoadedMain:    t.TotalLoadedMain,
		TotalAdditional:    t.TotalAdditional,
		GrandTotalLoaded:   t.GrandTotalLoaded,
		OutstandingBalance: t.OutstandingBalance,
		OverLoaded:         t.OverLoaded,
	}

	return resp
}
