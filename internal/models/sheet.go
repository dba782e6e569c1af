package models

import "time"

type SheetStatus string

const (
	StatusDraft                      SheetStatus = "DRAFT"
	StatusStagingVerificationPending SheetStatus = "STAGING_VERIFICATION_PENDING"
	StatusLocked                     SheetStatus = "LOCKED"
	StatusLoadingVerificationPending SheetStatus = "LOADING_VERIFICATION_PENDING"
	StatusCompleted                  SheetStatus = "COMPLETED"
)

const (
	// PalletColumns: yükleme gridinde satır başına palet hücresi sayısı
	PalletColumns = 10
	// AdditionalSlotCount: föy başına sabit ek ürün satırı sayısı
	AdditionalSlotCount = 5
)

// Sheet: Bir sevkiyat operasyonunun tamamını temsil eden föy (aggregate).
// Tüm alt kayıtlar (kalemler, hücreler, yorumlar, geçmiş) föy ile birlikte
// yüklenir ve föy ile birlikte kaydedilir; tek tutarlılık birimi budur.
type Sheet struct {
	ID string `gorm:"primaryKey;size:36"`

	// Denormalize başlık alanları
	Date             time.Time `gorm:"index;not null"` // sevkiyat tarihi
	Shift            string    `gorm:"size:30"`
	Destination      string    `gorm:"size:150"`
	VehiclePlate     string    `gorm:"size:30"`
	DriverName       string    `gorm:"size:100"`
	TransportCompany string    `gorm:"size:100"`

	StagingSupervisor          string `gorm:"size:100"`
	StagingSupervisorSignature string `gorm:"size:100"`
	LoadingSupervisor          string `gorm:"size:100"`
	LoadingSupervisorSignature string `gorm:"size:100"`
	ShiftLeadSignature         string `gorm:"size:100"`

	Status SheetStatus `gorm:"size:40;index;not null"`

	// Föy seviyesi ret gerekçesi (yeniden gönderimde temizlenir)
	RejectionReason string `gorm:"size:255"`

	LockedBy          string `gorm:"size:100"`
	LockedAt          *time.Time
	LoadingEndedAt    *time.Time
	LoadingApprovedBy string `gorm:"size:100"`
	LoadingApprovedAt *time.Time
	CompletedBy       string `gorm:"size:100"`
	CompletedAt       *time.Time

	CreatedBy string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time

	StagingItems    []StagingItem    `gorm:"foreignKey:SheetID;constraint:OnDelete:CASCADE"`
	LoadingItems    []LoadingItem    `gorm:"foreignKey:SheetID;constraint:OnDelete:CASCADE"`
	AdditionalItems []AdditionalItem `gorm:"foreignKey:SheetID;constraint:OnDelete:CASCADE"`
	Comments        []SheetComment   `gorm:"foreignKey:SheetID;constraint:OnDelete:CASCADE"`
	History         []SheetHistory   `gorm:"foreignKey:SheetID;constraint:OnDelete:CASCADE"`
}

// StagingItem: Mal hazırlama (sayım) kalemi. TotalCases türetilmiş alandır,
// asla elle yazılmaz; üç girdi her değiştiğinde yeniden hesaplanır.
type StagingItem struct {
	ID      uint   `gorm:"primaryKey"`
	SheetID string `gorm:"size:36;index;not null"`

	SerialNo       int    `gorm:"not null"` // föy içinde benzersiz ve sabit
	SkuName        string `gorm:"size:150"`
	CasesPerPallet int    `gorm:"not null"`
	FullPallets    int    `gorm:"not null"`
	LooseUnits     int    `gorm:"not null"`
	TotalCases     int    `gorm:"not null"` // CasesPerPallet*FullPallets + LooseUnits

	IsRejected      bool   `gorm:"default:false"`
	RejectionReason string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LoadingItem: Yükleme kalemi. StagingSerialNo ile föyün hazırlama kalemine
// bağlanır; Total ve Balance türetilmiş alanlardır.
type LoadingItem struct {
	ID      uint   `gorm:"primaryKey"`
	SheetID string `gorm:"size:36;index;not null"`

	StagingSerialNo int  `gorm:"not null"`
	LooseInput      *int // palet dışı (açık) koli girişi
	Total           int  `gorm:"not null"` // Σ hücre + LooseInput
	Balance         int  `gorm:"not null"` // hazırlanan − yüklenen

	IsRejected      bool   `gorm:"default:false"`
	RejectionReason string `gorm:"size:255"`

	Cells []LoadingCell `gorm:"foreignKey:LoadingItemID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LoadingCell: Grid'de tek bir palet hücresi (satır, sütun, koli adedi).
// Kolon adları grid_* önekiyle: "row" PostgreSQL'de rezerve kelimedir ve
// ORDER BY gibi ham ifadelerde tırnaksız kullanılamaz.
type LoadingCell struct {
	ID            uint `gorm:"primaryKey"`
	LoadingItemID uint `gorm:"index;not null;uniqueIndex:idx_cell_pos"`
	Row           int  `gorm:"column:grid_row;not null;uniqueIndex:idx_cell_pos"`
	Col           int  `gorm:"column:grid_col;not null;uniqueIndex:idx_cell_pos"` // 0..9
	Value         int  `gorm:"not null"`
}

// AdditionalItem: Hazırlamada öngörülmemiş, yükleme sırasında eklenen "ekstra"
// ürün satırı. Slot sayısı sabittir (AdditionalSlotCount).
type AdditionalItem struct {
	ID      uint   `gorm:"primaryKey"`
	SheetID string `gorm:"size:36;index;not null"`

	Slot    int    `gorm:"not null"` // 1..AdditionalSlotCount
	SkuName string `gorm:"size:150"`
	Counts  []int  `gorm:"serializer:json"` // palet pozisyonu başına bir sayaç
	Total   int    `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type SheetComment struct {
	ID      uint   `gorm:"primaryKey"`
	SheetID string `gorm:"size:36;index;not null"`

	Author    string `gorm:"size:100"`
	Text      string `gorm:"size:500"`
	CreatedAt time.Time
}

// SheetHistory: Föyün yaşam döngüsü geçmişi. Sadece eklenir; mevcut kayıtlar
// hiçbir akışta güncellenmez veya silinmez.
type SheetHistory struct {
	ID      uint   `gorm:"primaryKey"`
	SheetID string `gorm:"size:36;index;not null"`

	Actor     string `gorm:"size:100"` // tam ad (denormalize)
	Username  string `gorm:"size:100"`
	Action    string `gorm:"size:50"`
	Details   string `gorm:"size:255"`
	CreatedAt time.Time
}
