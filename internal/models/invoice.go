package models

import "time"

// Invoice: Satış faturası
type Invoice struct {
	ID        uint   `gorm:"primaryKey"`
	InvoiceNo int64  `gorm:"uniqueIndex;not null"` // atomik sayaçtan gelen numara
	StoreKey  string `gorm:"size:50;index;not null"` // "invoice-<no>", numarayla eşleşmek zorunda
	PartyID   uint   `gorm:"index;not null"`
	Party     Party  `gorm:"foreignKey:PartyID"`
	Items     []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Subtotal  float64       `gorm:"not null"`
	Total     float64       `gorm:"not null"` // subtotal ile aynı olması beklenir
	DueDate   *time.Time    // opsiyonel vade tarihi
	CreatedAt time.Time
	UpdatedAt time.Time
}

type InvoiceItem struct {
	ID           uint    `gorm:"primaryKey"`
	InvoiceID    uint    `gorm:"index;not null"`
	ProductName  string  `gorm:"size:100;not null"`
	Category     string  `gorm:"size:100"`
	Boxes        float64 `gorm:"not null"` // koli sayısı
	PiecesPerBox float64 `gorm:"not null"` // koli içi adet
	UnitPrice    float64 `gorm:"not null"` // birim fiyat
	LineTotal    float64 `gorm:"not null"` // boxes * piecesPerBox * unitPrice
	CreatedAt    time.Time
}

// InvoiceCounter: Tek satırlık atomik fatura numarası sayacı.
// Artırma işlemi fatura oluşturma transaction'ı içinde upsert ile yapılır.
type InvoiceCounter struct {
	ID    uint  `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}
