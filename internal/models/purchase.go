package models

import "time"

// Purchase: Kalemli alış (genel "purchases" koleksiyonunun karşılığı)
type Purchase struct {
	ID         uint           `gorm:"primaryKey"`
	SupplierID uint           `gorm:"index;not null"` // tedarikçi cari
	Supplier   Party          `gorm:"foreignKey:SupplierID"`
	Date       time.Time      `gorm:"index;not null"`
	Items      []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	Subtotal   float64        `gorm:"not null"`
	Total      float64        `gorm:"not null"`
	Notes      string         `gorm:"size:500"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PurchaseItem struct {
	ID           uint    `gorm:"primaryKey"`
	PurchaseID   uint    `gorm:"index;not null"`
	ProductName  string  `gorm:"size:100;not null"`
	Boxes        float64 `gorm:"not null"`
	PiecesPerBox float64 `gorm:"not null"`
	UnitPrice    float64 `gorm:"not null"`
	LineTotal    float64 `gorm:"not null"`
	CreatedAt    time.Time
}

// AccountPurchase: Hesap bazlı tek tutarlı alış. Kaynak sistemdeki
// "phurchase/<hesap>/<tarih>" yolunun karşılığı; Purchase ile kasıtlı
// olarak BİRLEŞTİRİLMEDİ, iki ayrı kayıt türü olarak yaşıyorlar.
type AccountPurchase struct {
	ID        uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"index;not null"`
	Account   Account   `gorm:"foreignKey:AccountID"`
	Date      time.Time `gorm:"index;not null"`
	Amount    float64   `gorm:"not null"`
	// Eski depo yolu ("phurchase/<encoded-name>/<date>"). Dış araçlar bu
	// anahtarları okumaya devam ettiği için üretilip saklanıyor.
	BucketKey string `gorm:"size:200;index"`
	Notes     string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
