package models

import "time"

// EntityKind: Ödeme/virman uçlarının tipi. Kaynak sistem isim üzerinden
// string karşılaştırması yapıyordu; burada tipli referans kullanılıyor.
type EntityKind string

const (
	EntityKindParty   EntityKind = "party"
	EntityKindAccount EntityKind = "account"
)

// Payment: İki uç arasındaki işaretli para hareketi (cari/hesap).
type Payment struct {
	ID    uint   `gorm:"primaryKey"`
	TxnID string `gorm:"size:40;uniqueIndex;not null"` // dedup anahtarı

	FromKind EntityKind `gorm:"size:10;not null;index:idx_payments_from"`
	FromID   uint       `gorm:"not null;index:idx_payments_from"`
	FromName string     `gorm:"size:100"` // sadece gösterim için (denormalize)

	ToKind EntityKind `gorm:"size:10;not null;index:idx_payments_to"`
	ToID   uint       `gorm:"not null;index:idx_payments_to"`
	ToName string     `gorm:"size:100"`

	Amount    float64   `gorm:"not null"`
	Date      time.Time `gorm:"index;not null"`
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
