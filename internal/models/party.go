package models

import "time"

type PartyType string

const (
	PartyTypeCustomer PartyType = "customer" // müşteri
	PartyTypeVendor   PartyType = "vendor"   // satıcı
	PartyTypeSupplier PartyType = "supplier" // tedarikçi
)

// Party: Cari hesap (müşteri/satıcı/tedarikçi)
type Party struct {
	ID               uint      `gorm:"primaryKey"`
	Name             string    `gorm:"size:100;not null;uniqueIndex"`
	City             string    `gorm:"size:100"`
	Mobile           string    `gorm:"size:30"`
	PartyType        PartyType `gorm:"size:20;not null"` // customer / vendor / supplier
	CreditPeriodDays int       `gorm:"default:0"`        // vade (gün)
	OpeningBalance   float64   `gorm:"default:0"`        // açılış bakiyesi (operatör pozitif girer)
	// Canlı bakiye. Kayıt açılırken -OpeningBalance ile başlar;
	// pozitif değer carinin borcunun arttığı anlamına gelir.
	Balance   float64 `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
