package models

import "time"

type AccountKind string

const (
	AccountKindBank AccountKind = "bank" // banka hesabı
	AccountKindCash AccountKind = "cash" // kasa / elden hesap
)

// Account: Banka hesabı veya kasa. Kaynak sistemde "banks" ve "accounts"
// iki ayrı koleksiyondu; burada tek entity + kind ayrımı olarak tutuluyor.
type Account struct {
	ID             uint        `gorm:"primaryKey"`
	Kind           AccountKind `gorm:"size:20;not null;index"` // bank / cash
	Name           string      `gorm:"size:100;not null;uniqueIndex"`
	OpeningBalance float64     `gorm:"default:0"`
	Balance        float64     `gorm:"default:0"` // canlı bakiye (ekstre yeniden kurulunca üzerine yazılır)
	Description    string      `gorm:"size:255"`
	IsActive       bool        `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
