package models

import "time"

// Transfer: Hesaplar arası virman. Payment ile aynı şekil ama sadece
// hesaptan hesaba; kaynak sistemde ayrı koleksiyondu, ayrı tutuluyor.
type Transfer struct {
	ID    uint   `gorm:"primaryKey"`
	TxnID string `gorm:"size:40;uniqueIndex;not null"`

	FromAccountID uint    `gorm:"index;not null"`
	FromAccount   Account `gorm:"foreignKey:FromAccountID"`
	ToAccountID   uint    `gorm:"index;not null"`
	ToAccount     Account `gorm:"foreignKey:ToAccountID"`

	Amount    float64   `gorm:"not null"`
	Date      time.Time `gorm:"index;not null"`
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
