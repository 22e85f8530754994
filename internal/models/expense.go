package models

import "time"

// Expense: Hesap (kategori) bazlı gider
type Expense struct {
	ID        uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"index;not null"` // giderin çıktığı hesap
	Account   Account   `gorm:"foreignKey:AccountID"`
	Amount    float64   `gorm:"not null"`
	Purpose   string    `gorm:"size:255"` // gider amacı
	Date      time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
