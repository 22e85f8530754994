package models

import "time"

type Product struct {
	ID         uint     `gorm:"primaryKey"`
	Name       string   `gorm:"size:100;not null;uniqueIndex"`
	CategoryID *uint    `gorm:"index"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
