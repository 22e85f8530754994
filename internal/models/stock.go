package models

import "time"

// Warehouse: Depo
type Warehouse struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;uniqueIndex"`
	Address   string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockEntry: Depo bazlı stok kaydı. Boxes hiçbir zaman negatife düşmez;
// sıfır koliye inen kayıtlar okuma sırasında temizlenir.
type StockEntry struct {
	ID           uint      `gorm:"primaryKey"`
	ProductID    uint      `gorm:"index;not null"`
	Product      Product   `gorm:"foreignKey:ProductID"`
	WarehouseID  uint      `gorm:"index;not null"`
	Warehouse    Warehouse `gorm:"foreignKey:WarehouseID"`
	Boxes        float64   `gorm:"not null"`
	PiecesPerBox float64   `gorm:"not null"`
	PricePerPiece float64  `gorm:"not null"`
	Date         time.Time `gorm:"index;not null"` // tarih bucket'ı
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
