package models

import "time"

// AppError: İstemci tarafı hata kaydı (kaynak sistemdeki "appErrors" havuzu)
type AppError struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Screen    string    `gorm:"size:100" json:"screen"`  // hatanın oluştuğu ekran
	Message   string    `gorm:"size:500" json:"message"` // hata mesajı
	Detail    string    `gorm:"type:text" json:"detail"` // stack trace vs.
	UserEmail string    `gorm:"size:100" json:"user_email"`
}

// AccessLog: Erişim kaydı (kaynak sistemdeki "admin/dbAccessLogs" havuzu)
type AccessLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    *uint     `json:"user_id"`
	UserEmail string    `gorm:"size:100" json:"user_email"`
	Method    string    `gorm:"size:10" json:"method"`
	Path      string    `gorm:"size:200" json:"path"`
	Status    int       `json:"status"`
}
