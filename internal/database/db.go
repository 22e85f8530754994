package database

import (
	"log"

	"defter-backend/internal/config"
	"defter-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Party{},
		&models.Account{},
		&models.Category{},
		&models.Product{},
		&models.Warehouse{},
		&models.StockEntry{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceCounter{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.AccountPurchase{}, // eski "phurchase" şekli, Purchase'tan ayrı
		&models.Payment{},
		&models.Transfer{},
		&models.Expense{},
		&models.AuditLog{},
		&models.AppError{},
		&models.AccessLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Party.balance backfill: açılış bakiyesi girilmiş ama canlı bakiyesi hiç
	// hesaplanmamış cariler -açılış bakiyesi ile başlatılır (işaret kuralı:
	// pozitif bakiye carinin borcunun arttığı anlamına gelir).
	var pendingCount int64
	DB.Raw("SELECT COUNT(*) FROM parties WHERE balance = 0 AND opening_balance <> 0 AND updated_at = created_at").Scan(&pendingCount)
	if pendingCount > 0 {
		log.Printf("%d cari için balance backfill yapılıyor...", pendingCount)
		if err := DB.Exec("UPDATE parties SET balance = -opening_balance WHERE balance = 0 AND opening_balance <> 0 AND updated_at = created_at").Error; err != nil {
			log.Printf("Balance backfill hatası: %v", err)
		} else {
			log.Println("Balance backfill tamamlandı")
		}
	}

	// Fatura sayacı satırını garantile (yoksa 0'dan başlat)
	if err := DB.Exec("INSERT INTO invoice_counters (id, value) VALUES (1, 0) ON CONFLICT (id) DO NOTHING").Error; err != nil {
		log.Printf("InvoiceCounter başlangıç satırı eklenirken hata: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
