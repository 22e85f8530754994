package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// NextNumber: Fatura numarası sayacını atomik olarak artırıp yeni değeri
// döner. Tek satırlık upsert Postgres tarafından serileştirilir; aynı anda
// N fatura açılırsa N farklı, ardışık numara dağıtılır. Numara tekilliğinin
// garanti edildiği tek yer burası, fatura oluşturma transaction'ı içinde
// çağrılmalı.
func NextNumber(tx *gorm.DB) (int64, error) {
	var value int64
	err := tx.Raw(`
		INSERT INTO invoice_counters (id, value) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET value = invoice_counters.value + 1
		RETURNING value
	`).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("fatura sayacı artırılamadı: %w", err)
	}
	return value, nil
}

// FormatStoreKey: Fatura numarasından depo anahtarı üretir ("invoice-<no>").
// Dış araçlar bu anahtar formatını okumaya devam ediyor.
func FormatStoreKey(no int64) string {
	return fmt.Sprintf("invoice-%d", no)
}

// ParseStoreKey: Depo anahtarından numarayı çıkarır. Anahtar formata
// uymuyorsa ok=false döner.
func ParseStoreKey(key string) (int64, bool) {
	rest, found := strings.CutPrefix(key, "invoice-")
	if !found || rest == "" {
		return 0, false
	}
	no, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || no <= 0 {
		return 0, false
	}
	return no, true
}
