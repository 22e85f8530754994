package ledger

import (
	"fmt"

	"defter-backend/internal/database"
	"defter-backend/internal/models"
)

// Ekstre kurulumu dört kaynak koleksiyonun o anki görüntüsü üzerinden yapılır;
// okuma ile bakiye yazma arasında transaction YOKTUR. Bu sırada kaynaklara
// yazan olursa yazılan bakiye o an itibarıyla bayat olabilir, son yazan
// kazanır. Kaynak sistemin verdiği garanti de buydu, korunuyor.

// BuildPartyLedger: Cari ekstresini kurar ve nihai bakiyeyi carinin
// balance alanına geri yazar.
//
// Katlama -OpeningBalance'tan başlar: açılış bakiyesi operatör tarafından
// pozitif girilir ama canlı bakiye eksi işaretle başlar (pozitif canlı
// bakiye = carinin borcu arttı kuralı).
func BuildPartyLedger(partyID uint) (*models.Party, Ledger, error) {
	var party models.Party
	if err := database.DB.First(&party, partyID).Error; err != nil {
		return nil, Ledger{}, fmt.Errorf("cari bulunamadı: %w", err)
	}

	var invoices []models.Invoice
	if err := database.DB.Where("party_id = ?", partyID).Find(&invoices).Error; err != nil {
		return nil, Ledger{}, fmt.Errorf("faturalar okunamadı: %w", err)
	}

	var purchases []models.Purchase
	if err := database.DB.Where("supplier_id = ?", partyID).Find(&purchases).Error; err != nil {
		return nil, Ledger{}, fmt.Errorf("alışlar okunamadı: %w", err)
	}

	payments, err := fetchPayments(models.EntityKindParty, partyID)
	if err != nil {
		return nil, Ledger{}, err
	}

	lg := Build(-party.OpeningBalance, PartyEntries(partyID, invoices, purchases, payments))

	// Nihai bakiyeyi cariye geri yaz (kaynaklarla transaction'sız, bilinçli)
	if err := database.DB.Model(&models.Party{}).Where("id = ?", partyID).
		Update("balance", lg.Balance).Error; err != nil {
		return nil, Ledger{}, fmt.Errorf("bakiye yazılamadı: %w", err)
	}
	party.Balance = lg.Balance

	return &party, lg, nil
}

// BuildAccountLedger: Banka/kasa hesabı ekstresini kurar ve nihai bakiyeyi
// hesabın balance alanına geri yazar.
func BuildAccountLedger(accountID uint) (*models.Account, Ledger, error) {
	var account models.Account
	if err := database.DB.First(&account, accountID).Error; err != nil {
		return nil, Ledger{}, fmt.Errorf("hesap bulunamadı: %w", err)
	}

	var purchases []models.AccountPurchase
	if err := database.DB.Where("account_id = ?", accountID).Find(&purchases).Error; err != nil {
		return nil, Ledger{}, fmt.Errorf("hesap alışları okunamadı: %w", err)
	}

	payments, err := fetchPayments(models.EntityKindAccount, accountID)
	if err != nil {
		return nil, Ledger{}, err
	}

	var expenses []models.Expense
	if err := database.DB.Where("account_id = ?", accountID).Find(&expenses).Error; err != nil {
		return nil, Ledger{}, fmt.Errorf("giderler okunamadı: %w", err)
	}

	var transfers []models.Transfer
	if err := database.DB.Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
		Find(&transfers).Error; err != nil {
		return nil, Ledger{}, fmt.Errorf("virmanlar okunamadı: %w", err)
	}

	lg := Build(account.OpeningBalance, AccountEntries(accountID, purchases, payments, expenses, transfers))

	if err := database.DB.Model(&models.Account{}).Where("id = ?", accountID).
		Update("balance", lg.Balance).Error; err != nil {
		return nil, Ledger{}, fmt.Errorf("bakiye yazılamadı: %w", err)
	}
	account.Balance = lg.Balance

	return &account, lg, nil
}

// fetchPayments: Entity'nin iki tarafını (from ve to) ayrı sorgularla çekip
// birleştirir. Aynı ödeme iki sorguda da görünebilir; Build içindeki txnId
// dedup'ı mükerrer saymayı engeller.
func fetchPayments(kind models.EntityKind, id uint) ([]models.Payment, error) {
	var fromSide []models.Payment
	if err := database.DB.Where("from_kind = ? AND from_id = ?", kind, id).Find(&fromSide).Error; err != nil {
		return nil, fmt.Errorf("ödemeler okunamadı: %w", err)
	}

	var toSide []models.Payment
	if err := database.DB.Where("to_kind = ? AND to_id = ?", kind, id).Find(&toSide).Error; err != nil {
		return nil, fmt.Errorf("ödemeler okunamadı: %w", err)
	}

	return append(fromSide, toSide...), nil
}
