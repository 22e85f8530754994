package payment

import (
	"testing"
	"time"

	"defter-backend/internal/ledger"
	"defter-backend/internal/models"
)

// Kayıtlı bakiyeye uygulanan farklar ekstre kayıtlarıyla aynı işareti
// taşımak zorunda, yoksa yeniden kurulana kadar bakiye yanlış görünür.
func TestBalanceDeltasMatchLedgerSigns(t *testing.T) {
	pay := models.Payment{
		TxnID:    "txn-1",
		FromKind: models.EntityKindParty,
		FromID:   7,
		FromName: "Acme",
		ToKind:   models.EntityKindAccount,
		ToID:     3,
		ToName:   "Kasa",
		Amount:   300,
		Date:     time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	fromDelta, toDelta := balanceDeltas(pay.Amount)

	partyEntries := ledger.PartyEntries(7, nil, nil, []models.Payment{pay})
	if len(partyEntries) != 1 {
		t.Fatalf("cari kaydı sayısı 1 beklenirken %d", len(partyEntries))
	}
	if partyEntries[0].Amount != fromDelta {
		t.Errorf("from ucu farkı %v, ekstre kaydı %v", fromDelta, partyEntries[0].Amount)
	}

	accountEntries := ledger.AccountEntries(3, nil, []models.Payment{pay}, nil, nil)
	if len(accountEntries) != 1 {
		t.Fatalf("hesap kaydı sayısı 1 beklenirken %d", len(accountEntries))
	}
	if accountEntries[0].Amount != toDelta {
		t.Errorf("to ucu farkı %v, ekstre kaydı %v", toDelta, accountEntries[0].Amount)
	}
}

// Açılış borcu 200 olan cariye 500'lük satış kesilir, cari 300 öder.
// Ödemenin from ucu farkı uygulandığında bakiye sıfırlanmalı.
func TestBalanceDeltasSettleDebt(t *testing.T) {
	balance := -200.0
	balance = ledger.Round2(balance + 500)

	fromDelta, _ := balanceDeltas(300)
	balance = ledger.Round2(balance + fromDelta)

	if balance != 0 {
		t.Errorf("bakiye 0 beklenirken %v", balance)
	}
}
