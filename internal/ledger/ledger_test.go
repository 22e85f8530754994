package ledger

import (
	"fmt"
	"math"
	"testing"
	"time"

	"defter-backend/internal/models"
)

func day(n int) time.Time {
	return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.234, 1.23},
		{1.236, 1.24},
		{0.125, 0.13},   // half away from zero
		{-0.125, -0.13}, // negatifte de sıfırdan uzağa
		{0.1 + 0.2, 0.3},
		{100, 100},
		{-1.234, -1.23},
	}
	for _, c := range cases {
		got := Round2(c.in)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Round2(%v) = %v, %v bekleniyordu", c.in, got, c.want)
		}
	}
}

// Nihai bakiye besleme sırasından bağımsız olmalı; sıralama sadece satır
// başına gösterilen ara bakiyeleri etkiler.
func TestBuildFinalBalanceOrderIndependent(t *testing.T) {
	entries := []Entry{
		{Date: day(3), Amount: -120.50, DedupKey: "a"},
		{Date: day(1), Amount: 500, DedupKey: "b"},
		{Date: day(2), Amount: 75.25, DedupKey: "c"},
	}
	reversed := []Entry{entries[2], entries[1], entries[0]}

	lg1 := Build(100, entries)
	lg2 := Build(100, reversed)

	want := Round2(100 + 500 + 75.25 - 120.50)
	if lg1.Balance != want {
		t.Errorf("Balance = %v, %v bekleniyordu", lg1.Balance, want)
	}
	if lg1.Balance != lg2.Balance {
		t.Errorf("sıralama nihai bakiyeyi değiştirdi: %v != %v", lg1.Balance, lg2.Balance)
	}
}

// Mükerrer yollardan gelen aynı kayıt (aynı dedup anahtarı) bir kez sayılmalı.
func TestBuildDeduplicates(t *testing.T) {
	dup := Entry{Date: day(1), Amount: 250, DedupKey: "txn-abc"}
	lg := Build(0, []Entry{dup, dup, {Date: day(2), Amount: -50, DedupKey: "txn-def"}})

	if len(lg.Entries) != 2 {
		t.Fatalf("2 kayıt bekleniyordu, %d geldi", len(lg.Entries))
	}
	if lg.Balance != 200 {
		t.Errorf("Balance = %v, 200 bekleniyordu", lg.Balance)
	}
}

func TestBuildSortsByDateStable(t *testing.T) {
	entries := []Entry{
		{Date: day(2), Amount: 1, DedupKey: "ikinci-gun-1"},
		{Date: day(1), Amount: 2, DedupKey: "ilk-gun"},
		{Date: day(2), Amount: 3, DedupKey: "ikinci-gun-2"},
	}
	lg := Build(0, entries)

	if lg.Entries[0].DedupKey != "ilk-gun" {
		t.Errorf("ilk kayıt tarihçe en eski olmalı, %q geldi", lg.Entries[0].DedupKey)
	}
	// eşit tarihte ekleniş sırası korunur
	if lg.Entries[1].DedupKey != "ikinci-gun-1" || lg.Entries[2].DedupKey != "ikinci-gun-2" {
		t.Errorf("eşit tarihli kayıtların ekleniş sırası bozuldu: %q, %q",
			lg.Entries[1].DedupKey, lg.Entries[2].DedupKey)
	}
}

func TestBuildEmptyLedger(t *testing.T) {
	lg := Build(42.50, nil)
	if lg.Balance != 42.50 {
		t.Errorf("boş ekstrede bakiye açılış bakiyesine eşit olmalı, %v geldi", lg.Balance)
	}
	if len(lg.Entries) != 0 {
		t.Errorf("boş ekstre bekleniyordu")
	}
}

// Senaryo: "Acme" carisinin açılış bakiyesi 200 (canlı bakiye -200 başlar);
// 1. gün 500'lük satış, 2. gün cariden 300 tahsilat. Nihai bakiye 0.
func TestPartyLedgerScenario(t *testing.T) {
	partyID := uint(7)

	invoices := []models.Invoice{
		{ID: 1, InvoiceNo: 1001, PartyID: partyID, Total: 500, CreatedAt: day(1)},
		{ID: 2, InvoiceNo: 1002, PartyID: 99, Total: 9999, CreatedAt: day(1)}, // başka cari, filtrelenmeli
	}
	payments := []models.Payment{
		{
			ID: 1, TxnID: "txn-1",
			FromKind: models.EntityKindParty, FromID: partyID, FromName: "Acme",
			ToKind: models.EntityKindAccount, ToID: 3, ToName: "Merkez Kasa",
			Amount: 300, Date: day(2),
		},
	}

	entries := PartyEntries(partyID, invoices, nil, payments)
	lg := Build(-200, entries)

	if len(lg.Entries) != 2 {
		t.Fatalf("2 kayıt bekleniyordu, %d geldi", len(lg.Entries))
	}
	if lg.Entries[0].Amount != 500 || lg.Entries[0].Type != EntryTypeSale {
		t.Errorf("ilk kayıt +500 satış olmalı: %+v", lg.Entries[0])
	}
	if lg.Entries[0].RunningBalance != 300 {
		t.Errorf("satış sonrası yürüyen bakiye 300 olmalı, %v geldi", lg.Entries[0].RunningBalance)
	}
	if lg.Entries[1].Amount != -300 || lg.Entries[1].Type != EntryTypePayment {
		t.Errorf("ikinci kayıt -300 ödeme olmalı: %+v", lg.Entries[1])
	}
	if lg.Balance != 0 {
		t.Errorf("nihai bakiye 0 olmalı, %v geldi", lg.Balance)
	}
}

// A carisinden B hesabına ödeme: A ekstresinde negatif, B ekstresinde pozitif,
// mutlak değerleri eşit.
func TestPaymentSignConvention(t *testing.T) {
	pay := models.Payment{
		ID: 1, TxnID: "txn-sign",
		FromKind: models.EntityKindParty, FromID: 1, FromName: "A Ticaret",
		ToKind: models.EntityKindAccount, ToID: 2, ToName: "Banka",
		Amount: 450.75, Date: day(5),
	}

	partyEntries := PartyEntries(1, nil, nil, []models.Payment{pay})
	accountEntries := AccountEntries(2, nil, []models.Payment{pay}, nil, nil)

	if len(partyEntries) != 1 || len(accountEntries) != 1 {
		t.Fatalf("her iki tarafta da 1 kayıt bekleniyordu")
	}
	if partyEntries[0].Amount != -450.75 {
		t.Errorf("cari tarafında -450.75 bekleniyordu, %v geldi", partyEntries[0].Amount)
	}
	if accountEntries[0].Amount != 450.75 {
		t.Errorf("hesap tarafında +450.75 bekleniyordu, %v geldi", accountEntries[0].Amount)
	}
	if partyEntries[0].Amount+accountEntries[0].Amount != 0 {
		t.Errorf("iki tarafın toplamı 0 olmalı")
	}
}

// from ve to sorgularının birleşiminde aynı ödeme iki kez gelirse
// (kaynak sistemdeki mükerrer index yollarının simülasyonu) bir kez sayılır.
func TestAccountLedgerDedupAcrossSides(t *testing.T) {
	accountID := uint(2)
	pay := models.Payment{
		ID: 1, TxnID: "txn-dup",
		FromKind: models.EntityKindAccount, FromID: 9,
		ToKind: models.EntityKindAccount, ToID: accountID,
		Amount: 100, Date: day(1),
	}

	// aynı kayıt iki sorgudan da gelmiş gibi iki kez besleniyor
	entries := AccountEntries(accountID, nil, []models.Payment{pay, pay}, nil, nil)
	lg := Build(0, entries)

	if lg.Balance != 100 {
		t.Errorf("bakiye 100 olmalı (mükerrer sayım yok), %v geldi", lg.Balance)
	}
}

// Hesap ekstresi: alış ve gider her zaman çıkış, virman to ucuna göre işaretli.
func TestAccountEntriesSigns(t *testing.T) {
	accountID := uint(5)

	purchases := []models.AccountPurchase{
		{ID: 1, AccountID: accountID, Amount: 80, Date: day(1)},
	}
	expenses := []models.Expense{
		{ID: 1, AccountID: accountID, Amount: 20, Purpose: "kira", Date: day(2)},
	}
	transfers := []models.Transfer{
		{ID: 1, TxnID: "tr-in", FromAccountID: 9, ToAccountID: accountID, Amount: 500, Date: day(3)},
		{ID: 2, TxnID: "tr-out", FromAccountID: accountID, ToAccountID: 9, Amount: 50, Date: day(4)},
	}

	lg := Build(0, AccountEntries(accountID, purchases, nil, expenses, transfers))

	want := Round2(0 - 80 - 20 + 500 - 50)
	if lg.Balance != want {
		t.Errorf("bakiye %v olmalı, %v geldi", want, lg.Balance)
	}
	for _, e := range lg.Entries {
		if e.Type == EntryTypePurchase && e.Amount >= 0 {
			t.Errorf("alış her zaman negatif olmalı: %+v", e)
		}
		if e.Type == EntryTypeExpense && e.Amount >= 0 {
			t.Errorf("gider her zaman negatif olmalı: %+v", e)
		}
	}
}

// Uzun ekstrede float kayması birikmemeli: her adım 2 haneye yuvarlanıyor.
func TestFoldRoundingDrift(t *testing.T) {
	entries := make([]Entry, 0, 1000)
	for i := 0; i < 1000; i++ {
		entries = append(entries, Entry{
			Date:     day(1).Add(time.Duration(i) * time.Hour),
			Amount:   0.1,
			DedupKey: fmt.Sprintf("e-%d", i),
		})
	}

	lg := Build(0, entries)
	if lg.Balance != 100 {
		t.Errorf("1000 x 0.10 = 100.00 olmalı, %v geldi", lg.Balance)
	}
	for _, e := range lg.Entries {
		if e.RunningBalance != Round2(e.RunningBalance) {
			t.Errorf("yürüyen bakiye 2 haneye yuvarlı değil: %v", e.RunningBalance)
		}
	}
}
