package ledger

import (
	"fmt"
	"math"
	"sort"
	"time"

	"defter-backend/internal/models"
)

// Kaynak sistemde bu ekstre kurma mantığı altı ekranda kopya-yapıştır olarak
// yaşıyordu (cari ekstresi + hesap ekstreleri). Burada tek parametrik rutin:
// topla -> normalize et -> dedup -> tarihe göre sırala -> yürüyen bakiyeyi katla.

type EntryType string

const (
	EntryTypeSale     EntryType = "sale"
	EntryTypePurchase EntryType = "purchase"
	EntryTypePayment  EntryType = "payment"
	EntryTypeExpense  EntryType = "expense"
	EntryTypeTransfer EntryType = "transfer"
)

// Entry: Dört koleksiyondan normalize edilmiş ortak işlem kaydı.
// Amount işaretlidir: entity'den çıkan para negatif, gelen pozitif.
type Entry struct {
	Date           time.Time
	Type           EntryType
	Amount         float64
	Note           string
	Counterparty   string
	DedupKey       string // payment/transfer için txnId, diğerleri için "<tablo>-<id>"
	RunningBalance float64
}

type Ledger struct {
	OpeningBalance float64
	Entries        []Entry
	Balance        float64 // = round2(opening + tüm işaretli tutarların toplamı)
}

// Round2: Parasal değerleri 2 haneye yuvarlar (value*100 üzerinde
// half-away-from-zero). Uzun ekstrelerde float kaymasının birikmesini önler.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Build: normalize edilmiş kayıtlardan ekstreyi kurar.
//
// Dedup: aynı DedupKey ikinci kez görülürse atlanır (kaynak sistemde
// ödemeler birden çok index yolu altında mükerrer yazıldığı için şart).
// Sıralama: tarihe göre artan, eşit tarihlerde ekleniş sırası korunur
// (stable sort). Nihai bakiye sıralamadan bağımsızdır; sıralama sadece
// satır başına gösterilen ara bakiyeleri etkiler.
func Build(openingBalance float64, entries []Entry) Ledger {
	seen := make(map[string]bool, len(entries))
	deduped := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.DedupKey != "" {
			if seen[e.DedupKey] {
				continue
			}
			seen[e.DedupKey] = true
		}
		deduped = append(deduped, e)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Date.Before(deduped[j].Date)
	})

	running := openingBalance
	for i := range deduped {
		running = Round2(running + deduped[i].Amount)
		deduped[i].RunningBalance = running
	}

	return Ledger{
		OpeningBalance: openingBalance,
		Entries:        deduped,
		Balance:        running,
	}
}

// PartyEntries: Cari ekstresi için ham kayıtları normalize eder.
// Satış faturası carinin borcunu artırır (+), cariden gelen ödeme azaltır (-),
// tedarikçi carisine yapılan alış her zaman çıkıştır (-).
// Eşleştirme tipli referansla yapılır (id), isim karşılaştırması değil.
func PartyEntries(partyID uint, invoices []models.Invoice, purchases []models.Purchase, payments []models.Payment) []Entry {
	entries := make([]Entry, 0, len(invoices)+len(purchases)+len(payments))

	for _, inv := range invoices {
		if inv.PartyID != partyID {
			continue
		}
		entries = append(entries, Entry{
			Date:     inv.CreatedAt,
			Type:     EntryTypeSale,
			Amount:   inv.Total,
			Note:     fmt.Sprintf("Fatura #%d", inv.InvoiceNo),
			DedupKey: fmt.Sprintf("invoice-%d", inv.ID),
		})
	}

	for _, p := range purchases {
		if p.SupplierID != partyID {
			continue
		}
		entries = append(entries, Entry{
			Date:     p.Date,
			Type:     EntryTypePurchase,
			Amount:   -p.Total,
			Note:     p.Notes,
			DedupKey: fmt.Sprintf("purchase-%d", p.ID),
		})
	}

	for _, pay := range payments {
		e, ok := paymentEntry(pay, models.EntityKindParty, partyID)
		if !ok {
			continue
		}
		entries = append(entries, e)
	}

	return entries
}

// AccountEntries: Banka/kasa hesabı ekstresi için ham kayıtları normalize eder.
// Hesap alışları ve giderler her zaman çıkıştır (-); ödeme ve virmanlar
// `to` ucu hesaba mı bakılarak işaretlenir.
func AccountEntries(accountID uint, purchases []models.AccountPurchase, payments []models.Payment, expenses []models.Expense, transfers []models.Transfer) []Entry {
	entries := make([]Entry, 0, len(purchases)+len(payments)+len(expenses)+len(transfers))

	for _, p := range purchases {
		if p.AccountID != accountID {
			continue
		}
		entries = append(entries, Entry{
			Date:     p.Date,
			Type:     EntryTypePurchase,
			Amount:   -p.Amount,
			Note:     p.Notes,
			DedupKey: fmt.Sprintf("account_purchase-%d", p.ID),
		})
	}

	for _, pay := range payments {
		e, ok := paymentEntry(pay, models.EntityKindAccount, accountID)
		if !ok {
			continue
		}
		entries = append(entries, e)
	}

	for _, ex := range expenses {
		if ex.AccountID != accountID {
			continue
		}
		entries = append(entries, Entry{
			Date:     ex.Date,
			Type:     EntryTypeExpense,
			Amount:   -ex.Amount,
			Note:     ex.Purpose,
			DedupKey: fmt.Sprintf("expense-%d", ex.ID),
		})
	}

	for _, tr := range transfers {
		if tr.FromAccountID != accountID && tr.ToAccountID != accountID {
			continue
		}
		amount := tr.Amount
		if tr.ToAccountID != accountID {
			amount = -tr.Amount
		}
		entries = append(entries, Entry{
			Date:     tr.Date,
			Type:     EntryTypeTransfer,
			Amount:   amount,
			Note:     tr.Note,
			DedupKey: tr.TxnID,
		})
	}

	return entries
}

// paymentEntry: Ödemeyi hedef entity açısından işaretler. `to` ucu hedefle
// eşleşiyorsa para geliyordur (+), `from` ucu eşleşiyorsa çıkıyordur (-).
// İki uç da eşleşmiyorsa kayıt bu ekstreye ait değildir.
func paymentEntry(pay models.Payment, kind models.EntityKind, id uint) (Entry, bool) {
	var amount float64
	var counterparty string

	switch {
	case pay.ToKind == kind && pay.ToID == id:
		amount = pay.Amount
		counterparty = pay.FromName
	case pay.FromKind == kind && pay.FromID == id:
		amount = -pay.Amount
		counterparty = pay.ToName
	default:
		return Entry{}, false
	}

	return Entry{
		Date:         pay.Date,
		Type:         EntryTypePayment,
		Amount:       amount,
		Note:         pay.Note,
		Counterparty: counterparty,
		DedupKey:     pay.TxnID,
	}, true
}
