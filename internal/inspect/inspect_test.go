package inspect

import (
	"fmt"
	"testing"

	"defter-backend/internal/models"
)

func validInvoice(id uint, no int64, partyID uint) models.Invoice {
	return models.Invoice{
		ID:        id,
		InvoiceNo: no,
		StoreKey:  fmt.Sprintf("invoice-%d", no),
		PartyID:   partyID,
		Items: []models.InvoiceItem{
			{ProductName: "Su", Boxes: 2, PiecesPerBox: 12, UnitPrice: 5, LineTotal: 120},
		},
		Subtotal: 120,
		Total:    120,
	}
}

func countKind(issues []Issue, kind IssueKind) int {
	n := 0
	for _, is := range issues {
		if is.Kind == kind {
			n++
		}
	}
	return n
}

func TestCheckInvoicesClean(t *testing.T) {
	parties := map[uint]bool{1: true}
	issues := CheckInvoices([]models.Invoice{
		validInvoice(1, 1, 1),
		validInvoice(2, 2, 1),
	}, parties)
	if len(issues) != 0 {
		t.Errorf("temiz veride sorun bulunmamalı, bulundu: %+v", issues)
	}
}

func TestCheckInvoicesDanglingParty(t *testing.T) {
	issues := CheckInvoices([]models.Invoice{validInvoice(1, 1, 99)}, map[uint]bool{1: true})
	if countKind(issues, IssueDanglingParty) != 1 {
		t.Errorf("kopuk cari referansı bulunmalıydı: %+v", issues)
	}
}

func TestCheckInvoicesMissingParty(t *testing.T) {
	inv := validInvoice(1, 1, 0)
	issues := CheckInvoices([]models.Invoice{inv}, map[uint]bool{})
	if countKind(issues, IssueMissingParty) != 1 {
		t.Errorf("carisiz fatura bulunmalıydı: %+v", issues)
	}
}

func TestCheckInvoicesStoreKeyMismatch(t *testing.T) {
	inv := validInvoice(1, 7, 1)
	inv.StoreKey = "invoice-8"
	issues := CheckInvoices([]models.Invoice{inv}, map[uint]bool{1: true})
	if countKind(issues, IssueStoreKeyMismatch) != 1 {
		t.Errorf("anahtar/numara uyuşmazlığı bulunmalıydı: %+v", issues)
	}
}

func TestCheckInvoicesBadStoreKey(t *testing.T) {
	inv := validInvoice(1, 7, 1)
	inv.StoreKey = "fatura-7"
	issues := CheckInvoices([]models.Invoice{inv}, map[uint]bool{1: true})
	if countKind(issues, IssueBadStoreKey) != 1 {
		t.Errorf("çözülemeyen anahtar bulunmalıydı: %+v", issues)
	}
}

func TestCheckInvoicesDuplicateNo(t *testing.T) {
	a := validInvoice(1, 5, 1)
	b := validInvoice(2, 5, 1)
	issues := CheckInvoices([]models.Invoice{a, b}, map[uint]bool{1: true})
	if countKind(issues, IssueDuplicateInvoiceNo) != 2 {
		t.Errorf("iki faturaya da mükerrer numara işareti konmalıydı: %+v", issues)
	}
}

func TestCheckInvoicesSubtotalMismatch(t *testing.T) {
	inv := validInvoice(1, 1, 1)
	inv.Subtotal = 100 // kalemler 120 ediyor
	inv.Total = 100
	issues := CheckInvoices([]models.Invoice{inv}, map[uint]bool{1: true})
	if countKind(issues, IssueSubtotalMismatch) != 1 {
		t.Errorf("ara toplam uyuşmazlığı bulunmalıydı: %+v", issues)
	}
}

func TestCheckInvoicesTotalMismatch(t *testing.T) {
	inv := validInvoice(1, 1, 1)
	inv.Total = 130
	issues := CheckInvoices([]models.Invoice{inv}, map[uint]bool{1: true})
	if countKind(issues, IssueTotalMismatch) != 1 {
		t.Errorf("toplam uyuşmazlığı bulunmalıydı: %+v", issues)
	}
}

func TestCheckStockEntriesDanglingRefs(t *testing.T) {
	entries := []models.StockEntry{
		{ID: 1, ProductID: 1, WarehouseID: 1},
		{ID: 2, ProductID: 9, WarehouseID: 1}, // ürün yok
		{ID: 3, ProductID: 1, WarehouseID: 9}, // depo yok
	}
	products := map[uint]bool{1: true}
	warehouses := map[uint]bool{1: true}

	issues := CheckStockEntries(entries, products, warehouses)
	if len(issues) != 2 {
		t.Fatalf("2 sorun bekleniyordu, %d bulundu: %+v", len(issues), issues)
	}
	if issues[0].Kind != IssueDanglingProduct || issues[0].StockEntryID != 2 {
		t.Errorf("ilk sorun kopuk ürün olmalıydı: %+v", issues[0])
	}
	if issues[1].Kind != IssueDanglingWarehouse || issues[1].StockEntryID != 3 {
		t.Errorf("ikinci sorun kopuk depo olmalıydı: %+v", issues[1])
	}
}

func TestCheckStockEntriesClean(t *testing.T) {
	entries := []models.StockEntry{{ID: 1, ProductID: 1, WarehouseID: 2}}
	issues := CheckStockEntries(entries, map[uint]bool{1: true}, map[uint]bool{2: true})
	if len(issues) != 0 {
		t.Errorf("temiz veride sorun bulunmamalı: %+v", issues)
	}
}

func TestCheckInvoicesNoItems(t *testing.T) {
	inv := validInvoice(1, 1, 1)
	inv.Items = nil
	inv.Subtotal = 0
	inv.Total = 0
	issues := CheckInvoices([]models.Invoice{inv}, map[uint]bool{1: true})
	if countKind(issues, IssueNoItems) != 1 {
		t.Errorf("kalemsiz fatura bulunmalıydı: %+v", issues)
	}
}
