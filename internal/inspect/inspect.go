// Package inspect: Satış verisi üzerinde tutarlılık denetimi. Değiştirmez,
// sadece rapor eder; bulunan sorunları operatör karar verene kadar elleme.
package inspect

import (
	"fmt"

	"defter-backend/internal/invoice"
	"defter-backend/internal/ledger"
	"defter-backend/internal/models"
)

type IssueKind string

const (
	IssueMissingParty       IssueKind = "missing_party"
	IssueDanglingParty      IssueKind = "dangling_party"
	IssueBadStoreKey        IssueKind = "bad_store_key"
	IssueStoreKeyMismatch   IssueKind = "store_key_mismatch"
	IssueDuplicateInvoiceNo IssueKind = "duplicate_invoice_no"
	IssueNoItems            IssueKind = "no_items"
	IssueSubtotalMismatch   IssueKind = "subtotal_mismatch"
	IssueTotalMismatch      IssueKind = "total_mismatch"
	IssueDanglingWarehouse  IssueKind = "dangling_warehouse"
	IssueDanglingProduct    IssueKind = "dangling_product"
)

type Issue struct {
	Kind      IssueKind `json:"kind"`
	InvoiceID uint      `json:"invoice_id"`
	InvoiceNo int64     `json:"invoice_no"`
	Detail    string    `json:"detail"`
}

// CheckInvoices: Faturaları tek geçişte denetler. partyIDs bilinen cari
// kimlikleri; boş küme verilirse dangling kontrolü atlanmaz, her referans
// kopuk sayılır.
func CheckInvoices(invoices []models.Invoice, partyIDs map[uint]bool) []Issue {
	var issues []Issue

	seenNo := map[int64][]uint{}

	for _, inv := range invoices {
		if inv.PartyID == 0 {
			issues = append(issues, Issue{
				Kind: IssueMissingParty, InvoiceID: inv.ID, InvoiceNo: inv.InvoiceNo,
				Detail: "fatura carisiz",
			})
		} else if !partyIDs[inv.PartyID] {
			issues = append(issues, Issue{
				Kind: IssueDanglingParty, InvoiceID: inv.ID, InvoiceNo: inv.InvoiceNo,
				Detail: fmt.Sprintf("cari %d kayıtlarda yok", inv.PartyID),
			})
		}

		no, ok := invoice.ParseStoreKey(inv.StoreKey)
		if !ok {
			issues = append(issues, Issue{
				Kind: IssueBadStoreKey, InvoiceID: inv.ID, InvoiceNo: inv.InvoiceNo,
				Detail: fmt.Sprintf("depo anahtarı çözülemedi: %q", inv.StoreKey),
			})
		} else if no != inv.InvoiceNo {
			issues = append(issues, Issue{
				Kind: IssueStoreKeyMismatch, InvoiceID: inv.ID, InvoiceNo: inv.InvoiceNo,
				Detail: fmt.Sprintf("anahtar %d diyor, numara %d", no, inv.InvoiceNo),
			})
		}

		seenNo[inv.InvoiceNo] = append(seenNo[inv.InvoiceNo], inv.ID)

		if len(inv.Items) == 0 {
			issues = append(issues, Issue{
				Kind: IssueNoItems, InvoiceID: inv.ID, InvoiceNo: inv.InvoiceNo,
				Detail: "fatura kalemsiz",
			})
		} else {
			sum := 0.0
			for _, it := range inv.Items {
				sum = ledger.Round2(sum + it.LineTotal)
			}
			if sum != ledger.Round2(inv.Subtotal) {
				issues = append(issues, Issue{
					Kind: IssueSubtotalMismatch, InvoiceID: inv.ID, InvoiceNo: inv.InvoiceNo,
					Detail: fmt.Sprintf("kalem toplamı %.2f, ara toplam %.2f", sum, inv.Subtotal),
				})
			}
		}

		if ledger.Round2(inv.Total) != ledger.Round2(inv.Subtotal) {
			issues = append(issues, Issue{
				Kind: IssueTotalMismatch, InvoiceID: inv.ID, InvoiceNo: inv.InvoiceNo,
				Detail: fmt.Sprintf("toplam %.2f, ara toplam %.2f", inv.Total, inv.Subtotal),
			})
		}
	}

	for no, ids := range seenNo {
		if len(ids) > 1 {
			for _, id := range ids {
				issues = append(issues, Issue{
					Kind: IssueDuplicateInvoiceNo, InvoiceID: id, InvoiceNo: no,
					Detail: fmt.Sprintf("numara %d tane faturada", len(ids)),
				})
			}
		}
	}

	return issues
}

type StockIssue struct {
	Kind         IssueKind `json:"kind"`
	StockEntryID uint      `json:"stock_entry_id"`
	Detail       string    `json:"detail"`
}

// CheckStockEntries: Stok kayıtlarındaki kopuk ürün/depo referanslarını bulur.
func CheckStockEntries(entries []models.StockEntry, productIDs, warehouseIDs map[uint]bool) []StockIssue {
	var issues []StockIssue

	for _, e := range entries {
		if !productIDs[e.ProductID] {
			issues = append(issues, StockIssue{
				Kind: IssueDanglingProduct, StockEntryID: e.ID,
				Detail: fmt.Sprintf("ürün %d kayıtlarda yok", e.ProductID),
			})
		}
		if !warehouseIDs[e.WarehouseID] {
			issues = append(issues, StockIssue{
				Kind: IssueDanglingWarehouse, StockEntryID: e.ID,
				Detail: fmt.Sprintf("depo %d kayıtlarda yok", e.WarehouseID),
			})
		}
	}

	return issues
}
