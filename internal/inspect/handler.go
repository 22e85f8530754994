package inspect

import (
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ReportResponse struct {
	CheckedInvoices     int          `json:"checked_invoices"`
	CheckedStockEntries int          `json:"checked_stock_entries"`
	IssueCount          int          `json:"issue_count"`
	Issues              []Issue      `json:"issues"`
	StockIssues         []StockIssue `json:"stock_issues"`
}

func pluckIDSet(model interface{}) (map[uint]bool, error) {
	var ids []uint
	if err := database.DB.Model(model).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// GET /api/admin/inspect/sales
// Satış ve stok verisini denetler ve sorun raporu döner.
func SalesInspectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var invoices []models.Invoice
		if err := database.DB.Preload("Items").Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar okunamadı")
		}

		partyIDs, err := pluckIDSet(&models.Party{})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Cariler okunamadı")
		}

		issues := CheckInvoices(invoices, partyIDs)
		if issues == nil {
			issues = []Issue{}
		}

		var entries []models.StockEntry
		if err := database.DB.Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kayıtları okunamadı")
		}

		productIDs, err := pluckIDSet(&models.Product{})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler okunamadı")
		}
		warehouseIDs, err := pluckIDSet(&models.Warehouse{})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Depolar okunamadı")
		}

		stockIssues := CheckStockEntries(entries, productIDs, warehouseIDs)
		if stockIssues == nil {
			stockIssues = []StockIssue{}
		}

		return c.JSON(ReportResponse{
			CheckedInvoices:     len(invoices),
			CheckedStockEntries: len(entries),
			IssueCount:          len(issues) + len(stockIssues),
			Issues:              issues,
			StockIssues:         stockIssues,
		})
	}
}
