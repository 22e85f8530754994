package invoice

import (
	"fmt"
	"time"

	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/invoices/export/xlsx?from=2025-01-01&to=2025-01-31
// Fatura listesini Excel olarak indirir.
func ExportInvoicesXLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Invoice{}).Preload("Party")

		label := "tum-faturalar"
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
			}
			dbq = dbq.Where("created_at >= ?", from)
			label = fromStr
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
			label = label + "_" + toStr
		}

		var invoices []models.Invoice
		if err := dbq.Order("invoice_no asc").Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar listelenemedi")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Faturalar"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Fatura No", "Tarih", "Cari", "Ara Toplam", "Toplam", "Vade"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for row, inv := range invoices {
			due := ""
			if inv.DueDate != nil {
				due = inv.DueDate.Format("2006-01-02")
			}
			values := []interface{}{
				inv.InvoiceNo,
				inv.CreatedAt.Format("2006-01-02"),
				inv.Party.Name,
				inv.Subtotal,
				inv.Total,
				due,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("faturalar_%s.xlsx", label)
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(buf.Bytes())
	}
}
