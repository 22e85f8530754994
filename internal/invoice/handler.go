package invoice

import (
	"fmt"
	"strings"
	"time"

	"defter-backend/internal/audit"
	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/ledger"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateInvoiceItemRequest struct {
	ProductName  string  `json:"product_name"`
	Category     string  `json:"category"`
	Boxes        float64 `json:"boxes"`
	PiecesPerBox float64 `json:"pieces_per_box"`
	UnitPrice    float64 `json:"unit_price"`
}

type CreateInvoiceRequest struct {
	PartyID uint                       `json:"party_id"`
	Items   []CreateInvoiceItemRequest `json:"items"`
	DueDate *string                    `json:"due_date"` // "2025-12-09", opsiyonel
}

type InvoiceItemResponse struct {
	ProductName  string  `json:"product_name"`
	Category     string  `json:"category"`
	Boxes        float64 `json:"boxes"`
	PiecesPerBox float64 `json:"pieces_per_box"`
	UnitPrice    float64 `json:"unit_price"`
	LineTotal    float64 `json:"line_total"`
}

type InvoiceResponse struct {
	ID        uint                  `json:"id"`
	InvoiceNo int64                 `json:"invoice_no"`
	StoreKey  string                `json:"store_key"`
	PartyID   uint                  `json:"party_id"`
	PartyName string                `json:"party_name"`
	Items     []InvoiceItemResponse `json:"items"`
	Subtotal  float64               `json:"subtotal"`
	Total     float64               `json:"total"`
	DueDate   *string               `json:"due_date"`
	CreatedAt string                `json:"created_at"`
}

func toResponse(inv models.Invoice, partyName string) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ProductName:  it.ProductName,
			Category:     it.Category,
			Boxes:        it.Boxes,
			PiecesPerBox: it.PiecesPerBox,
			UnitPrice:    it.UnitPrice,
			LineTotal:    it.LineTotal,
		})
	}

	var dueDate *string
	if inv.DueDate != nil {
		formatted := inv.DueDate.Format("2006-01-02")
		dueDate = &formatted
	}

	return InvoiceResponse{
		ID:        inv.ID,
		InvoiceNo: inv.InvoiceNo,
		StoreKey:  inv.StoreKey,
		PartyID:   inv.PartyID,
		PartyName: partyName,
		Items:     items,
		Subtotal:  inv.Subtotal,
		Total:     inv.Total,
		DueDate:   dueDate,
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
	}
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

// POST /api/invoices
func CreateInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.PartyID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "party_id zorunlu")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir kalem gerekli")
		}

		var party models.Party
		if err := database.DB.First(&party, body.PartyID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cari bulunamadı")
		}

		var dueDate *time.Time
		if body.DueDate != nil && *body.DueDate != "" {
			d, err := time.Parse("2006-01-02", *body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			dueDate = &d
		}

		items := make([]models.InvoiceItem, 0, len(body.Items))
		subtotal := 0.0
		for _, it := range body.Items {
			name := strings.TrimSpace(it.ProductName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Kalem ürün adı boş olamaz")
			}
			if it.Boxes <= 0 || it.PiecesPerBox <= 0 || it.UnitPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Kalem miktar/fiyat değerleri geçersiz")
			}
			lineTotal := ledger.Round2(it.Boxes * it.PiecesPerBox * it.UnitPrice)
			subtotal = ledger.Round2(subtotal + lineTotal)
			items = append(items, models.InvoiceItem{
				ProductName:  name,
				Category:     strings.TrimSpace(it.Category),
				Boxes:        it.Boxes,
				PiecesPerBox: it.PiecesPerBox,
				UnitPrice:    it.UnitPrice,
				LineTotal:    lineTotal,
			})
		}

		var inv models.Invoice
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			no, err := NextNumber(tx)
			if err != nil {
				return err
			}

			inv = models.Invoice{
				InvoiceNo: no,
				StoreKey:  FormatStoreKey(no),
				PartyID:   party.ID,
				Items:     items,
				Subtotal:  subtotal,
				Total:     subtotal, // total her zaman subtotal'a eşit yazılır
				DueDate:   dueDate,
			}
			return tx.Create(&inv).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura kaydedilemedi")
		}

		// Satış carinin borcunu artırır. Bakiye güncellemesi fatura
		// transaction'ının dışında, kaynak sistemdeki gibi fırsatçı:
		// asıl doğru bakiye ekstre yeniden kurulunca yazılır.
		if err := database.DB.Model(&models.Party{}).Where("id = ?", party.ID).
			Update("balance", gorm.Expr("ROUND((balance + ?)::numeric, 2)", inv.Total)).Error; err != nil {
			fmt.Printf("Cari bakiyesi güncellenemedi: %v\n", err)
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "invoice",
				EntityID:    inv.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Fatura kesildi: #%d, %s, %.2f", inv.InvoiceNo, party.Name, inv.Total),
				Before:      nil,
				After:       inv,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(inv, party.Name))
	}
}

// GET /api/invoices?party_id=1&from=2025-01-01&to=2025-01-31
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Invoice{}).Preload("Items").Preload("Party")

		if pidStr := c.Query("party_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err != nil || pid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "party_id geçersiz")
			}
			dbq = dbq.Where("party_id = ?", pid)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		var invoices []models.Invoice
		if err := dbq.Order("invoice_no desc").Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar listelenemedi")
		}

		resp := make([]InvoiceResponse, 0, len(invoices))
		for _, inv := range invoices {
			resp = append(resp, toResponse(inv, inv.Party.Name))
		}
		return c.JSON(resp)
	}
}

// GET /api/invoices/:id
func GetInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var inv models.Invoice
		if err := database.DB.Preload("Items").Preload("Party").First(&inv, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
		}
		return c.JSON(toResponse(inv, inv.Party.Name))
	}
}

// DELETE /api/admin/invoices/:id
func DeleteInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var inv models.Invoice
		if err := database.DB.Preload("Items").First(&inv, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
		}

		// Kalemler CASCADE ile gider ama yine de açıkça silelim
		database.DB.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{})

		if err := database.DB.Delete(&inv).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura silinemedi")
		}

		// Carinin borcu fatura tutarı kadar azalır
		if err := database.DB.Model(&models.Party{}).Where("id = ?", inv.PartyID).
			Update("balance", gorm.Expr("ROUND((balance - ?)::numeric, 2)", inv.Total)).Error; err != nil {
			fmt.Printf("Cari bakiyesi güncellenemedi: %v\n", err)
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "invoice",
				EntityID:    inv.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Fatura silindi: #%d, %.2f", inv.InvoiceNo, inv.Total),
				Before:      inv,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
