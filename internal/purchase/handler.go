package purchase

import (
	"fmt"
	"strings"
	"time"

	"defter-backend/internal/audit"
	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/ledger"
	"defter-backend/internal/models"
	"defter-backend/internal/safekey"

	"github.com/gofiber/fiber/v2"
)

// İki ayrı alış şekli var: kalemli alış (purchases) ve hesap bazlı tek
// tutarlı alış (eski "phurchase/<hesap>/<tarih>" yolu). Kaynak sistemde iki
// bağımsız özellik olarak büyümüşler; bilinçli olarak birleştirilmediler.

type CreatePurchaseItemRequest struct {
	ProductName  string  `json:"product_name"`
	Boxes        float64 `json:"boxes"`
	PiecesPerBox float64 `json:"pieces_per_box"`
	UnitPrice    float64 `json:"unit_price"`
}

type CreatePurchaseRequest struct {
	SupplierID uint                        `json:"supplier_id"`
	Date       string                      `json:"date"` // "2025-12-09"
	Items      []CreatePurchaseItemRequest `json:"items"`
	Notes      string                      `json:"notes"`
}

type PurchaseResponse struct {
	ID           uint    `json:"id"`
	SupplierID   uint    `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	Date         string  `json:"date"`
	Subtotal     float64 `json:"subtotal"`
	Total        float64 `json:"total"`
	Notes        string  `json:"notes"`
	ItemCount    int     `json:"item_count"`
}

type CreateAccountPurchaseRequest struct {
	AccountID uint    `json:"account_id"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Notes     string  `json:"notes"`
}

type AccountPurchaseResponse struct {
	ID          uint    `json:"id"`
	AccountID   uint    `json:"account_id"`
	AccountName string  `json:"account_name"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	BucketKey   string  `json:"bucket_key"`
	Notes       string  `json:"notes"`
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

// POST /api/purchases
func CreatePurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.SupplierID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "supplier_id zorunlu")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir kalem gerekli")
		}

		var supplier models.Party
		if err := database.DB.First(&supplier, body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi bulunamadı")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		items := make([]models.PurchaseItem, 0, len(body.Items))
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
			items = append(items, models.PurchaseItem{
				ProductName:  name,
				Boxes:        it.Boxes,
				PiecesPerBox: it.PiecesPerBox,
				UnitPrice:    it.UnitPrice,
				LineTotal:    lineTotal,
			})
		}

		p := models.Purchase{
			SupplierID: supplier.ID,
			Date:       d,
			Items:      items,
			Subtotal:   subtotal,
			Total:      subtotal,
			Notes:      strings.TrimSpace(body.Notes),
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alış kaydedilemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "purchase",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Alış eklendi: %s, %.2f", supplier.Name, p.Total),
				Before:      nil,
				After:       p,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(PurchaseResponse{
			ID:           p.ID,
			SupplierID:   p.SupplierID,
			SupplierName: supplier.Name,
			Date:         p.Date.Format("2006-01-02"),
			Subtotal:     p.Subtotal,
			Total:        p.Total,
			Notes:        p.Notes,
			ItemCount:    len(p.Items),
		})
	}
}

// GET /api/purchases?supplier_id=1
func ListPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Purchase{}).Preload("Items").Preload("Supplier")

		if sidStr := c.Query("supplier_id"); sidStr != "" {
			var sid uint
			if _, err := fmt.Sscan(sidStr, &sid); err != nil || sid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "supplier_id geçersiz")
			}
			dbq = dbq.Where("supplier_id = ?", sid)
		}

		var purchases []models.Purchase
		if err := dbq.Order("date desc, id desc").Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alışlar listelenemedi")
		}

		resp := make([]PurchaseResponse, 0, len(purchases))
		for _, p := range purchases {
			resp = append(resp, PurchaseResponse{
				ID:           p.ID,
				SupplierID:   p.SupplierID,
				SupplierName: p.Supplier.Name,
				Date:         p.Date.Format("2006-01-02"),
				Subtotal:     p.Subtotal,
				Total:        p.Total,
				Notes:        p.Notes,
				ItemCount:    len(p.Items),
			})
		}
		return c.JSON(resp)
	}
}

// DELETE /api/admin/purchases/:id
func DeletePurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var p models.Purchase
		if err := database.DB.Preload("Items").First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Alış bulunamadı")
		}

		database.DB.Where("purchase_id = ?", p.ID).Delete(&models.PurchaseItem{})
		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alış silinemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "purchase",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Alış silindi: %.2f", p.Total),
				Before:      p,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/account-purchases
func CreateAccountPurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAccountPurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.AccountID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "account_id zorunlu")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
		}

		var account models.Account
		if err := database.DB.First(&account, body.AccountID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Hesap bulunamadı")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		p := models.AccountPurchase{
			AccountID: account.ID,
			Date:      d,
			Amount:    body.Amount,
			// Dış araçların okuduğu eski depo yolu; hesap adı path'e
			// uygun hale getirilerek üretiliyor.
			BucketKey: fmt.Sprintf("phurchase/%s/%s", safekey.Encode(account.Name), d.Format("2006-01-02")),
			Notes:     strings.TrimSpace(body.Notes),
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alış kaydedilemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "account_purchase",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Hesap alışı eklendi: %s, %.2f", account.Name, p.Amount),
				Before:      nil,
				After:       p,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(AccountPurchaseResponse{
			ID:          p.ID,
			AccountID:   p.AccountID,
			AccountName: account.Name,
			Date:        p.Date.Format("2006-01-02"),
			Amount:      p.Amount,
			BucketKey:   p.BucketKey,
			Notes:       p.Notes,
		})
	}
}

// GET /api/account-purchases?account_id=1
func ListAccountPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.AccountPurchase{}).Preload("Account")

		if aidStr := c.Query("account_id"); aidStr != "" {
			var aid uint
			if _, err := fmt.Sscan(aidStr, &aid); err != nil || aid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "account_id geçersiz")
			}
			dbq = dbq.Where("account_id = ?", aid)
		}

		var purchases []models.AccountPurchase
		if err := dbq.Order("date desc, id desc").Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alışlar listelenemedi")
		}

		resp := make([]AccountPurchaseResponse, 0, len(purchases))
		for _, p := range purchases {
			resp = append(resp, AccountPurchaseResponse{
				ID:          p.ID,
				AccountID:   p.AccountID,
				AccountName: p.Account.Name,
				Date:        p.Date.Format("2006-01-02"),
				Amount:      p.Amount,
				BucketKey:   p.BucketKey,
				Notes:       p.Notes,
			})
		}
		return c.JSON(resp)
	}
}

// DELETE /api/admin/account-purchases/:id
func DeleteAccountPurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var p models.AccountPurchase
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Alış bulunamadı")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alış silinemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "account_purchase",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Hesap alışı silindi: %.2f", p.Amount),
				Before:      p,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
