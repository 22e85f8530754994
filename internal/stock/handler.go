package stock

import (
	"fmt"
	"strings"
	"time"

	"defter-backend/internal/audit"
	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type WarehouseResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type CreateStockEntryRequest struct {
	ProductID     uint    `json:"product_id"`
	WarehouseID   uint    `json:"warehouse_id"`
	Boxes         float64 `json:"boxes"`
	PiecesPerBox  float64 `json:"pieces_per_box"`
	PricePerPiece float64 `json:"price_per_piece"`
	Date          string  `json:"date"`
}

type StockEntryResponse struct {
	ID            uint    `json:"id"`
	ProductID     uint    `json:"product_id"`
	ProductName   string  `json:"product_name"`
	WarehouseID   uint    `json:"warehouse_id"`
	WarehouseName string  `json:"warehouse_name"`
	Boxes         float64 `json:"boxes"`
	PiecesPerBox  float64 `json:"pieces_per_box"`
	PricePerPiece float64 `json:"price_per_piece"`
	Date          string  `json:"date"`
}

func toEntryResponse(e models.StockEntry) StockEntryResponse {
	return StockEntryResponse{
		ID:            e.ID,
		ProductID:     e.ProductID,
		ProductName:   e.Product.Name,
		WarehouseID:   e.WarehouseID,
		WarehouseName: e.Warehouse.Name,
		Boxes:         e.Boxes,
		PiecesPerBox:  e.PiecesPerBox,
		PricePerPiece: e.PricePerPiece,
		Date:          e.Date.Format("2006-01-02"),
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

// POST /api/admin/warehouses
func CreateWarehouseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWarehouseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		w := models.Warehouse{Name: name, Address: strings.TrimSpace(body.Address)}
		if err := database.DB.Create(&w).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Depo kaydedilemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "warehouse",
				EntityID:    w.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Depo eklendi: %s", w.Name),
				Before:      nil,
				After:       w,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(WarehouseResponse{ID: w.ID, Name: w.Name, Address: w.Address})
	}
}

// GET /api/warehouses
func ListWarehousesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var warehouses []models.Warehouse
		if err := database.DB.Order("name asc").Find(&warehouses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Depolar listelenemedi")
		}

		resp := make([]WarehouseResponse, 0, len(warehouses))
		for _, w := range warehouses {
			resp = append(resp, WarehouseResponse{ID: w.ID, Name: w.Name, Address: w.Address})
		}
		return c.JSON(resp)
	}
}

// DELETE /api/admin/warehouses/:id
func DeleteWarehouseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var w models.Warehouse
		if err := database.DB.First(&w, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Depo bulunamadı")
		}

		var entryCount int64
		database.DB.Model(&models.StockEntry{}).Where("warehouse_id = ?", w.ID).Count(&entryCount)
		if entryCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stok kaydı olan depo silinemez")
		}

		if err := database.DB.Delete(&w).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Depo silinemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "warehouse",
				EntityID:    w.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Depo silindi: %s", w.Name),
				Before:      w,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/stock-entries
func CreateStockEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.ProductID == 0 || body.WarehouseID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id ve warehouse_id zorunlu")
		}
		// Koli sayısı hiçbir zaman negatif yazılmaz.
		if body.Boxes < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "boxes negatif olamaz")
		}
		if body.PiecesPerBox <= 0 || body.PricePerPiece < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "pieces_per_box/price_per_piece geçersiz")
		}

		var product models.Product
		if err := database.DB.First(&product, body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}
		var warehouse models.Warehouse
		if err := database.DB.First(&warehouse, body.WarehouseID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Depo bulunamadı")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		e := models.StockEntry{
			ProductID:     product.ID,
			WarehouseID:   warehouse.ID,
			Boxes:         body.Boxes,
			PiecesPerBox:  body.PiecesPerBox,
			PricePerPiece: body.PricePerPiece,
			Date:          d,
		}

		if err := database.DB.Create(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydedilemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_entry",
				EntityID:    e.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stok girildi: %s, %s deposuna %.1f koli", product.Name, warehouse.Name, e.Boxes),
				Before:      nil,
				After:       e,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		e.Product = product
		e.Warehouse = warehouse
		return c.Status(fiber.StatusCreated).JSON(toEntryResponse(e))
	}
}

// PUT /api/stock-entries/:id
// Koli sayısını günceller (çıkış/düzeltme).
func UpdateStockEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var e models.StockEntry
		if err := database.DB.Preload("Product").Preload("Warehouse").First(&e, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok kaydı bulunamadı")
		}

		var body struct {
			Boxes float64 `json:"boxes"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if body.Boxes < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "boxes negatif olamaz")
		}

		before := e
		e.Boxes = body.Boxes
		if err := database.DB.Model(&e).Update("boxes", e.Boxes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok güncellenemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_entry",
				EntityID:    e.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Stok güncellendi: %s, %.1f -> %.1f koli", e.Product.Name, before.Boxes, e.Boxes),
				Before:      before,
				After:       e,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.JSON(toEntryResponse(e))
	}
}

// GET /api/stock?warehouse_id=1
// Güncel stok. Sıfıra inmiş kayıtlar okuma sırasında silinir; liste her
// zaman temiz döner.
func CurrentStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.DB.Where("boxes <= 0").Delete(&models.StockEntry{}).Error; err != nil {
			fmt.Printf("Sıfır stok temizliği yapılamadı: %v\n", err)
		}

		dbq := database.DB.Model(&models.StockEntry{}).Preload("Product").Preload("Product.Category").Preload("Warehouse")
		if widStr := c.Query("warehouse_id"); widStr != "" {
			var wid uint
			if _, err := fmt.Sscan(widStr, &wid); err != nil || wid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "warehouse_id geçersiz")
			}
			dbq = dbq.Where("warehouse_id = ?", wid)
		}

		var entries []models.StockEntry
		if err := dbq.Order("date desc, id desc").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok listelenemedi")
		}

		resp := make([]StockEntryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toEntryResponse(e))
		}
		return c.JSON(resp)
	}
}
