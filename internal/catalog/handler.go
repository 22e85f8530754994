package catalog

import (
	"fmt"
	"strings"

	"defter-backend/internal/audit"
	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateProductRequest struct {
	Name       string `json:"name"`
	CategoryID *uint  `json:"category_id"`
}

type ProductResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	CategoryID   *uint  `json:"category_id"`
	CategoryName string `json:"category_name"`
}

func toProductResponse(p models.Product) ProductResponse {
	resp := ProductResponse{ID: p.ID, Name: p.Name, CategoryID: p.CategoryID}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	return resp
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

// POST /api/admin/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		cat := models.Category{Name: name}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori kaydedilemedi")
		}

		return c.Status(fiber.StatusCreated).JSON(CategoryResponse{ID: cat.ID, Name: cat.Name})
	}
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		if err := database.DB.Order("name asc").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		resp := make([]CategoryResponse, 0, len(categories))
		for _, cat := range categories {
			resp = append(resp, CategoryResponse{ID: cat.ID, Name: cat.Name})
		}
		return c.JSON(resp)
	}
}

// DELETE /api/admin/categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var cat models.Category
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı")
		}

		var productCount int64
		database.DB.Model(&models.Product{}).Where("category_id = ?", cat.ID).Count(&productCount)
		if productCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ürünü olan kategori silinemez")
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/admin/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name zorunlu")
		}

		p := models.Product{Name: name, CategoryID: body.CategoryID}
		if body.CategoryID != nil {
			var cat models.Category
			if err := database.DB.First(&cat, *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
			}
			p.Category = &cat
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün kaydedilemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Ürün eklendi: %s", p.Name),
				Before:      nil,
				After:       p,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
	}
}

// GET /api/products?category_id=1
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{}).Preload("Category")

		if cidStr := c.Query("category_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err != nil || cid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "category_id geçersiz")
			}
			dbq = dbq.Where("category_id = ?", cid)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		resp := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, toProductResponse(p))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var stockCount int64
		database.DB.Model(&models.StockEntry{}).Where("product_id = ?", p.ID).Count(&stockCount)
		if stockCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stok kaydı olan ürün silinemez")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ürün silindi: %s", p.Name),
				Before:      p,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
