package account

import (
	"fmt"
	"strings"

	"defter-backend/internal/audit"
	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateAccountRequest struct {
	Kind           string  `json:"kind"` // bank / cash
	Name           string  `json:"name"`
	OpeningBalance float64 `json:"opening_balance"`
	Description    string  `json:"description"`
}

type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type AccountResponse struct {
	ID             uint    `json:"id"`
	Kind           string  `json:"kind"`
	Name           string  `json:"name"`
	OpeningBalance float64 `json:"opening_balance"`
	Balance        float64 `json:"balance"`
	Description    string  `json:"description"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
}

func toResponse(a models.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Kind:           string(a.Kind),
		Name:           a.Name,
		OpeningBalance: a.OpeningBalance,
		Balance:        a.Balance,
		Description:    a.Description,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt.Format("2006-01-02"),
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

// POST /api/accounts
func CreateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Kind != string(models.AccountKindBank) && body.Kind != string(models.AccountKindCash) {
			return fiber.NewError(fiber.StatusBadRequest, "kind 'bank' veya 'cash' olmalı")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
		}

		a := models.Account{
			Kind:           models.AccountKind(body.Kind),
			Name:           body.Name,
			OpeningBalance: body.OpeningBalance,
			Balance:        body.OpeningBalance,
			Description:    strings.TrimSpace(body.Description),
			IsActive:       true,
		}

		if err := database.DB.Create(&a).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap oluşturulamadı")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "account",
				EntityID:    a.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Hesap eklendi: %s (%s)", a.Name, a.Kind),
				Before:      nil,
				After:       a,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(a))
	}
}

// GET /api/accounts?kind=bank&active=true
func ListAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Account{})

		if kind := c.Query("kind"); kind != "" {
			if kind != string(models.AccountKindBank) && kind != string(models.AccountKindCash) {
				return fiber.NewError(fiber.StatusBadRequest, "kind geçersiz")
			}
			dbq = dbq.Where("kind = ?", kind)
		}
		if c.Query("active") == "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var accounts []models.Account
		if err := dbq.Order("name asc").Find(&accounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesaplar listelenemedi")
		}

		resp := make([]AccountResponse, 0, len(accounts))
		for _, a := range accounts {
			resp = append(resp, toResponse(a))
		}
		return c.JSON(resp)
	}
}

// PUT /api/accounts/:id
func UpdateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var a models.Account
		if err := database.DB.First(&a, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		var body UpdateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		before := a

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			a.Name = name
		}
		if body.Description != nil {
			a.Description = strings.TrimSpace(*body.Description)
		}
		if body.IsActive != nil {
			a.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&a).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap güncellenemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "account",
				EntityID:    a.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Hesap güncellendi: %s", a.Name),
				Before:      before,
				After:       a,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.JSON(toResponse(a))
	}
}

// DELETE /api/admin/accounts/:id
func DeleteAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var a models.Account
		if err := database.DB.First(&a, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Hesap bulunamadı")
		}

		// Hareketi olan hesap silinmesin
		var paymentCount int64
		database.DB.Model(&models.Payment{}).
			Where("(from_kind = ? AND from_id = ?) OR (to_kind = ? AND to_id = ?)",
				models.EntityKindAccount, a.ID, models.EntityKindAccount, a.ID).
			Count(&paymentCount)
		if paymentCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Hareketi olan hesap silinemez")
		}

		if err := database.DB.Delete(&a).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hesap silinemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "account",
				EntityID:    a.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Hesap silindi: %s", a.Name),
				Before:      a,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
