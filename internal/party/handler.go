package party

import (
	"fmt"
	"strings"

	"defter-backend/internal/audit"
	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreatePartyRequest struct {
	Name             string  `json:"name"`
	City             string  `json:"city"`
	Mobile           string  `json:"mobile"`
	PartyType        string  `json:"party_type"` // customer / vendor / supplier
	CreditPeriodDays int     `json:"credit_period_days"`
	OpeningBalance   float64 `json:"opening_balance"` // pozitif girilir
}

type UpdatePartyRequest struct {
	Name             *string `json:"name"`
	City             *string `json:"city"`
	Mobile           *string `json:"mobile"`
	PartyType        *string `json:"party_type"`
	CreditPeriodDays *int    `json:"credit_period_days"`
}

type PartyResponse struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	City             string  `json:"city"`
	Mobile           string  `json:"mobile"`
	PartyType        string  `json:"party_type"`
	CreditPeriodDays int     `json:"credit_period_days"`
	OpeningBalance   float64 `json:"opening_balance"`
	Balance          float64 `json:"balance"`
	CreatedAt        string  `json:"created_at"`
}

func validPartyType(t string) bool {
	switch models.PartyType(t) {
	case models.PartyTypeCustomer, models.PartyTypeVendor, models.PartyTypeSupplier:
		return true
	}
	return false
}

func toResponse(p models.Party) PartyResponse {
	return PartyResponse{
		ID:               p.ID,
		Name:             p.Name,
		City:             p.City,
		Mobile:           p.Mobile,
		PartyType:        string(p.PartyType),
		CreditPeriodDays: p.CreditPeriodDays,
		OpeningBalance:   p.OpeningBalance,
		Balance:          p.Balance,
		CreatedAt:        p.CreatedAt.Format("2006-01-02"),
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

// POST /api/parties
func CreatePartyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePartyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
		}
		if !validPartyType(body.PartyType) {
			return fiber.NewError(fiber.StatusBadRequest, "party_type 'customer', 'vendor' veya 'supplier' olmalı")
		}
		if body.OpeningBalance < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "opening_balance negatif olamaz")
		}

		p := models.Party{
			Name:             body.Name,
			City:             strings.TrimSpace(body.City),
			Mobile:           strings.TrimSpace(body.Mobile),
			PartyType:        models.PartyType(body.PartyType),
			CreditPeriodDays: body.CreditPeriodDays,
			OpeningBalance:   body.OpeningBalance,
			// İşaret kuralı: canlı bakiye -açılış bakiyesi ile başlar,
			// sonraki pozitif hareketler carinin borcunun arttığı anlamına gelir.
			Balance: -body.OpeningBalance,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Cari oluşturulamadı")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "party",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Cari eklendi: %s (%s)", p.Name, p.PartyType),
				Before:      nil,
				After:       p,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(p))
	}
}

// GET /api/parties?party_type=customer
func ListPartiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Party{})

		if t := c.Query("party_type"); t != "" {
			if !validPartyType(t) {
				return fiber.NewError(fiber.StatusBadRequest, "party_type geçersiz")
			}
			dbq = dbq.Where("party_type = ?", t)
		}

		var parties []models.Party
		if err := dbq.Order("name asc").Find(&parties).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Cariler listelenemedi")
		}

		resp := make([]PartyResponse, 0, len(parties))
		for _, p := range parties {
			resp = append(resp, toResponse(p))
		}
		return c.JSON(resp)
	}
}

// GET /api/parties/:id
func GetPartyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var p models.Party
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cari bulunamadı")
		}
		return c.JSON(toResponse(p))
	}
}

// PUT /api/parties/:id
func UpdatePartyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var p models.Party
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cari bulunamadı")
		}

		var body UpdatePartyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		before := p

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			p.Name = name
		}
		if body.City != nil {
			p.City = strings.TrimSpace(*body.City)
		}
		if body.Mobile != nil {
			p.Mobile = strings.TrimSpace(*body.Mobile)
		}
		if body.PartyType != nil {
			if !validPartyType(*body.PartyType) {
				return fiber.NewError(fiber.StatusBadRequest, "party_type geçersiz")
			}
			p.PartyType = models.PartyType(*body.PartyType)
		}
		if body.CreditPeriodDays != nil {
			p.CreditPeriodDays = *body.CreditPeriodDays
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Cari güncellenemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "party",
				EntityID:    p.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Cari güncellendi: %s", p.Name),
				Before:      before,
				After:       p,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.JSON(toResponse(p))
	}
}

// DELETE /api/admin/parties/:id
// Hard delete; kaynak sistemde cariler sadece açık admin aksiyonuyla silinir.
func DeletePartyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var p models.Party
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cari bulunamadı")
		}

		// Faturası olan cari silinemez, fatura kayıtları sahipsiz kalır
		var invoiceCount int64
		database.DB.Model(&models.Invoice{}).Where("party_id = ?", p.ID).Count(&invoiceCount)
		if invoiceCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Faturası olan cari silinemez")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Cari silinemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "party",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Cari silindi: %s", p.Name),
				Before:      p,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
