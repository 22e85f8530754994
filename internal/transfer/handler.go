package transfer

import (
	"fmt"
	"strings"
	"time"

	"defter-backend/internal/audit"
	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTransferRequest struct {
	FromAccountID uint    `json:"from_account_id"`
	ToAccountID   uint    `json:"to_account_id"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	Note          string  `json:"note"`
}

type TransferResponse struct {
	ID              uint    `json:"id"`
	TxnID           string  `json:"txn_id"`
	FromAccountID   uint    `json:"from_account_id"`
	FromAccountName string  `json:"from_account_name"`
	ToAccountID     uint    `json:"to_account_id"`
	ToAccountName   string  `json:"to_account_name"`
	Amount          float64 `json:"amount"`
	Date            string  `json:"date"`
	Note            string  `json:"note"`
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

func bumpAccountBalance(id uint, delta float64) {
	if err := database.DB.Model(&models.Account{}).Where("id = ?", id).
		Update("balance", gorm.Expr("ROUND((balance + ?)::numeric, 2)", delta)).Error; err != nil {
		fmt.Printf("Hesap bakiyesi güncellenemedi (%d): %v\n", id, err)
	}
}

// POST /api/transfers
func CreateTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.FromAccountID == 0 || body.ToAccountID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "from_account_id ve to_account_id zorunlu")
		}
		if body.FromAccountID == body.ToAccountID {
			return fiber.NewError(fiber.StatusBadRequest, "Virmanın iki ucu aynı hesap olamaz")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
		}

		var from, to models.Account
		if err := database.DB.First(&from, body.FromAccountID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Gönderen hesap bulunamadı")
		}
		if err := database.DB.First(&to, body.ToAccountID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Alıcı hesap bulunamadı")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		tr := models.Transfer{
			TxnID:         uuid.NewString(),
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        body.Amount,
			Date:          d,
			Note:          strings.TrimSpace(body.Note),
		}

		// Önce virman satırı yazılır, bakiyeler sonra tek tek oynatılır.
		// Ara adımda süreç ölürse bakiyeler geride kalabilir; ekstre
		// yeniden kurulduğunda virman satırından doğru değere döner.
		if err := database.DB.Create(&tr).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Virman kaydedilemedi")
		}

		bumpAccountBalance(from.ID, -tr.Amount)
		bumpAccountBalance(to.ID, tr.Amount)

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "transfer",
				EntityID:    tr.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Virman yapıldı: %s -> %s, %.2f", from.Name, to.Name, tr.Amount),
				Before:      nil,
				After:       tr,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(TransferResponse{
			ID:              tr.ID,
			TxnID:           tr.TxnID,
			FromAccountID:   tr.FromAccountID,
			FromAccountName: from.Name,
			ToAccountID:     tr.ToAccountID,
			ToAccountName:   to.Name,
			Amount:          tr.Amount,
			Date:            tr.Date.Format("2006-01-02"),
			Note:            tr.Note,
		})
	}
}

// GET /api/transfers?account_id=1
func ListTransfersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Transfer{}).Preload("FromAccount").Preload("ToAccount")

		if aidStr := c.Query("account_id"); aidStr != "" {
			var aid uint
			if _, err := fmt.Sscan(aidStr, &aid); err != nil || aid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "account_id geçersiz")
			}
			dbq = dbq.Where("from_account_id = ? OR to_account_id = ?", aid, aid)
		}

		var transfers []models.Transfer
		if err := dbq.Order("date desc, id desc").Find(&transfers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Virmanlar listelenemedi")
		}

		resp := make([]TransferResponse, 0, len(transfers))
		for _, tr := range transfers {
			resp = append(resp, TransferResponse{
				ID:              tr.ID,
				TxnID:           tr.TxnID,
				FromAccountID:   tr.FromAccountID,
				FromAccountName: tr.FromAccount.Name,
				ToAccountID:     tr.ToAccountID,
				ToAccountName:   tr.ToAccount.Name,
				Amount:          tr.Amount,
				Date:            tr.Date.Format("2006-01-02"),
				Note:            tr.Note,
			})
		}
		return c.JSON(resp)
	}
}

// DELETE /api/admin/transfers/:id
func DeleteTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var tr models.Transfer
		if err := database.DB.First(&tr, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Virman bulunamadı")
		}

		if err := database.DB.Delete(&tr).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Virman silinemedi")
		}

		bumpAccountBalance(tr.FromAccountID, tr.Amount)
		bumpAccountBalance(tr.ToAccountID, -tr.Amount)

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "transfer",
				EntityID:    tr.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Virman silindi: %.2f", tr.Amount),
				Before:      tr,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
