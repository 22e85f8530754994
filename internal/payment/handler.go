package payment

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

type CreatePaymentRequest struct {
	FromKind string  `json:"from_kind"` // "party" | "account"
	FromID   uint    `json:"from_id"`
	ToKind   string  `json:"to_kind"`
	ToID     uint    `json:"to_id"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

type PaymentResponse struct {
	ID       uint    `json:"id"`
	TxnID    string  `json:"txn_id"`
	FromKind string  `json:"from_kind"`
	FromID   uint    `json:"from_id"`
	FromName string  `json:"from_name"`
	ToKind   string  `json:"to_kind"`
	ToID     uint    `json:"to_id"`
	ToName   string  `json:"to_name"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Note     string  `json:"note"`
}

func toResponse(p models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:       p.ID,
		TxnID:    p.TxnID,
		FromKind: string(p.FromKind),
		FromID:   p.FromID,
		FromName: p.FromName,
		ToKind:   string(p.ToKind),
		ToID:     p.ToID,
		ToName:   p.ToName,
		Amount:   p.Amount,
		Date:     p.Date.Format("2006-01-02"),
		Note:     p.Note,
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

// resolveEndpoint: Ödeme ucunu doğrular ve gösterim adını döner.
func resolveEndpoint(kind models.EntityKind, id uint) (string, error) {
	switch kind {
	case models.EntityKindParty:
		var party models.Party
		if err := database.DB.First(&party, id).Error; err != nil {
			return "", fmt.Errorf("cari bulunamadı: %d", id)
		}
		return party.Name, nil
	case models.EntityKindAccount:
		var account models.Account
		if err := database.DB.First(&account, id).Error; err != nil {
			return "", fmt.Errorf("hesap bulunamadı: %d", id)
		}
		return account.Name, nil
	default:
		return "", fmt.Errorf("uç tipi geçersiz: %q", kind)
	}
}

// balanceDeltas: Ödemenin iki ucuna uygulanacak işaretli bakiye farkları.
// Ekstre kaydıyla aynı işaret: paranın çıktığı uç negatif, girdiği uç pozitif.
func balanceDeltas(amount float64) (fromDelta, toDelta float64) {
	return -amount, amount
}

// bumpBalance: Ucun kayıtlı bakiyesini delta kadar oynatır. Delta ekstre
// kaydıyla aynı işareti taşır. Fırsatçı güncelleme; kalıcı doğru değer
// ekstre yeniden kurulunca yazılır.
func bumpBalance(kind models.EntityKind, id uint, delta float64) {
	var err error
	switch kind {
	case models.EntityKindParty:
		err = database.DB.Model(&models.Party{}).Where("id = ?", id).
			Update("balance", gorm.Expr("ROUND((balance + ?)::numeric, 2)", delta)).Error
	case models.EntityKindAccount:
		err = database.DB.Model(&models.Account{}).Where("id = ?", id).
			Update("balance", gorm.Expr("ROUND((balance + ?)::numeric, 2)", delta)).Error
	}
	if err != nil {
		fmt.Printf("Bakiye güncellenemedi (%s/%d): %v\n", kind, id, err)
	}
}

// POST /api/payments
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		fromKind := models.EntityKind(body.FromKind)
		toKind := models.EntityKind(body.ToKind)

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
		}
		if body.FromID == 0 || body.ToID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "from_id ve to_id zorunlu")
		}
		if fromKind == toKind && body.FromID == body.ToID {
			return fiber.NewError(fiber.StatusBadRequest, "Ödemenin iki ucu aynı olamaz")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		fromName, err := resolveEndpoint(fromKind, body.FromID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Gönderen ucu geçersiz")
		}
		toName, err := resolveEndpoint(toKind, body.ToID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Alıcı ucu geçersiz")
		}

		p := models.Payment{
			TxnID:    uuid.NewString(),
			FromKind: fromKind,
			FromID:   body.FromID,
			FromName: fromName,
			ToKind:   toKind,
			ToID:     body.ToID,
			ToName:   toName,
			Amount:   body.Amount,
			Date:     d,
			Note:     strings.TrimSpace(body.Note),
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme kaydedilemedi")
		}

		// Para from ucundan çıkar, to ucuna girer.
		fromDelta, toDelta := balanceDeltas(p.Amount)
		bumpBalance(fromKind, body.FromID, fromDelta)
		bumpBalance(toKind, body.ToID, toDelta)

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payment",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Ödeme eklendi: %s -> %s, %.2f", fromName, toName, p.Amount),
				Before:      nil,
				After:       p,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(p))
	}
}

// GET /api/payments?party_id=1 veya ?account_id=2
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Payment{})

		if pidStr := c.Query("party_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err != nil || pid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "party_id geçersiz")
			}
			dbq = dbq.Where(
				"(from_kind = ? AND from_id = ?) OR (to_kind = ? AND to_id = ?)",
				models.EntityKindParty, pid, models.EntityKindParty, pid,
			)
		}
		if aidStr := c.Query("account_id"); aidStr != "" {
			var aid uint
			if _, err := fmt.Sscan(aidStr, &aid); err != nil || aid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "account_id geçersiz")
			}
			dbq = dbq.Where(
				"(from_kind = ? AND from_id = ?) OR (to_kind = ? AND to_id = ?)",
				models.EntityKindAccount, aid, models.EntityKindAccount, aid,
			)
		}

		var payments []models.Payment
		if err := dbq.Order("date desc, id desc").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler listelenemedi")
		}

		resp := make([]PaymentResponse, 0, len(payments))
		for _, p := range payments {
			resp = append(resp, toResponse(p))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/admin/payments/:id
func DeletePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var p models.Payment
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ödeme bulunamadı")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme silinemedi")
		}

		// Silme bakiye etkisini geri alır.
		fromDelta, toDelta := balanceDeltas(p.Amount)
		bumpBalance(p.FromKind, p.FromID, -fromDelta)
		bumpBalance(p.ToKind, p.ToID, -toDelta)

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payment",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ödeme silindi: %s -> %s, %.2f", p.FromName, p.ToName, p.Amount),
				Before:      p,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
