package expense

import (
	"fmt"
	"strings"
	"time"

	"defter-backend/internal/audit"
	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateExpenseRequest struct {
	AccountID uint    `json:"account_id"`
	Amount    float64 `json:"amount"`
	Purpose   string  `json:"purpose"`
	Date      string  `json:"date"`
}

type ExpenseResponse struct {
	ID          uint    `json:"id"`
	AccountID   uint    `json:"account_id"`
	AccountName string  `json:"account_name"`
	Amount      float64 `json:"amount"`
	Purpose     string  `json:"purpose"`
	Date        string  `json:"date"`
}

func toResponse(e models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		AccountID:   e.AccountID,
		AccountName: e.Account.Name,
		Amount:      e.Amount,
		Purpose:     e.Purpose,
		Date:        e.Date.Format("2006-01-02"),
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

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.AccountID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "account_id zorunlu")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
		}
		if strings.TrimSpace(body.Purpose) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "purpose zorunlu")
		}

		var account models.Account
		if err := database.DB.First(&account, body.AccountID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Hesap bulunamadı")
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
		}

		e := models.Expense{
			AccountID: account.ID,
			Amount:    body.Amount,
			Purpose:   strings.TrimSpace(body.Purpose),
			Date:      d,
		}

		if err := database.DB.Create(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydedilemedi")
		}

		// Gider hesabın bakiyesini azaltır.
		if err := database.DB.Model(&models.Account{}).Where("id = ?", account.ID).
			Update("balance", gorm.Expr("ROUND((balance - ?)::numeric, 2)", e.Amount)).Error; err != nil {
			fmt.Printf("Hesap bakiyesi güncellenemedi: %v\n", err)
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    e.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Gider eklendi: %s, %.2f (%s)", account.Name, e.Amount, e.Purpose),
				Before:      nil,
				After:       e,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		e.Account = account
		return c.Status(fiber.StatusCreated).JSON(toResponse(e))
	}
}

// GET /api/expenses?account_id=1&from=2025-01-01&to=2025-01-31
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Expense{}).Preload("Account")

		if aidStr := c.Query("account_id"); aidStr != "" {
			var aid uint
			if _, err := fmt.Sscan(aidStr, &aid); err != nil || aid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "account_id geçersiz")
			}
			dbq = dbq.Where("account_id = ?", aid)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
			}
			dbq = dbq.Where("date < ?", to.AddDate(0, 0, 1))
		}

		var expenses []models.Expense
		if err := dbq.Order("date desc, id desc").Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Giderler listelenemedi")
		}

		resp := make([]ExpenseResponse, 0, len(expenses))
		for _, e := range expenses {
			resp = append(resp, toResponse(e))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/admin/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var e models.Expense
		if err := database.DB.First(&e, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Gider bulunamadı")
		}

		if err := database.DB.Delete(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider silinemedi")
		}

		if err := database.DB.Model(&models.Account{}).Where("id = ?", e.AccountID).
			Update("balance", gorm.Expr("ROUND((balance + ?)::numeric, 2)", e.Amount)).Error; err != nil {
			fmt.Printf("Hesap bakiyesi güncellenemedi: %v\n", err)
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "expense",
				EntityID:    e.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Gider silindi: %.2f (%s)", e.Amount, e.Purpose),
				Before:      e,
				After:       nil,
			}); logErr != nil {
				fmt.Printf("Audit log yazılamadı: %v\n", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

type MonthlySummaryRow struct {
	Month       string  `json:"month"` // "2025-01"
	AccountID   uint    `json:"account_id"`
	AccountName string  `json:"account_name"`
	Total       float64 `json:"total"`
	Count       int64   `json:"count"`
}

// GET /api/expenses/summary?year=2025
// Ay ve hesap bazında gider toplamları.
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.Query("year")
		if year == "" {
			year = fmt.Sprintf("%d", time.Now().Year())
		}
		var y int
		if _, err := fmt.Sscan(year, &y); err != nil || y < 2000 || y > 2200 {
			return fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
		}

		var rows []MonthlySummaryRow
		err := database.DB.Raw(`
			SELECT to_char(date_trunc('month', e.date), 'YYYY-MM') AS month,
			       e.account_id,
			       a.name AS account_name,
			       ROUND(SUM(e.amount)::numeric, 2) AS total,
			       COUNT(*) AS count
			FROM expenses e
			JOIN accounts a ON a.id = e.account_id
			WHERE EXTRACT(YEAR FROM e.date) = ?
			GROUP BY 1, 2, 3
			ORDER BY 1, 3
		`, y).Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider özeti oluşturulamadı")
		}

		return c.JSON(rows)
	}
}
