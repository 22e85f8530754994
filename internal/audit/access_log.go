package audit

import (
	"log"

	"defter-backend/internal/auth"
	"defter-backend/internal/database"
	"defter-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware: Her isteği AccessLog tablosuna yazar (kaynak
// sistemdeki "admin/dbAccessLogs" havuzunun karşılığı). Yazma hatası
// isteği engellemez, sadece loglanır.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		var userID *uint
		if uid, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			userID = &uid
		}
		email, _ := c.Locals(auth.CtxUserEmailKey).(string)

		entry := models.AccessLog{
			UserID:    userID,
			UserEmail: email,
			Method:    c.Method(),
			Path:      c.Path(),
			Status:    c.Response().StatusCode(),
		}
		if dbErr := database.DB.Create(&entry).Error; dbErr != nil {
			log.Printf("Access log yazılamadı: %v", dbErr)
		}

		return err
	}
}

type ReportAppErrorRequest struct {
	Screen  string `json:"screen"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// POST /api/app-errors
// İstemci tarafı hataları toplar (kaynak sistemdeki "appErrors" havuzu).
func ReportAppErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReportAppErrorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Message == "" {
			return fiber.NewError(fiber.StatusBadRequest, "message zorunlu")
		}

		email, _ := c.Locals(auth.CtxUserEmailKey).(string)

		entry := models.AppError{
			Screen:    body.Screen,
			Message:   body.Message,
			Detail:    body.Detail,
			UserEmail: email,
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hata kaydı oluşturulamadı")
		}

		return c.SendStatus(fiber.StatusCreated)
	}
}

// GET /api/admin/app-errors
func ListAppErrorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs []models.AppError
		if err := database.DB.Order("created_at DESC").Limit(500).Find(&errs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Hata kayıtları listelenemedi")
		}
		return c.JSON(errs)
	}
}
