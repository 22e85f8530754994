package main

import (
	"log"
	"strings"

	"defter-backend/internal/account"
	"defter-backend/internal/audit"
	"defter-backend/internal/auth"
	"defter-backend/internal/catalog"
	"defter-backend/internal/config"
	"defter-backend/internal/dashboard"
	"defter-backend/internal/database"
	"defter-backend/internal/expense"
	"defter-backend/internal/inspect"
	"defter-backend/internal/invoice"
	"defter-backend/internal/ledger"
	"defter-backend/internal/models"
	"defter-backend/internal/party"
	"defter-backend/internal/payment"
	"defter-backend/internal/purchase"
	"defter-backend/internal/stock"
	"defter-backend/internal/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den temizleyerek geçir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Use(audit.AccessLogMiddleware())

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Kullanıcı yönetimi
	adminRoutes.Post("/users", auth.CreateUserHandler())

	// Kategori/ürün yönetimi
	adminRoutes.Post("/categories", catalog.CreateCategoryHandler())
	adminRoutes.Delete("/categories/:id", catalog.DeleteCategoryHandler())
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())

	// Depo yönetimi
	adminRoutes.Post("/warehouses", stock.CreateWarehouseHandler())
	adminRoutes.Delete("/warehouses/:id", stock.DeleteWarehouseHandler())

	// Silme işlemleri sadece admin
	adminRoutes.Delete("/invoices/:id", invoice.DeleteInvoiceHandler())
	adminRoutes.Delete("/purchases/:id", purchase.DeletePurchaseHandler())
	adminRoutes.Delete("/account-purchases/:id", purchase.DeleteAccountPurchaseHandler())
	adminRoutes.Delete("/payments/:id", payment.DeletePaymentHandler())
	adminRoutes.Delete("/transfers/:id", transfer.DeleteTransferHandler())
	adminRoutes.Delete("/expenses/:id", expense.DeleteExpenseHandler())
	adminRoutes.Delete("/parties/:id", party.DeletePartyHandler())
	adminRoutes.Delete("/accounts/:id", account.DeleteAccountHandler())

	// Tutarlılık denetimi
	adminRoutes.Get("/inspect/sales", inspect.SalesInspectionHandler())

	// Uygulama hataları
	adminRoutes.Get("/app-errors", audit.ListAppErrorsHandler())

	// Ortak (auth gerektiren) route'lar

	// Cariler
	protected.Post("/parties", party.CreatePartyHandler())
	protected.Get("/parties", party.ListPartiesHandler())
	protected.Get("/parties/:id", party.GetPartyHandler())
	protected.Put("/parties/:id", party.UpdatePartyHandler())
	protected.Get("/parties/:id/ledger", ledger.PartyLedgerHandler())

	// Hesaplar (banka/kasa)
	protected.Post("/accounts", account.CreateAccountHandler())
	protected.Get("/accounts", account.ListAccountsHandler())
	protected.Put("/accounts/:id", account.UpdateAccountHandler())
	protected.Get("/accounts/:id/ledger", ledger.AccountLedgerHandler())

	// Faturalar
	protected.Post("/invoices", invoice.CreateInvoiceHandler())
	protected.Get("/invoices", invoice.ListInvoicesHandler())
	protected.Get("/invoices/export/xlsx", invoice.ExportInvoicesXLSXHandler())
	protected.Get("/invoices/:id", invoice.GetInvoiceHandler())

	// Alışlar (kalemli + hesap bazlı)
	protected.Post("/purchases", purchase.CreatePurchaseHandler())
	protected.Get("/purchases", purchase.ListPurchasesHandler())
	protected.Post("/account-purchases", purchase.CreateAccountPurchaseHandler())
	protected.Get("/account-purchases", purchase.ListAccountPurchasesHandler())

	// Ödemeler & virmanlar
	protected.Post("/payments", payment.CreatePaymentHandler())
	protected.Get("/payments", payment.ListPaymentsHandler())
	protected.Post("/transfers", transfer.CreateTransferHandler())
	protected.Get("/transfers", transfer.ListTransfersHandler())

	// Giderler
	protected.Post("/expenses", expense.CreateExpenseHandler())
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Get("/expenses/summary", expense.MonthlySummaryHandler())

	// Katalog listeleri
	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Get("/products", catalog.ListProductsHandler())

	// Depo & stok
	protected.Get("/warehouses", stock.ListWarehousesHandler())
	protected.Post("/stock-entries", stock.CreateStockEntryHandler())
	protected.Put("/stock-entries/:id", stock.UpdateStockEntryHandler())
	protected.Get("/stock", stock.CurrentStockHandler())
	protected.Get("/stock/report/categories", stock.CategoryReportHandler())

	// Dashboard
	protected.Get("/dashboard/balance-chart", dashboard.BalanceChartHandler())

	// Uygulama hatası bildirimi (frontend'den)
	protected.Post("/app-errors", audit.ReportAppErrorHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
