package main

import (
	"log"
	"strings"

	"goyal-backend/internal/audit"
	"goyal-backend/internal/auth"
	"goyal-backend/internal/calendar"
	"goyal-backend/internal/config"
	"goyal-backend/internal/database"
	"goyal-backend/internal/drafts"
	"goyal-backend/internal/export"
	"goyal-backend/internal/inventory"
	"goyal-backend/internal/notes"
	"goyal-backend/internal/notify"
	"goyal-backend/internal/payments"
	"goyal-backend/internal/reminder"
	"goyal-backend/internal/sales"
	"goyal-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	zlog := logger.Must(logger.New())
	defer zlog.Sync()

	notifier := notify.NewWebhookNotifier(cfg.NotifyWebhookURL, logger.Named(zlog, "notify"))
	sched := reminder.NewScheduler(database.DB, notifier, logger.Named(zlog, "reminder"))
	if err := sched.RescheduleAll(); err != nil {
		zlog.Warn("could not reschedule reminders", zap.Error(err))
	}
	if err := sched.StartDailyDigest(cfg.LowStockCron); err != nil {
		zlog.Fatal("could not start low stock digest", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			zlog.Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-owner", auth.RegisterOwnerHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Rubber categories
	protected.Post("/categories", inventory.CreateCategoryHandler())
	protected.Get("/categories", inventory.ListCategoriesHandler())
	protected.Delete("/categories/:id", inventory.DeleteCategoryHandler())
	protected.Delete("/categories", inventory.ClearCategoriesHandler())

	// Stock lots
	protected.Post("/stock-lots", inventory.CreateStockLotHandler())
	protected.Get("/stock-lots", inventory.ListStockLotsHandler())
	protected.Delete("/stock-lots/:id", inventory.DeleteStockLotHandler())
	protected.Delete("/stock-lots", inventory.ClearStockLotsHandler())
	protected.Get("/stock-lots/summary", inventory.StockSummaryHandler())
	protected.Get("/stock-lots/by-type", inventory.StockByTypeHandler())

	// Dashboard and history
	protected.Get("/dashboard", inventory.DashboardHandler())
	protected.Get("/history", inventory.HistoryHandler())

	// Sales
	protected.Post("/sales", sales.CreateSaleHandler())
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Delete("/sales/:id", sales.DeleteSaleHandler())
	protected.Delete("/sales", sales.ClearSalesHandler())
	protected.Post("/sales/:id/approve-payment", sales.ApprovePaymentHandler())
	protected.Get("/sales/pending", sales.ListPendingSalesHandler())
	protected.Get("/sales/summary", sales.SalesSummaryHandler())

	// Incoming stock drafts
	protected.Post("/drafts", drafts.CreateDraftHandler())
	protected.Get("/drafts", drafts.ListDraftsHandler())
	protected.Get("/drafts/:id", drafts.GetDraftHandler())
	protected.Put("/drafts/:id", drafts.UpdateDraftHandler())
	protected.Delete("/drafts/:id", drafts.DeleteDraftHandler())
	protected.Post("/drafts/:id/items", drafts.AddDraftItemHandler())
	protected.Delete("/drafts/:id/items/:itemID", drafts.RemoveDraftItemHandler())
	protected.Get("/drafts/:id/summary", drafts.DraftSummaryHandler())
	protected.Post("/drafts/:id/commit", drafts.CommitDraftHandler())

	// Payment ledger
	protected.Post("/payments", payments.CreatePaymentHandler())
	protected.Get("/payments", payments.ListPaymentsHandler())
	protected.Get("/payments/summary", payments.PaymentSummaryHandler())
	protected.Get("/payments/:id", payments.GetPaymentHandler())
	protected.Put("/payments/:id", payments.UpdatePaymentHandler())
	protected.Delete("/payments/:id", payments.DeletePaymentHandler())
	protected.Post("/payments/:id/transactions", payments.AddTransactionHandler())
	protected.Get("/payments/:id/transactions", payments.ListTransactionsHandler())

	// Calendar events and reminders
	protected.Post("/events", calendar.CreateEventHandler(sched))
	protected.Get("/events", calendar.ListEventsHandler())
	protected.Get("/events/:id", calendar.GetEventHandler())
	protected.Put("/events/:id", calendar.UpdateEventHandler(sched))
	protected.Delete("/events/:id", calendar.DeleteEventHandler(sched))
	protected.Post("/events/:id/complete", calendar.CompleteEventHandler(sched))

	// Notes
	protected.Post("/notes", notes.CreateNoteHandler())
	protected.Get("/notes", notes.ListNotesHandler())
	protected.Get("/notes/:id", notes.GetNoteHandler())
	protected.Put("/notes/:id", notes.UpdateNoteHandler())
	protected.Delete("/notes/:id", notes.DeleteNoteHandler())

	// Exports
	protected.Get("/export/sales.csv", export.ExportSalesCSVHandler())
	protected.Get("/export/stock.csv", export.ExportStockCSVHandler())
	protected.Get("/export/pending-payments.csv", export.ExportPendingPaymentsCSVHandler())
	protected.Get("/export/categories.csv", export.ExportCategoriesCSVHandler())
	protected.Get("/export/summary.xlsx", export.ExportSummaryXLSXHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	zlog.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
