package server

import (
	"errors"
	"log"
	"strings"

	"punto-express/internal/audit"
	"punto-express/internal/auth"
	"punto-express/internal/config"
	"punto-express/internal/dashboard"
	"punto-express/internal/holiday"
	"punto-express/internal/machine"
	"punto-express/internal/models"
	"punto-express/internal/report"
	"punto-express/internal/restock"
	"punto-express/internal/sales"
	"punto-express/internal/seed"
	"punto-express/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func errorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}

	log.Println("Error inesperado:", err)
	msg := "Error inesperado del servidor"
	if errors.Is(err, store.ErrStoreUnavailable) {
		msg = "Almacén de registros no disponible"
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
	})
}

// New arma la aplicación con todas las rutas bajo /api.
func New(cfg *config.Config, db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "punto-express",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	st := store.New(db)
	planOpts := restock.Options{
		Holidays: cfg.Holidays,
		Pattern:  cfg.Pattern,
		Policy:   cfg.SlackPolicy,
	}

	api := app.Group("/api")

	// Públicas
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db, cfg.JWTSecret))

	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Roster
	protected.Get("/machines", machine.ListMachinesHandler(db))

	// Ventas semanales
	protected.Get("/sales/weekly", sales.GetWeeklyHandler(st, st))
	protected.Put("/sales/weekly", sales.SaveWeeklyHandler(db, st, st))
	protected.Get("/sales/weekly/export", sales.ExportWeeklyHandler(st, st))

	// Dashboard
	protected.Get("/dashboard", dashboard.DashboardHandler(st, st))
	protected.Get("/dashboard/pdf", dashboard.PDFHandler(st, st))

	// Reabastecimiento
	protected.Get("/restock", restock.PlanHandler(st, st, planOpts))
	protected.Get("/restock/export", restock.ExportHandler(st, st, planOpts))

	// Historial y reportes
	protected.Get("/records", report.HistoryHandler(st))
	protected.Get("/records/export", report.ExportCSVHandler(st))

	// Festivos
	protected.Get("/holidays", holiday.ListHandler(cfg.Holidays))
	protected.Get("/holidays/tomorrow", holiday.TomorrowHandler(cfg.Holidays, nil))

	// Auditoría
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(db))
	protected.Post("/audit-logs/:id/undo", auth.RequireRole(models.RoleAdmin), audit.UndoAuditLogHandler(db))

	// Solo administradores
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.CreateUserHandler(db))
	adminRoutes.Post("/machines", machine.CreateMachineHandler(db))
	adminRoutes.Put("/machines/:id", machine.UpdateMachineHandler(db))
	adminRoutes.Delete("/machines/:id", machine.DeleteMachineHandler(db))
	adminRoutes.Post("/seed", seed.SeedHandler(st, st))
	adminRoutes.Delete("/simulation", report.DeleteSimulationHandler(st))

	return app
}
