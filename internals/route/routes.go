package route

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	depositRoute "schoolku_backend/internals/features/finance/deposits/route"
	feesRoute "schoolku_backend/internals/features/finance/fees/route"
	finesRoute "schoolku_backend/internals/features/finance/fines/route"
	reconcileRoute "schoolku_backend/internals/features/finance/reconcile/route"
	svc "schoolku_backend/internals/features/finance/reconcile/service"
	studentRoute "schoolku_backend/internals/features/school/students/route"
	"schoolku_backend/internals/middlewares"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, cache *svc.BalanceCache) {
	startTime = time.Now()

	// ===================== HEALTH =====================
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.Ping() == nil
		status := fiber.StatusOK
		if !dbOK {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   map[bool]string{true: "ok", false: "degraded"}[dbOK],
			"database": dbOK,
			"uptime":   time.Since(startTime).String(),
		})
	})

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		middlewares.AuthJWT(middlewares.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	log.Println("[INFO] Setting up StudentsAdminRoutes...")
	studentRoute.StudentsAdminRoutes(admin, db)

	log.Println("[INFO] Setting up FeesAdminRoutes...")
	feesRoute.FeesAdminRoutes(admin, db)

	log.Println("[INFO] Setting up FinesAdminRoutes...")
	finesRoute.FinesAdminRoutes(admin, db)

	log.Println("[INFO] Setting up ReconcileAdminRoutes...")
	reconcileRoute.ReconcileAdminRoutes(admin, db, cache)

	log.Println("[INFO] Setting up DepositsAdminRoutes...")
	depositRoute.DepositsAdminRoutes(admin, db, cache)
}
