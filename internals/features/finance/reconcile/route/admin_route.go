package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reconcileCtrl "schoolku_backend/internals/features/finance/reconcile/controller"
	svc "schoolku_backend/internals/features/finance/reconcile/service"
	"schoolku_backend/internals/middlewares"
)

// ReconcileAdminRoutes mounts the balance, payable and payment endpoints.
// Payment submission gets its own tighter rate limit.
func ReconcileAdminRoutes(r fiber.Router, db *gorm.DB, cache *svc.BalanceCache) {
	ctl := reconcileCtrl.NewReconcileController(db, cache)

	g := r.Group("/students/:id")
	g.Get("/balance", ctl.GetBalance)
	g.Get("/payable", ctl.GetPayable)
	g.Post("/payments", middlewares.PaymentRateLimiter(), ctl.PostPayment)
	g.Post("/checkout", middlewares.PaymentRateLimiter(), ctl.Checkout)
}
