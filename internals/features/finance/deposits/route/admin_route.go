package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	depositCtrl "schoolku_backend/internals/features/finance/deposits/controller"
	svc "schoolku_backend/internals/features/finance/reconcile/service"
)

func DepositsAdminRoutes(r fiber.Router, db *gorm.DB, cache *svc.BalanceCache) {
	ctl := depositCtrl.NewDepositController(db, cache)

	g := r.Group("/deposits")
	g.Get("/students/:student_id", ctl.ListByStudent)
	g.Get("/receipts/:receipt_no", ctl.ListByReceipt)
	g.Delete("/:id", ctl.Delete)
}
