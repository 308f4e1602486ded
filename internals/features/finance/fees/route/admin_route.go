package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feesCtrl "schoolku_backend/internals/features/finance/fees/controller"
)

func FeesAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := feesCtrl.NewFeesController(db)

	g := r.Group("/fees")
	g.Post("/groups", ctl.CreateGroup)
	g.Get("/groups", ctl.ListGroups)
	g.Delete("/groups/:id", ctl.DeleteGroup)

	g.Post("/types", ctl.CreateType)
	g.Get("/types", ctl.ListTypes)
	g.Delete("/types/:id", ctl.DeleteType)
}
