package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	finesCtrl "schoolku_backend/internals/features/finance/fines/controller"
)

func FinesAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := finesCtrl.NewFinesController(db)

	g := r.Group("/fines")
	g.Post("/types", ctl.CreateFineType)
	g.Get("/types", ctl.ListFineTypes)

	g.Post("/", ctl.CreateFine)
	g.Get("/students/:student_id", ctl.ListStudentFines)

	// Targeting audit & repair
	g.Get("/:id/verify", ctl.VerifyFine)
	g.Post("/:id/fix", ctl.FixFine)
}
