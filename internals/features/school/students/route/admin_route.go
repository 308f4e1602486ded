package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentCtrl "schoolku_backend/internals/features/school/students/controller"
)

func StudentsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := studentCtrl.NewStudentController(db)

	g := r.Group("/students")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Put("/:id/class", ctl.AssignClass)
	g.Put("/:id/transport", ctl.AssignTransport)

	cs := r.Group("/class-sections")
	cs.Post("/", ctl.CreateClassSection)
	cs.Get("/", ctl.ListClassSections)

	st := r.Group("/stoppages")
	st.Post("/", ctl.CreateStoppage)
	st.Get("/", ctl.ListStoppages)
}
