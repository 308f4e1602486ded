package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dto "schoolku_backend/internals/features/school/students/dto"
	model "schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
)

type StudentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Validator: validator.New()}
}

/* =======================================================================
   STUDENT
======================================================================= */

// POST /students
func (h *StudentController) Create(c *fiber.Ctx) error {
	var req dto.StudentCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.StudentDueAmount.IsNegative() {
		return helper.Error(c, fiber.StatusBadRequest, "student_due_amount must not be negative")
	}

	student := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.Error(c, fiber.StatusConflict, "admission number already exists")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create student")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "student created", student)
}

// GET /students/:id
func (h *StudentController) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}

	var student model.Student
	if err := h.DB.WithContext(c.UserContext()).
		Preload("StudentClassSection").
		First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "student found", student)
}

// GET /students?class_section_id=
func (h *StudentController) List(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.UserContext()).
		Preload("StudentClassSection").
		Order("student_admission_number ASC")

	if raw := c.Query("class_section_id"); raw != "" {
		classID, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid class_section_id")
		}
		q = q.Where("student_class_section_id = ?", classID)
	}

	var students []model.Student
	if err := q.Find(&students).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list students")
	}
	return helper.Success(c, "students listed", students)
}

// PUT /students/:id/class — moving a student changes future fee applicability
// only; existing deposits and fine assignments stay where they are.
func (h *StudentController) AssignClass(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}

	var req dto.StudentAssignClassDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var section model.ClassSection
	if err := h.DB.WithContext(c.UserContext()).
		First(&section, "class_section_id = ?", req.StudentClassSectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "class section not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	res := h.DB.WithContext(c.UserContext()).
		Model(&model.Student{}).
		Where("student_id = ?", id).
		Update("student_class_section_id", req.StudentClassSectionID)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to assign class")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "student not found")
	}

	return helper.Success(c, "class assigned", fiber.Map{
		"student_id":               id,
		"student_class_section_id": req.StudentClassSectionID,
		"class_section":            section.DisplayName(),
	})
}

// PUT /students/:id/transport — upsert: one stoppage per student.
func (h *StudentController) AssignTransport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}

	var req dto.StudentAssignTransportDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var student model.Student
	if err := h.DB.WithContext(c.UserContext()).
		First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	var stoppage model.Stoppage
	if err := h.DB.WithContext(c.UserContext()).
		First(&stoppage, "stoppage_id = ?", req.StoppageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "stoppage not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	assignment := model.TransportAssignment{
		TransportAssignmentStudentID:  id,
		TransportAssignmentStoppageID: req.StoppageID,
	}
	if err := h.DB.WithContext(c.UserContext()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transport_assignment_student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"transport_assignment_stoppage_id", "transport_assignment_updated_at"}),
		}).
		Create(&assignment).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to assign transport")
	}

	return helper.Success(c, "transport assigned", assignment)
}

/* =======================================================================
   CLASS SECTION / STOPPAGE
======================================================================= */

// POST /class-sections
func (h *StudentController) CreateClassSection(c *fiber.Ctx) error {
	var req dto.ClassSectionCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	section := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(section).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create class section")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "class section created", section)
}

// GET /class-sections
func (h *StudentController) ListClassSections(c *fiber.Ctx) error {
	var sections []model.ClassSection
	if err := h.DB.WithContext(c.UserContext()).
		Order("class_section_class_name ASC, class_section_section ASC").
		Find(&sections).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list class sections")
	}
	return helper.Success(c, "class sections listed", sections)
}

// POST /stoppages
func (h *StudentController) CreateStoppage(c *fiber.Ctx) error {
	var req dto.StoppageCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	stoppage := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(stoppage).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create stoppage")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "stoppage created", stoppage)
}

// GET /stoppages
func (h *StudentController) ListStoppages(c *fiber.Ctx) error {
	var stoppages []model.Stoppage
	if err := h.DB.WithContext(c.UserContext()).
		Order("stoppage_name ASC").
		Find(&stoppages).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list stoppages")
	}
	return helper.Success(c, "stoppages listed", stoppages)
}
