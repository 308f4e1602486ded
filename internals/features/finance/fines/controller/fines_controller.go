package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schoolku_backend/internals/features/finance/fines/dto"
	model "schoolku_backend/internals/features/finance/fines/model"
	svc "schoolku_backend/internals/features/finance/fines/service"
	helper "schoolku_backend/internals/helpers"
)

type FinesController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Fines     *svc.FineService
}

func NewFinesController(db *gorm.DB) *FinesController {
	return &FinesController{
		DB:        db,
		Validator: validator.New(),
		Fines:     svc.NewFineService(db),
	}
}

/* =======================================================================
   FINE TYPE
======================================================================= */

// POST /fines/types
func (h *FinesController) CreateFineType(c *fiber.Ctx) error {
	var req dto.FineTypeCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	fineType := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(fineType).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create fine type")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "fine type created", fineType)
}

// GET /fines/types
func (h *FinesController) ListFineTypes(c *fiber.Ctx) error {
	var types []model.FineType
	if err := h.DB.WithContext(c.UserContext()).
		Where("fine_type_is_active = ?", true).
		Order("fine_type_created_at DESC").
		Find(&types).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list fine types")
	}
	return helper.Success(c, "fine types listed", types)
}

/* =======================================================================
   FINE — creation fans out to student assignments by scope
======================================================================= */

// POST /fines
func (h *FinesController) CreateFine(c *fiber.Ctx) error {
	var req dto.FineCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if !req.FineAmount.IsPositive() {
		return helper.Error(c, fiber.StatusBadRequest, "fine_amount must be positive")
	}

	fine := req.ToModel()
	assigned, err := h.Fines.ApplyFine(c.UserContext(), fine, req.FineStudentID)
	if err != nil {
		if errors.Is(err, svc.ErrScopeInput) {
			return helper.Error(c, fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to apply fine")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "fine applied", fiber.Map{
		"fine":              fine,
		"students_assigned": assigned,
	})
}

// GET /fines/students/:student_id — every fine assignment for one student.
func (h *FinesController) ListStudentFines(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}

	var assignments []model.FineStudent
	if err := h.DB.WithContext(c.UserContext()).
		Preload("FineStudentFine").
		Preload("FineStudentFine.FineFineType").
		Where("fine_student_student_id = ?", studentID).
		Order("fine_student_created_at DESC").
		Find(&assignments).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list student fines")
	}
	return helper.Success(c, "student fines listed", assignments)
}

/* =======================================================================
   FINE TARGETING — verify & repair
======================================================================= */

// GET /fines/:id/verify — read-only audit of who the fine landed on.
func (h *FinesController) VerifyFine(c *fiber.Ctx) error {
	fineID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid fine id")
	}

	report, err := h.Fines.VerifyFineApplication(c.UserContext(), fineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "fine not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to verify fine")
	}
	return helper.Success(c, "fine verified", report)
}

// POST /fines/:id/fix — removes assignments that no longer match the
// fine's class scope. Paid assignments are reported, never removed.
func (h *FinesController) FixFine(c *fiber.Ctx) error {
	fineID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid fine id")
	}

	result, err := h.Fines.FixFineApplication(c.UserContext(), fineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "fine not found")
		}
		if errors.Is(err, svc.ErrNotClassScoped) {
			return helper.Error(c, fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fix fine")
	}
	return helper.Success(c, "fine assignments repaired", result)
}
