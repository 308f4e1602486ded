package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schoolku_backend/internals/features/finance/fees/dto"
	model "schoolku_backend/internals/features/finance/fees/model"
	helper "schoolku_backend/internals/helpers"
)

type FeesController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewFeesController(db *gorm.DB) *FeesController {
	return &FeesController{DB: db, Validator: validator.New()}
}

/* =======================================================================
   FEES GROUP
======================================================================= */

// POST /fees/groups
func (h *FeesController) CreateGroup(c *fiber.Ctx) error {
	var req dto.FeesGroupCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	group := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(group).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create fees group")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "fees group created", group)
}

// GET /fees/groups
func (h *FeesController) ListGroups(c *fiber.Ctx) error {
	var groups []model.FeesGroup
	if err := h.DB.WithContext(c.UserContext()).
		Order("fees_group_created_at DESC").
		Find(&groups).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list fees groups")
	}
	return helper.Success(c, "fees groups listed", groups)
}

// DELETE /fees/groups/:id — soft delete; existing deposits keep their history.
func (h *FeesController) DeleteGroup(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid fees group id")
	}
	res := h.DB.WithContext(c.UserContext()).
		Delete(&model.FeesGroup{}, "fees_group_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete fees group")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "fees group not found")
	}
	return helper.Success(c, "fees group deleted", fiber.Map{"fees_group_id": id})
}

/* =======================================================================
   FEES TYPE
======================================================================= */

// POST /fees/types
func (h *FeesController) CreateType(c *fiber.Ctx) error {
	var req dto.FeesTypeCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.FeesTypeAmount.IsNegative() {
		return helper.Error(c, fiber.StatusBadRequest, "fees_type_amount must not be negative")
	}

	// The parent group decides whether class/stoppage scoping makes sense.
	var group model.FeesGroup
	if err := h.DB.WithContext(c.UserContext()).
		First(&group, "fees_group_id = ?", req.FeesTypeGroupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "fees group not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if group.FeesGroupBasis == model.FeesGroupBasisStoppage && req.FeesTypeStoppageID == nil {
		return helper.Error(c, fiber.StatusBadRequest, "stoppage based fees require fees_type_stoppage_id")
	}
	if group.FeesGroupBasis == model.FeesGroupBasisClass && req.FeesTypeClassSectionID == nil {
		return helper.Error(c, fiber.StatusBadRequest, "class based fees require fees_type_class_section_id")
	}

	feesType := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(feesType).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create fees type")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "fees type created", feesType)
}

// GET /fees/types?group_id=
func (h *FeesController) ListTypes(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.UserContext()).
		Preload("FeesTypeGroup").
		Order("fees_type_created_at DESC")

	if raw := c.Query("group_id"); raw != "" {
		groupID, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid group_id")
		}
		q = q.Where("fees_type_group_id = ?", groupID)
	}

	var types []model.FeesType
	if err := q.Find(&types).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list fees types")
	}
	return helper.Success(c, "fees types listed", types)
}

// DELETE /fees/types/:id
func (h *FeesController) DeleteType(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid fees type id")
	}
	res := h.DB.WithContext(c.UserContext()).
		Delete(&model.FeesType{}, "fees_type_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete fees type")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "fees type not found")
	}
	return helper.Success(c, "fees type deleted", fiber.Map{"fees_type_id": id})
}
