package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	depositService "schoolku_backend/internals/features/finance/deposits/service"
	dto "schoolku_backend/internals/features/finance/reconcile/dto"
	svc "schoolku_backend/internals/features/finance/reconcile/service"
	studentModel "schoolku_backend/internals/features/school/students/model"
	helper "schoolku_backend/internals/helpers"
)

/* =======================================================================
   Controller
======================================================================= */

type ReconcileController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Balances  *svc.BalanceService
	Payments  *svc.PaymentService
}

func NewReconcileController(db *gorm.DB, cache *svc.BalanceCache) *ReconcileController {
	return &ReconcileController{
		DB:        db,
		Validator: validator.New(),
		Balances:  svc.NewBalanceService(db, cache),
		Payments:  svc.NewPaymentService(db, cache),
	}
}

/* =======================================================================
   Handlers
======================================================================= */

// GET /students/:id/balance
func (h *ReconcileController) GetBalance(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}
	// The calculator never fails the read path: worst case is a zeroed
	// breakdown, so the dashboard always renders.
	breakdown := h.Balances.CalculateBalance(c.UserContext(), studentID)
	return helper.Success(c, "balance calculated", breakdown)
}

// GET /students/:id/payable?discount=true
func (h *ReconcileController) GetPayable(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}
	discountEnabled := c.QueryBool("discount", false)

	items, err := h.Balances.ListPayable(c.UserContext(), studentID, discountEnabled)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "payable items listed", items)
}

// POST /students/:id/payments
func (h *ReconcileController) PostPayment(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}

	var req dto.ApplyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := h.Payments.ApplyPayment(c.UserContext(), studentID, req)
	if err != nil {
		var ve *svc.ValidationError
		switch {
		case errors.As(err, &ve):
			// Validation errors carry the offending item and its maximum;
			// the caller corrects the input and resubmits.
			return helper.Error(c, fiber.StatusUnprocessableEntity, ve.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		default:
			// Infrastructure failures roll the whole batch back; resubmitting
			// is safe because nothing was committed.
			return helper.Error(c, fiber.StatusInternalServerError, "payment processing failed")
		}
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "payment applied", result)
}

// POST /students/:id/checkout — creates a Midtrans Snap transaction covering
// the student's total payable; the returned order id is passed back as the
// transaction reference once the gateway settles.
func (h *ReconcileController) Checkout(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}

	var student studentModel.Student
	if err := h.DB.WithContext(c.UserContext()).
		First(&student, "student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := h.Balances.ListPayable(c.UserContext(), studentID, false)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	breakdown := h.Balances.CalculateBalance(c.UserContext(), studentID)
	if !breakdown.TotalBalance.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "nothing to pay")
	}

	orderID := depositService.GenOrderID("FEE")
	token, redirectURL, err := depositService.GenerateSnapToken(orderID, breakdown.TotalBalance, depositService.CustomerInput{
		FirstName: student.StudentName,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "midtrans error: "+err.Error())
	}

	return helper.Success(c, "checkout created", fiber.Map{
		"order_id":     orderID,
		"token":        token,
		"redirect_url": redirectURL,
		"gross_amount": breakdown.TotalBalance,
		"item_count":   len(items),
	})
}
