package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	model "schoolku_backend/internals/features/finance/deposits/model"
	svc "schoolku_backend/internals/features/finance/reconcile/service"
	helper "schoolku_backend/internals/helpers"
)

type DepositController struct {
	DB       *gorm.DB
	Payments *svc.PaymentService
}

func NewDepositController(db *gorm.DB, cache *svc.BalanceCache) *DepositController {
	return &DepositController{
		DB:       db,
		Payments: svc.NewPaymentService(db, cache),
	}
}

// GET /deposits/students/:student_id — newest first. The ledger is the
// source of truth for everything paid, so this doubles as the audit trail.
func (h *DepositController) ListByStudent(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("student_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}

	var deposits []model.FeeDeposit
	if err := h.DB.WithContext(c.UserContext()).
		Where("fee_deposit_student_id = ?", studentID).
		Order("fee_deposit_deposited_at DESC, fee_deposit_created_at DESC").
		Find(&deposits).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list deposits")
	}
	return helper.Success(c, "deposits listed", deposits)
}

// GET /deposits/receipts/:receipt_no — all rows created by one payment batch.
func (h *DepositController) ListByReceipt(c *fiber.Ctx) error {
	receiptNo := c.Params("receipt_no")
	if len(receiptNo) < 5 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid receipt number")
	}

	var deposits []model.FeeDeposit
	if err := h.DB.WithContext(c.UserContext()).
		Where("fee_deposit_receipt_no = ?", receiptNo).
		Order("fee_deposit_created_at ASC").
		Find(&deposits).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list deposits")
	}
	if len(deposits) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "receipt not found")
	}
	return helper.Success(c, "deposits listed", deposits)
}

// DELETE /deposits/:id — admin correction. A deleted fine deposit reverts the
// fine assignment to unpaid.
func (h *DepositController) Delete(c *fiber.Ctx) error {
	depositID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid deposit id")
	}

	if err := h.Payments.DeleteDeposit(c.UserContext(), depositID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "deposit not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete deposit")
	}
	return helper.Success(c, "deposit deleted", fiber.Map{"fee_deposit_id": depositID})
}
