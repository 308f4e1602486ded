package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	depositModel "schoolku_backend/internals/features/finance/deposits/model"
	feesModel "schoolku_backend/internals/features/finance/fees/model"
	finesModel "schoolku_backend/internals/features/finance/fines/model"
	dto "schoolku_backend/internals/features/finance/reconcile/dto"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

// ValidationError rejects one offending item of a payment batch. The whole
// batch is discarded; the caller fixes the input and resubmits.
type ValidationError struct {
	Item   string
	Max    *decimal.Decimal
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Max != nil {
		return fmt.Sprintf("payment for %q exceeds maximum allowed %s", e.Item, e.Max.StringFixed(2))
	}
	return fmt.Sprintf("payment for %q rejected: %s", e.Item, e.Reason)
}

// PaymentService applies payment batches against the deposit ledger.
type PaymentService struct {
	DB    *gorm.DB
	Cache *BalanceCache
}

func NewPaymentService(db *gorm.DB, cache *BalanceCache) *PaymentService {
	return &PaymentService{DB: db, Cache: cache}
}

// ApplyPayment validates and persists one payment batch atomically. Maximum
// payables are re-derived from the live ledger inside the transaction — the
// client-visible listing is advisory only — and the student row is locked so
// two concurrent submissions cannot both pass the maximum check. Any invalid
// item aborts the whole batch.
func (s *PaymentService) ApplyPayment(ctx context.Context, studentID uuid.UUID, req dto.ApplyPaymentRequest) (*dto.PaymentResult, error) {
	if len(req.Items) == 0 {
		return nil, &ValidationError{Item: "items", Reason: "at least one item is required"}
	}

	mode := req.PaymentMode
	if mode == "" {
		mode = "Cash"
	}

	result := &dto.PaymentResult{ReceiptNo: NewReceiptNo()}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		studentQ := tx
		// Row lock serializes concurrent submissions for the same student.
		// SQLite (tests) has no FOR UPDATE; its writer lock covers us there.
		if tx.Dialector.Name() == "postgres" {
			studentQ = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var student studentModel.Student
		if err := studentQ.First(&student, "student_id = ?", studentID).Error; err != nil {
			return err
		}

		balances := NewBalanceService(tx, nil)

		deposits := make([]depositModel.FeeDeposit, 0, len(req.Items))
		finesPaid := make([]uuid.UUID, 0, 2)
		now := time.Now()

		// Rows built in this loop are not visible to the ledger reads until
		// the bulk insert below, so duplicate item ids must share one maximum.
		pendingUsed := make(map[string]decimal.Decimal, len(req.Items))

		for _, item := range req.Items {
			if item.Discount.IsNegative() {
				return &ValidationError{Item: item.ID, Reason: "discount must not be negative"}
			}

			effective := item.Amount.Sub(item.Discount)
			if item.CustomPayable != nil {
				effective = *item.CustomPayable
			}

			deposit := depositModel.FeeDeposit{
				FeeDepositStudentID:     student.StudentID,
				FeeDepositAmount:        item.Amount,
				FeeDepositDiscount:      item.Discount,
				FeeDepositPaidAmount:    effective,
				FeeDepositReceiptNo:     result.ReceiptNo,
				FeeDepositPaymentMode:   mode,
				FeeDepositTransactionNo: req.TransactionNo,
				FeeDepositDepositedAt:   now,
			}

			var (
				displayName string
				maxPayable  decimal.Decimal
			)

			switch {
			case item.ID == dto.CarryForwardItemID:
				cf, err := balances.carryForwardBalance(ctx, &student)
				if err != nil {
					return err
				}
				displayName = "Previous Session Balance"
				maxPayable = cf.Balance
				deposit.FeeDepositCategory = depositModel.DepositCategoryCarryForward
				deposit.FeeDepositNote = "Carry Forward Payment"

			case strings.HasPrefix(item.ID, "fine_"):
				fineID, err := uuid.Parse(strings.TrimPrefix(item.ID, "fine_"))
				if err != nil {
					return &ValidationError{Item: item.ID, Reason: "unknown item id"}
				}
				var fs finesModel.FineStudent
				if err := tx.
					Preload("FineStudentFine").
					Preload("FineStudentFine.FineFineType").
					First(&fs, "fine_student_fine_id = ? AND fine_student_student_id = ?", fineID, student.StudentID).Error; err != nil {
					return fmt.Errorf("fine assignment lookup: %w", err)
				}
				fine := fs.FineStudentFine
				if fine == nil {
					return fmt.Errorf("fine %s vanished mid-transaction", fineID)
				}
				displayName = "Fine"
				if fine.FineFineType != nil {
					displayName = "Fine: " + fine.FineFineType.FineTypeName
				}
				if fs.FineStudentIsPaid {
					maxPayable = decimal.Zero
				} else {
					maxPayable = fine.FineAmount
				}
				deposit.FeeDepositCategory = depositModel.DepositCategoryFinePayment
				deposit.FeeDepositFineID = &fine.FineID
				noteName := "Fine"
				if fine.FineFineType != nil {
					noteName = fine.FineFineType.FineTypeName
				}
				deposit.FeeDepositNote = "Fine Payment: " + noteName

				// Covering the full fine amount flips the paid flag, also when
				// partial rows of the same batch add up to it.
				if !fs.FineStudentIsPaid && pendingUsed[item.ID].Add(effective).GreaterThanOrEqual(fine.FineAmount) {
					finesPaid = append(finesPaid, fs.FineStudentID)
				}

			default:
				feesTypeID, err := uuid.Parse(item.ID)
				if err != nil {
					return &ValidationError{Item: item.ID, Reason: "unknown item id"}
				}
				var fee feesModel.FeesType
				if err := tx.
					Preload("FeesTypeGroup").
					First(&fee, "fees_type_id = ?", feesTypeID).Error; err != nil {
					return fmt.Errorf("fee definition lookup: %w", err)
				}
				paid, discountPaid, err := balances.sumDeposits(ctx, student.StudentID, depositModel.DepositCategoryCurrentFee, &feesTypeID)
				if err != nil {
					return err
				}
				displayName = fee.DisplayName()
				maxPayable = clampZero(fee.FeesTypeAmount.Sub(paid).Sub(discountPaid))
				deposit.FeeDepositCategory = depositModel.DepositCategoryCurrentFee
				deposit.FeeDepositFeesTypeID = &fee.FeesTypeID
				deposit.FeeDepositNote = "Fee Payment: " + displayName
			}

			if !effective.IsPositive() {
				return &ValidationError{Item: displayName, Reason: "payable must be greater than zero"}
			}
			available := clampZero(maxPayable.Sub(pendingUsed[item.ID]))
			if effective.GreaterThan(available) {
				m := available
				return &ValidationError{Item: displayName, Max: &m}
			}
			pendingUsed[item.ID] = pendingUsed[item.ID].Add(effective).Add(item.Discount)

			deposits = append(deposits, deposit)
			result.TotalPaid = result.TotalPaid.Add(effective)
		}

		if err := tx.Create(&deposits).Error; err != nil {
			return err
		}
		for _, fsID := range finesPaid {
			if err := tx.Model(&finesModel.FineStudent{}).
				Where("fine_student_id = ?", fsID).
				Updates(map[string]interface{}{
					"fine_student_is_paid":      true,
					"fine_student_payment_date": now,
					"fine_student_updated_at":   now,
				}).Error; err != nil {
				return err
			}
		}

		result.DepositsCreated = len(deposits)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Bump(ctx, studentID)
	return result, nil
}

// DeleteDeposit removes a ledger entry (admin correction) and invalidates the
// student's cached balances. If the entry was the full payment of a fine, the
// fine goes back to unpaid.
func (s *PaymentService) DeleteDeposit(ctx context.Context, depositID uuid.UUID) error {
	var dep depositModel.FeeDeposit
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dep, "fee_deposit_id = ?", depositID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&dep).Error; err != nil {
			return err
		}
		if dep.FeeDepositCategory == depositModel.DepositCategoryFinePayment && dep.FeeDepositFineID != nil {
			now := time.Now()
			if err := tx.Model(&finesModel.FineStudent{}).
				Where("fine_student_fine_id = ? AND fine_student_student_id = ?", *dep.FeeDepositFineID, dep.FeeDepositStudentID).
				Updates(map[string]interface{}{
					"fine_student_is_paid":      false,
					"fine_student_payment_date": nil,
					"fine_student_updated_at":   now,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Cache.Bump(ctx, dep.FeeDepositStudentID)
	return nil
}
