package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	depositModel "schoolku_backend/internals/features/finance/deposits/model"
	feesModel "schoolku_backend/internals/features/finance/fees/model"
	finesModel "schoolku_backend/internals/features/finance/fines/model"
	dto "schoolku_backend/internals/features/finance/reconcile/dto"
	studentModel "schoolku_backend/internals/features/school/students/model"
)

var proposedDiscountRate = decimal.New(5, -2) // 5%

// BalanceService is the single calculator for student balances and payable
// listings. It is constructed per bootstrap with its dependencies; nothing
// here is package-level state.
type BalanceService struct {
	DB    *gorm.DB
	Cache *BalanceCache
}

func NewBalanceService(db *gorm.DB, cache *BalanceCache) *BalanceService {
	return &BalanceService{DB: db, Cache: cache}
}

// =========================================================
// BALANCE CALCULATION
// =========================================================

// CalculateBalance computes the three sub-ledgers for one student. Read
// failures degrade the affected category to zero with a logged warning; the
// dashboards consuming this must always get a renderable breakdown.
func (s *BalanceService) CalculateBalance(ctx context.Context, studentID uuid.UUID) dto.BalanceBreakdown {
	if cached, ok := s.Cache.GetBreakdown(ctx, studentID); ok {
		return *cached
	}

	var b dto.BalanceBreakdown

	var student studentModel.Student
	if err := s.DB.WithContext(ctx).
		First(&student, "student_id = ?", studentID).Error; err != nil {
		log.Printf("[WARN] balance: student %s lookup failed: %v", studentID, err)
		return b
	}

	degraded := false
	if cb, err := s.currentSessionBalance(ctx, &student); err != nil {
		log.Printf("[WARN] balance: current session degraded for %s: %v", studentID, err)
		degraded = true
	} else {
		b.CurrentSession = cb
	}
	if cb, err := s.carryForwardBalance(ctx, &student); err != nil {
		log.Printf("[WARN] balance: carry-forward degraded for %s: %v", studentID, err)
		degraded = true
	} else {
		b.CarryForward = cb
	}
	if fb, err := s.fineBalance(ctx, &student); err != nil {
		log.Printf("[WARN] balance: fines degraded for %s: %v", studentID, err)
		degraded = true
	} else {
		b.Fines = fb
	}
	b.RecalcTotal()

	// A breakdown with a zeroed-out category must not be pinned for the TTL;
	// the next read retries live.
	if !degraded {
		s.Cache.SetBreakdown(ctx, studentID, b)
	}
	return b
}

func (s *BalanceService) currentSessionBalance(ctx context.Context, student *studentModel.Student) (dto.CategoryBalance, error) {
	var cb dto.CategoryBalance

	regular, transport, err := s.applicableFees(ctx, student)
	if err != nil {
		return dto.CategoryBalance{}, err
	}
	for _, fee := range regular {
		cb.TotalFees = cb.TotalFees.Add(fee.FeesTypeAmount)
	}
	for _, fee := range transport {
		cb.TotalFees = cb.TotalFees.Add(fee.FeesTypeAmount)
	}

	paid, discount, err := s.sumDeposits(ctx, student.StudentID, depositModel.DepositCategoryCurrentFee, nil)
	if err != nil {
		return dto.CategoryBalance{}, err
	}
	cb.Paid = paid
	cb.Discount = discount
	cb.Balance = clampZero(cb.TotalFees.Sub(paid).Sub(discount))
	return cb, nil
}

func (s *BalanceService) carryForwardBalance(ctx context.Context, student *studentModel.Student) (dto.CategoryBalance, error) {
	cb := dto.CategoryBalance{TotalFees: student.StudentDueAmount}

	paid, discount, err := s.sumDeposits(ctx, student.StudentID, depositModel.DepositCategoryCarryForward, nil)
	if err != nil {
		return dto.CategoryBalance{}, err
	}
	cb.Paid = paid
	cb.Discount = discount
	cb.Balance = clampZero(cb.TotalFees.Sub(paid).Sub(discount))
	return cb, nil
}

func (s *BalanceService) fineBalance(ctx context.Context, student *studentModel.Student) (dto.FineBalance, error) {
	var fb dto.FineBalance

	assignments, err := s.relevantFineAssignments(ctx, student, false)
	if err != nil {
		return dto.FineBalance{}, err
	}
	for _, fs := range assignments {
		if fs.FineStudentFine == nil {
			continue
		}
		if fs.FineStudentIsPaid {
			fb.Paid = fb.Paid.Add(fs.FineStudentFine.FineAmount)
		} else {
			fb.Unpaid = fb.Unpaid.Add(fs.FineStudentFine.FineAmount)
		}
	}
	return fb, nil
}

// =========================================================
// PAYABLE LISTING
// =========================================================

// ListPayable builds the prioritized flat list of everything the student
// still owes: unpaid fines first, then carry-forward, then current-session
// fees in catalog order, then transport fees. Within a tier, enumeration
// order is preserved. An empty list means nothing is owed.
func (s *BalanceService) ListPayable(ctx context.Context, studentID uuid.UUID, discountEnabled bool) ([]dto.PayableItem, error) {
	var student studentModel.Student
	if err := s.DB.WithContext(ctx).
		First(&student, "student_id = ?", studentID).Error; err != nil {
		return nil, err
	}

	items := make([]dto.PayableItem, 0, 8)

	// Priority 0: unpaid fines, always fully due and never discounted.
	assignments, err := s.relevantFineAssignments(ctx, &student, true)
	if err != nil {
		log.Printf("[WARN] payable: fine lookup failed for %s: %v", studentID, err)
	}
	for _, fs := range assignments {
		fine := fs.FineStudentFine
		if fine == nil {
			continue
		}
		name := "Fine"
		if fine.FineFineType != nil {
			name = "Fine: " + fine.FineFineType.FineTypeName
		}
		items = append(items, dto.PayableItem{
			ID:          "fine_" + fine.FineID.String(),
			Type:        dto.PayableItemTypeFine,
			DisplayName: name,
			Amount:      fine.FineAmount,
			Discount:    decimal.Zero,
			Payable:     fine.FineAmount,
			IsOverdue:   true,
		})
	}

	// Priority 1: carry-forward remainder, never discounted.
	cf, err := s.carryForwardBalance(ctx, &student)
	if err != nil {
		log.Printf("[WARN] payable: carry-forward lookup failed for %s: %v", studentID, err)
	}
	if cf.Balance.IsPositive() {
		items = append(items, dto.PayableItem{
			ID:           dto.CarryForwardItemID,
			Type:         dto.PayableItemTypeCarryForward,
			DisplayName:  "Previous Session Balance",
			Amount:       cf.TotalFees,
			PaidAmount:   cf.Paid,
			DiscountPaid: cf.Discount,
			Discount:     decimal.Zero,
			Payable:      cf.Balance,
			IsOverdue:    true,
		})
	}

	// Priority 2 and 3: current-session fee lines, then transport lines.
	// Payments are matched to a line by fee type id, not display name.
	regular, transport, err := s.applicableFees(ctx, &student)
	if err != nil {
		log.Printf("[WARN] payable: fee catalog lookup failed for %s: %v", studentID, err)
		return items, nil
	}
	perFee, err := s.depositsByFeeType(ctx, student.StudentID)
	if err != nil {
		log.Printf("[WARN] payable: deposit lookup failed for %s: %v", studentID, err)
		return items, nil
	}
	appendFeeItems(&items, regular, perFee, dto.PayableItemTypeFee, discountEnabled)
	appendFeeItems(&items, transport, perFee, dto.PayableItemTypeTransport, discountEnabled)

	return items, nil
}

type feeTotals struct {
	paid     decimal.Decimal
	discount decimal.Decimal
}

func appendFeeItems(items *[]dto.PayableItem, fees []feesModel.FeesType, perFee map[uuid.UUID]feeTotals, typ dto.PayableItemType, discountEnabled bool) {
	for _, fee := range fees {
		totals := perFee[fee.FeesTypeID]
		remaining := clampZero(fee.FeesTypeAmount.Sub(totals.paid).Sub(totals.discount))
		if !remaining.IsPositive() {
			continue
		}

		discount := decimal.Zero
		if discountEnabled {
			discount = remaining.Mul(proposedDiscountRate).Round(2)
		}

		*items = append(*items, dto.PayableItem{
			ID:           fee.FeesTypeID.String(),
			Type:         typ,
			DisplayName:  fee.DisplayName(),
			Amount:       fee.FeesTypeAmount,
			PaidAmount:   totals.paid,
			DiscountPaid: totals.discount,
			Discount:     discount,
			Payable:      remaining.Sub(discount),
		})
	}
}

// =========================================================
// SHARED LOOKUPS
// =========================================================

// applicableFees resolves the fee definitions that apply to the student:
// non-transport fees whose class section is NULL (school-wide) or matches the
// student's class, plus transport fees for the assigned stoppage, if any.
func (s *BalanceService) applicableFees(ctx context.Context, student *studentModel.Student) (regular, transport []feesModel.FeesType, err error) {
	q := s.DB.WithContext(ctx).
		Preload("FeesTypeGroup").
		Joins("JOIN fees_groups ON fees_groups.fees_group_id = fees_types.fees_type_group_id AND fees_groups.fees_group_deleted_at IS NULL").
		Where("fees_groups.fees_group_type <> ?", feesModel.FeesGroupTypeTransport).
		Order("fees_types.fees_type_created_at")
	if student.StudentClassSectionID != nil {
		q = q.Where("fees_types.fees_type_class_section_id IS NULL OR fees_types.fees_type_class_section_id = ?", *student.StudentClassSectionID)
	} else {
		q = q.Where("fees_types.fees_type_class_section_id IS NULL")
	}
	if err = q.Find(&regular).Error; err != nil {
		return nil, nil, err
	}

	var assignment studentModel.TransportAssignment
	aerr := s.DB.WithContext(ctx).
		First(&assignment, "transport_assignment_student_id = ?", student.StudentID).Error
	if aerr != nil {
		// No transport assignment is the common case, not an error.
		return regular, nil, nil
	}

	if err = s.DB.WithContext(ctx).
		Preload("FeesTypeGroup").
		Joins("JOIN fees_groups ON fees_groups.fees_group_id = fees_types.fees_type_group_id AND fees_groups.fees_group_deleted_at IS NULL").
		Where("fees_groups.fees_group_type = ?", feesModel.FeesGroupTypeTransport).
		Where("fees_types.fees_type_stoppage_id = ?", assignment.TransportAssignmentStoppageID).
		Order("fees_types.fees_type_created_at").
		Find(&transport).Error; err != nil {
		return regular, nil, err
	}
	return regular, transport, nil
}

// relevantFineAssignments returns the student's fine assignments whose scope
// still applies: individual and school-wide fines always, class fines only
// when the fine's class section id matches the student's current one.
func (s *BalanceService) relevantFineAssignments(ctx context.Context, student *studentModel.Student, unpaidOnly bool) ([]finesModel.FineStudent, error) {
	q := s.DB.WithContext(ctx).
		Preload("FineStudentFine").
		Preload("FineStudentFine.FineFineType").
		Where("fine_student_student_id = ?", student.StudentID).
		Order("fine_student_created_at")
	if unpaidOnly {
		q = q.Where("fine_student_is_paid = ?", false)
	}

	var all []finesModel.FineStudent
	if err := q.Find(&all).Error; err != nil {
		return nil, err
	}

	relevant := all[:0]
	for _, fs := range all {
		fine := fs.FineStudentFine
		if fine == nil {
			continue
		}
		switch fine.FineScope {
		case finesModel.FineScopeIndividual, finesModel.FineScopeAll:
			relevant = append(relevant, fs)
		case finesModel.FineScopeClass:
			if fine.FineClassSectionID != nil && student.StudentClassSectionID != nil &&
				*fine.FineClassSectionID == *student.StudentClassSectionID {
				relevant = append(relevant, fs)
			}
		}
	}
	return relevant, nil
}

func (s *BalanceService) sumDeposits(ctx context.Context, studentID uuid.UUID, category depositModel.DepositCategory, feesTypeID *uuid.UUID) (paid, discount decimal.Decimal, err error) {
	q := s.DB.WithContext(ctx).
		Where("fee_deposit_student_id = ? AND fee_deposit_category = ?", studentID, category)
	if feesTypeID != nil {
		q = q.Where("fee_deposit_fees_type_id = ?", *feesTypeID)
	}

	var rows []depositModel.FeeDeposit
	if err = q.Find(&rows).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	for _, row := range rows {
		paid = paid.Add(row.FeeDepositPaidAmount)
		discount = discount.Add(row.FeeDepositDiscount)
	}
	return paid, discount, nil
}

func (s *BalanceService) depositsByFeeType(ctx context.Context, studentID uuid.UUID) (map[uuid.UUID]feeTotals, error) {
	var rows []depositModel.FeeDeposit
	if err := s.DB.WithContext(ctx).
		Where("fee_deposit_student_id = ? AND fee_deposit_category = ?", studentID, depositModel.DepositCategoryCurrentFee).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	perFee := make(map[uuid.UUID]feeTotals, len(rows))
	for _, row := range rows {
		if row.FeeDepositFeesTypeID == nil {
			continue
		}
		t := perFee[*row.FeeDepositFeesTypeID]
		t.paid = t.paid.Add(row.FeeDepositPaidAmount)
		t.discount = t.discount.Add(row.FeeDepositDiscount)
		perFee[*row.FeeDepositFeesTypeID] = t
	}
	return perFee, nil
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
