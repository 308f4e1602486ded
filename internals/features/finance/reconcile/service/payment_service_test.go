package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	depositModel "schoolku_backend/internals/features/finance/deposits/model"
	feesModel "schoolku_backend/internals/features/finance/fees/model"
	finesModel "schoolku_backend/internals/features/finance/fines/model"
	dto "schoolku_backend/internals/features/finance/reconcile/dto"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApplyPayment_CarryForward(t *testing.T) {
	// GIVEN a student owing 400 from the previous session
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	balances := NewBalanceService(db, nil)
	student := seedStudent(t, db, "400", nil)

	// WHEN 150 of it is paid
	result, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: dto.CarryForwardItemID, Amount: dec("150")}},
	})
	require.NoError(t, err)

	// THEN one ledger row exists and the remainder is 250
	require.Equal(t, 1, result.DepositsCreated)
	requireDecimalEqual(t, "150", result.TotalPaid)

	var dep depositModel.FeeDeposit
	require.NoError(t, db.First(&dep, "fee_deposit_student_id = ?", student.StudentID).Error)
	require.Equal(t, depositModel.DepositCategoryCarryForward, dep.FeeDepositCategory)
	require.Equal(t, "Carry Forward Payment", dep.FeeDepositNote)
	require.Equal(t, result.ReceiptNo, dep.FeeDepositReceiptNo)
	require.Equal(t, "Cash", dep.FeeDepositPaymentMode)

	b := balances.CalculateBalance(context.Background(), student.StudentID)
	requireDecimalEqual(t, "250", b.CarryForward.Balance)
}

func TestApplyPayment_OverpaymentRejectedWithMax(t *testing.T) {
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	student := seedStudent(t, db, "400", nil)

	_, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: dto.CarryForwardItemID, Amount: dec("500")}},
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotNil(t, ve.Max)
	requireDecimalEqual(t, "400", *ve.Max)
	require.Contains(t, ve.Error(), "Previous Session Balance")
	require.Contains(t, ve.Error(), "400.00")

	require.EqualValues(t, 0, countDeposits(t, db, student.StudentID))
}

func TestApplyPayment_BatchIsAtomic(t *testing.T) {
	// GIVEN a valid fee payment batched with an invalid carry-forward one
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	student := seedStudent(t, db, "100", nil)
	group := seedFeesGroup(t, db, feesModel.FeesGroupTypeTuition, feesModel.FeesGroupBasisGeneral)
	fee := seedFee(t, db, group, "1000", "Jul", nil, nil, time.Now())

	// WHEN
	_, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{
			{ID: fee.FeesTypeID.String(), Amount: dec("500")},
			{ID: dto.CarryForwardItemID, Amount: dec("101")},
		},
	})

	// THEN nothing at all was written
	require.Error(t, err)
	require.EqualValues(t, 0, countDeposits(t, db, student.StudentID))
}

func TestApplyPayment_FeeWithDiscount(t *testing.T) {
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	balances := NewBalanceService(db, nil)
	student := seedStudent(t, db, "0", nil)
	group := seedFeesGroup(t, db, feesModel.FeesGroupTypeTuition, feesModel.FeesGroupBasisGeneral)
	fee := seedFee(t, db, group, "1000", "Aug", nil, nil, time.Now())

	result, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: fee.FeesTypeID.String(), Amount: dec("1000"), Discount: dec("50")}},
	})
	require.NoError(t, err)
	requireDecimalEqual(t, "950", result.TotalPaid)

	var dep depositModel.FeeDeposit
	require.NoError(t, db.First(&dep, "fee_deposit_student_id = ?", student.StudentID).Error)
	requireDecimalEqual(t, "950", dep.FeeDepositPaidAmount)
	requireDecimalEqual(t, "50", dep.FeeDepositDiscount)
	require.NotNil(t, dep.FeeDepositFeesTypeID)
	require.Equal(t, fee.FeesTypeID, *dep.FeeDepositFeesTypeID)

	// Paid amount plus discount settles the fee entirely.
	b := balances.CalculateBalance(context.Background(), student.StudentID)
	requireDecimalEqual(t, "0", b.CurrentSession.Balance)
}

func TestApplyPayment_FullFinePaymentFlipsFlag(t *testing.T) {
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	student := seedStudent(t, db, "0", nil)
	fine, assignment := seedFine(t, db, student, "75", "Late Fee", finesModel.FineScopeIndividual, nil, time.Now())

	result, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: "fine_" + fine.FineID.String(), Amount: dec("75")}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.DepositsCreated)

	var fs finesModel.FineStudent
	require.NoError(t, db.First(&fs, "fine_student_id = ?", assignment.FineStudentID).Error)
	require.True(t, fs.FineStudentIsPaid)
	require.NotNil(t, fs.FineStudentPaymentDate)

	var dep depositModel.FeeDeposit
	require.NoError(t, db.First(&dep, "fee_deposit_student_id = ?", student.StudentID).Error)
	require.Equal(t, "Fine Payment: Late Fee", dep.FeeDepositNote)

	// A paid fine cannot be paid again.
	_, err = payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: "fine_" + fine.FineID.String(), Amount: dec("75")}},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestApplyPayment_PartialFineKeepsUnpaidFlag(t *testing.T) {
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	student := seedStudent(t, db, "0", nil)
	fine, assignment := seedFine(t, db, student, "100", "Damage", finesModel.FineScopeIndividual, nil, time.Now())

	partial := dec("40")
	_, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: "fine_" + fine.FineID.String(), Amount: dec("100"), CustomPayable: &partial}},
	})
	require.NoError(t, err)

	var fs finesModel.FineStudent
	require.NoError(t, db.First(&fs, "fine_student_id = ?", assignment.FineStudentID).Error)
	require.False(t, fs.FineStudentIsPaid)
	require.Nil(t, fs.FineStudentPaymentDate)
}

func TestApplyPayment_RejectsNonPositiveAndUnknown(t *testing.T) {
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	student := seedStudent(t, db, "400", nil)

	_, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: dto.CarryForwardItemID, Amount: dec("0")}},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: "not-an-item", Amount: dec("10")}},
	})
	require.ErrorAs(t, err, &ve)

	require.EqualValues(t, 0, countDeposits(t, db, student.StudentID))
}

func TestApplyPayment_DuplicateFeeItemsShareTheMax(t *testing.T) {
	// GIVEN a single 300 fee
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	student := seedStudent(t, db, "0", nil)
	group := seedFeesGroup(t, db, feesModel.FeesGroupTypeTuition, feesModel.FeesGroupBasisGeneral)
	fee := seedFee(t, db, group, "300", "Sep", nil, nil, time.Now())

	// WHEN the same fee line is submitted twice in one batch
	_, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{
			{ID: fee.FeesTypeID.String(), Amount: dec("300")},
			{ID: fee.FeesTypeID.String(), Amount: dec("300")},
		},
	})

	// THEN the second line fails against the already-consumed maximum and
	// nothing is collected
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotNil(t, ve.Max)
	requireDecimalEqual(t, "0", *ve.Max)
	require.EqualValues(t, 0, countDeposits(t, db, student.StudentID))
}

func TestApplyPayment_DuplicateCarryForwardItemsShareTheMax(t *testing.T) {
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	balances := NewBalanceService(db, nil)
	student := seedStudent(t, db, "400", nil)

	// 250 + 250 against 400 owed must fail as a whole.
	_, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{
			{ID: dto.CarryForwardItemID, Amount: dec("250")},
			{ID: dto.CarryForwardItemID, Amount: dec("250")},
		},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotNil(t, ve.Max)
	requireDecimalEqual(t, "150", *ve.Max)
	require.EqualValues(t, 0, countDeposits(t, db, student.StudentID))

	// 250 + 150 fills the balance exactly.
	result, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{
			{ID: dto.CarryForwardItemID, Amount: dec("250")},
			{ID: dto.CarryForwardItemID, Amount: dec("150")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.DepositsCreated)

	b := balances.CalculateBalance(context.Background(), student.StudentID)
	requireDecimalEqual(t, "0", b.CarryForward.Balance)
}

func TestApplyPayment_SplitFinePaymentInOneBatchFlipsFlag(t *testing.T) {
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	student := seedStudent(t, db, "0", nil)
	fine, assignment := seedFine(t, db, student, "100", "Damage", finesModel.FineScopeIndividual, nil, time.Now())

	half := dec("50")
	_, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{
			{ID: "fine_" + fine.FineID.String(), Amount: dec("100"), CustomPayable: &half},
			{ID: "fine_" + fine.FineID.String(), Amount: dec("100"), CustomPayable: &half},
		},
	})
	require.NoError(t, err)

	var fs finesModel.FineStudent
	require.NoError(t, db.First(&fs, "fine_student_id = ?", assignment.FineStudentID).Error)
	require.True(t, fs.FineStudentIsPaid)
}

func TestApplyPayment_NegativeDiscountRejected(t *testing.T) {
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	student := seedStudent(t, db, "0", nil)
	group := seedFeesGroup(t, db, feesModel.FeesGroupTypeTuition, feesModel.FeesGroupBasisGeneral)
	fee := seedFee(t, db, group, "300", "Oct", nil, nil, time.Now())

	// A negative discount would inflate the effective payment past the fee.
	_, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: fee.FeesTypeID.String(), Amount: dec("300"), Discount: dec("-50")}},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Error(), "discount")
	require.EqualValues(t, 0, countDeposits(t, db, student.StudentID))
}

func TestDeleteDeposit_RevertsFinePayment(t *testing.T) {
	// GIVEN a fully paid fine
	db := newTestDB(t)
	payments := NewPaymentService(db, nil)
	student := seedStudent(t, db, "0", nil)
	fine, assignment := seedFine(t, db, student, "75", "Library", finesModel.FineScopeIndividual, nil, time.Now())

	_, err := payments.ApplyPayment(context.Background(), student.StudentID, dto.ApplyPaymentRequest{
		Items: []dto.SelectedItem{{ID: "fine_" + fine.FineID.String(), Amount: dec("75")}},
	})
	require.NoError(t, err)

	var dep depositModel.FeeDeposit
	require.NoError(t, db.First(&dep, "fee_deposit_student_id = ?", student.StudentID).Error)

	// WHEN the deposit is removed as an admin correction
	require.NoError(t, payments.DeleteDeposit(context.Background(), dep.FeeDepositID))

	// THEN the fine is owed again
	var fs finesModel.FineStudent
	require.NoError(t, db.First(&fs, "fine_student_id = ?", assignment.FineStudentID).Error)
	require.False(t, fs.FineStudentIsPaid)
	require.Nil(t, fs.FineStudentPaymentDate)
	require.EqualValues(t, 0, countDeposits(t, db, student.StudentID))
}
