package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — typed payment category
//
// The category used to live as a substring inside the free-text note
// ("Carry Forward Payment", "Fine Payment: ..."), which forced every reader
// to re-parse prose. The note survives for receipts; the category is what
// the balance calculator and payable lister filter on.
// =========================================================

type DepositCategory string

const (
	DepositCategoryCurrentFee   DepositCategory = "current_fee"
	DepositCategoryCarryForward DepositCategory = "carry_forward"
	DepositCategoryFinePayment  DepositCategory = "fine_payment"
)

// =========================================================
// MODEL — append-only payment ledger
//
// Rows are never mutated after creation. Corrections happen through
// offsetting entries or an explicit admin delete, which must bump the
// student's cache version.
// =========================================================

type FeeDeposit struct {
	FeeDepositID uuid.UUID `gorm:"column:fee_deposit_id;type:uuid;primaryKey" json:"fee_deposit_id"`

	FeeDepositStudentID uuid.UUID `gorm:"column:fee_deposit_student_id;type:uuid;not null;index" json:"fee_deposit_student_id"`

	// Set for current-fee payments only; carry-forward and fine entries have
	// no fee definition behind them.
	FeeDepositFeesTypeID *uuid.UUID `gorm:"column:fee_deposit_fees_type_id;type:uuid;index" json:"fee_deposit_fees_type_id"`

	// Set for fine payments only.
	FeeDepositFineID *uuid.UUID `gorm:"column:fee_deposit_fine_id;type:uuid;index" json:"fee_deposit_fine_id"`

	// Amount is always the undiscounted reference amount for audit;
	// PaidAmount is what actually changed hands.
	FeeDepositAmount     decimal.Decimal `gorm:"column:fee_deposit_amount;type:numeric(10,2);not null" json:"fee_deposit_amount"`
	FeeDepositDiscount   decimal.Decimal `gorm:"column:fee_deposit_discount;type:numeric(10,2);not null" json:"fee_deposit_discount"`
	FeeDepositPaidAmount decimal.Decimal `gorm:"column:fee_deposit_paid_amount;type:numeric(10,2);not null" json:"fee_deposit_paid_amount"`

	FeeDepositCategory DepositCategory `gorm:"column:fee_deposit_category;type:varchar(20);not null;index" json:"fee_deposit_category"`
	FeeDepositNote     string          `gorm:"column:fee_deposit_note;type:text" json:"fee_deposit_note"`

	// Groups every entry created by one payment submission.
	FeeDepositReceiptNo string `gorm:"column:fee_deposit_receipt_no;type:varchar(50);not null;index" json:"fee_deposit_receipt_no"`

	FeeDepositPaymentMode   string  `gorm:"column:fee_deposit_payment_mode;type:varchar(20);not null;default:'Cash'" json:"fee_deposit_payment_mode"`
	FeeDepositTransactionNo *string `gorm:"column:fee_deposit_transaction_no;type:varchar(80)" json:"fee_deposit_transaction_no,omitempty"`

	FeeDepositDepositedAt time.Time      `gorm:"column:fee_deposit_deposited_at;not null;index" json:"fee_deposit_deposited_at"`
	FeeDepositCreatedAt   time.Time      `gorm:"column:fee_deposit_created_at;not null" json:"fee_deposit_created_at"`
	FeeDepositDeletedAt   gorm.DeletedAt `gorm:"column:fee_deposit_deleted_at;index" json:"-"`
}

func (FeeDeposit) TableName() string {
	return "fee_deposits"
}

func (m *FeeDeposit) BeforeCreate(tx *gorm.DB) (err error) {
	if m.FeeDepositID == uuid.Nil {
		m.FeeDepositID = uuid.New()
	}
	now := time.Now()
	if m.FeeDepositDepositedAt.IsZero() {
		m.FeeDepositDepositedAt = now
	}
	if m.FeeDepositCreatedAt.IsZero() {
		m.FeeDepositCreatedAt = now
	}
	return m.validate()
}

func (m *FeeDeposit) validate() error {
	if len(strings.TrimSpace(m.FeeDepositReceiptNo)) < 5 {
		return errors.New("receipt number cannot be empty or too short")
	}
	if m.FeeDepositAmount.IsNegative() {
		return errors.New("amount cannot be negative")
	}
	if m.FeeDepositDiscount.IsNegative() {
		return errors.New("discount cannot be negative")
	}
	if m.FeeDepositPaidAmount.IsNegative() {
		return errors.New("paid amount cannot be negative")
	}
	switch m.FeeDepositCategory {
	case DepositCategoryCurrentFee, DepositCategoryCarryForward, DepositCategoryFinePayment:
	default:
		return errors.New("unknown deposit category")
	}
	return nil
}
