package dto

import (
	"github.com/shopspring/decimal"
)

////////////////////////////////////////////////////////////////////////////////
// PAYMENT APPLICATION — request/result of the payment applier
////////////////////////////////////////////////////////////////////////////////

type SelectedItem struct {
	// Item id as produced by the payable lister ("carry_forward",
	// "fine_<uuid>", or a fee type uuid).
	ID string `json:"id" validate:"required"`

	// Charged amount: the undiscounted reference amount for the ledger row.
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Discount decimal.Decimal `json:"discount"`

	// Optional partial-payment override. When set, this is what gets paid
	// instead of amount - discount.
	CustomPayable *decimal.Decimal `json:"custom_payable,omitempty"`
}

type ApplyPaymentRequest struct {
	Items         []SelectedItem `json:"items" validate:"required,min=1,dive"`
	PaymentMode   string         `json:"payment_mode" validate:"omitempty,max=20"`
	TransactionNo *string        `json:"transaction_no,omitempty" validate:"omitempty,max=80"`
}

type PaymentResult struct {
	ReceiptNo       string          `json:"receipt_no"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	DepositsCreated int             `json:"deposits_created"`
}
