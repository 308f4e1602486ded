package dto

import (
	"github.com/shopspring/decimal"
)

////////////////////////////////////////////////////////////////////////////////
// PAYABLE ITEMS — output of the payable lister
////////////////////////////////////////////////////////////////////////////////

type PayableItemType string

const (
	PayableItemTypeFine         PayableItemType = "fine"
	PayableItemTypeCarryForward PayableItemType = "carry_forward"
	PayableItemTypeFee          PayableItemType = "fee"
	PayableItemTypeTransport    PayableItemType = "transport"
)

// Stable item id for the carry-forward line; fines use "fine_<uuid>" and fee
// lines use the fee type uuid itself.
const CarryForwardItemID = "carry_forward"

type PayableItem struct {
	ID          string          `json:"id"`
	Type        PayableItemType `json:"type"`
	DisplayName string          `json:"display_name"`

	// Original obligation amount; never changes as payments accrue.
	Amount decimal.Decimal `json:"amount"`

	PaidAmount   decimal.Decimal `json:"paid_amount"`
	DiscountPaid decimal.Decimal `json:"discount_paid"`

	// Discount proposed for this submission (5% toggle); zero for fines and
	// carry-forward, which are never discounted.
	Discount decimal.Decimal `json:"discount"`

	// Remaining balance minus the proposed discount: what the caller would
	// actually hand over.
	Payable decimal.Decimal `json:"payable"`

	IsOverdue bool `json:"is_overdue"`
}
