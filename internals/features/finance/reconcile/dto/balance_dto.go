package dto

import (
	"github.com/shopspring/decimal"
)

////////////////////////////////////////////////////////////////////////////////
// BALANCE BREAKDOWN — output of the balance calculator
////////////////////////////////////////////////////////////////////////////////

// CategoryBalance is one sub-ledger of the breakdown. Balance is already
// clamped at zero; TotalFees/Paid/Discount are the raw sums.
type CategoryBalance struct {
	TotalFees decimal.Decimal `json:"total_fees"`
	Paid      decimal.Decimal `json:"paid"`
	Discount  decimal.Decimal `json:"discount"`
	Balance   decimal.Decimal `json:"balance"`
}

type FineBalance struct {
	Paid   decimal.Decimal `json:"paid"`
	Unpaid decimal.Decimal `json:"unpaid"`
}

type BalanceBreakdown struct {
	CurrentSession CategoryBalance `json:"current_session"`
	CarryForward   CategoryBalance `json:"carry_forward"`
	Fines          FineBalance     `json:"fines"`

	// Sum of the three clamped balances (fines contribute their unpaid total).
	TotalBalance decimal.Decimal `json:"total_balance"`
}

func (b *BalanceBreakdown) RecalcTotal() {
	b.TotalBalance = b.CurrentSession.Balance.
		Add(b.CarryForward.Balance).
		Add(b.Fines.Unpaid)
}
