package service

import (
	"errors"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"

	"github.com/google/uuid"
)

/* =========================================================
   Midtrans Client
========================================================= */

var snapClient snap.Client
var snapReady bool

// InitMidtrans must be called once at bootstrap. An empty server key leaves
// online checkout disabled; cash payments are unaffected.
func InitMidtrans(serverKey string, useProduction bool) {
	if strings.TrimSpace(serverKey) == "" {
		return
	}
	if useProduction {
		snapClient.New(serverKey, midtrans.Production)
	} else {
		snapClient.New(serverKey, midtrans.Sandbox)
	}
	snapReady = true
}

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

/* =========================================================
   Snap token for a fee checkout
========================================================= */

// GenerateSnapToken creates a gateway transaction for the given gross amount
// and returns (token, redirectURL). The order id becomes the transaction
// reference the caller passes back into the payment applier after the
// gateway settles.
func GenerateSnapToken(orderID string, gross decimal.Decimal, cust CustomerInput) (string, string, error) {
	if !snapReady {
		return "", "", errors.New("midtrans is not configured")
	}
	if !gross.IsPositive() {
		return "", "", errors.New("checkout amount must be positive")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: gross.Round(0).IntPart(),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			LName: cust.LastName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
	}

	resp, err := snapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

// GenOrderID builds a prefixed order id for the gateway.
func GenOrderID(prefix string) string {
	now := time.Now().Format("20060102-150405")
	u := uuid.New().String()
	if len(u) > 8 {
		u = u[:8]
	}
	return prefix + "-" + now + "-" + strings.ToUpper(u)
}
