package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReceiptNo generates the batch receipt number: RCP + second-resolution
// timestamp + 8 hex chars. Collisions would need two receipts in the same
// second hitting the same uuid prefix.
func NewReceiptNo() string {
	ts := time.Now().Format("20060102150405")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return "RCP" + ts + suffix
}
