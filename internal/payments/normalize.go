package payments

import (
	"strings"

	"github.com/mateoreynoso/tripline-backend/pkg/enums"
)

// NormalizeGatewayStatus maps Square payment lifecycle states onto the
// engine's four-value vocabulary. Unknown states map to pending so the
// webhook stream can settle them later.
func NormalizeGatewayStatus(raw string) enums.PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "COMPLETED":
		return enums.PaymentStatusPaid
	case "FAILED", "CANCELED":
		return enums.PaymentStatusFailed
	case "APPROVED", "PENDING", "":
		return enums.PaymentStatusPending
	default:
		return enums.PaymentStatusPending
	}
}

// NormalizeRefundStatus maps Square refund states; only a completed refund
// counts as refunded, everything else stays in flight.
func NormalizeRefundStatus(raw string) enums.PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "COMPLETED":
		return enums.PaymentStatusRefunded
	case "REJECTED", "FAILED":
		return enums.PaymentStatusPaid
	default:
		return enums.PaymentStatusPaid
	}
}
