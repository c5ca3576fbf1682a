package billing

import "github.com/jobbook/backend/internal/domain/shared/valueobject"

// Balance is what is still owed on a record
type Balance struct {
	Total       valueobject.Money `json:"total"`
	Paid        valueobject.Money `json:"paid"`
	Outstanding valueobject.Money `json:"outstanding"`
	// Overpaid is true when Paid exceeds Total. Outstanding is then negative;
	// it is reported as-is rather than clamped.
	Overpaid bool `json:"overpaid"`
}

// ComputeBalance is the one balance formula: total - paid. total must already
// have the discount folded in (see CalculateTotals).
func ComputeBalance(total, paid valueobject.Money) Balance {
	outstanding := total.Sub(paid)
	return Balance{
		Total:       total,
		Paid:        paid,
		Outstanding: outstanding,
		Overpaid:    outstanding.IsNegative(),
	}
}

// DeriveStatus computes the order status from payment statuses and the paid
// amount:
//   - COMPLETED when there is at least one status and all are PAID
//   - DOWNPAYMENT when any status is PAID, DOWNPAYMENT or CHEQUE, or paid > 0
//   - PENDING otherwise
//
// CANCELLED is never derived; it is set explicitly on the record.
func DeriveStatus(statuses []PaymentStatus, paid valueobject.Money) DerivedStatus {
	if len(statuses) > 0 {
		allPaid := true
		for _, s := range statuses {
			if s != PaymentStatusPaid {
				allPaid = false
				break
			}
		}
		if allPaid {
			return StatusCompleted
		}
	}

	if paid.IsPositive() {
		return StatusDownpayment
	}
	for _, s := range statuses {
		if s.countsAsPayment() {
			return StatusDownpayment
		}
	}
	return StatusPending
}
