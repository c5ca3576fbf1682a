package billing

// PaymentStatus is the payment state of a single line item (job orders) or of a
// whole invoice.
type PaymentStatus string

const (
	PaymentStatusUnpaid      PaymentStatus = "UNPAID"
	PaymentStatusDownpayment PaymentStatus = "DOWNPAYMENT"
	PaymentStatusCheque      PaymentStatus = "CHEQUE"
	PaymentStatusPaid        PaymentStatus = "PAID"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusDownpayment, PaymentStatusCheque, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Rank orders statuses along Unpaid -> Downpayment/Cheque -> Paid.
func (s PaymentStatus) Rank() int {
	switch s {
	case PaymentStatusPaid:
		return 2
	case PaymentStatusDownpayment, PaymentStatusCheque:
		return 1
	default:
		return 0
	}
}

// IsRegressionTo reports whether moving to target goes backwards, e.g. a
// payment reversal from PAID to UNPAID. Such moves are allowed but audited.
func (s PaymentStatus) IsRegressionTo(target PaymentStatus) bool {
	return target.Rank() < s.Rank()
}

// countsAsPayment is true for any status that means money has changed hands.
func (s PaymentStatus) countsAsPayment() bool {
	return s.Rank() > 0
}

// DerivedStatus is the order-level status computed from payments.
type DerivedStatus string

const (
	StatusPending     DerivedStatus = "PENDING"
	StatusDownpayment DerivedStatus = "DOWNPAYMENT"
	StatusCompleted   DerivedStatus = "COMPLETED"
	StatusCancelled   DerivedStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DerivedStatus
func (s DerivedStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusDownpayment, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DerivedStatus
func (s DerivedStatus) String() string {
	return string(s)
}
