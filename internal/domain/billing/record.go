package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
)

// RecordKind distinguishes the two MonetaryRecord variants
type RecordKind string

const (
	// KindJobOrder tracks a payment status per line item
	KindJobOrder RecordKind = "JOB_ORDER"
	// KindInvoice tracks a single order-level payment status
	KindInvoice RecordKind = "INVOICE"
)

// IsValid checks if the kind is a valid RecordKind
func (k RecordKind) IsValid() bool {
	return k == KindJobOrder || k == KindInvoice
}

// String returns the string representation of RecordKind
func (k RecordKind) String() string {
	return string(k)
}

// Collection returns the storage collection name for the kind
func (k RecordKind) Collection() string {
	switch k {
	case KindJobOrder:
		return "job_orders"
	case KindInvoice:
		return "invoices"
	}
	return ""
}

const maxNumberLength = 50

// RecordInput carries the editable fields of a record, as captured by a form.
type RecordInput struct {
	ClientName    string
	Items         []LineItem
	Discount      *Adjustment
	Tax           *Adjustment
	PaidAmount    valueobject.Money
	PaymentStatus PaymentStatus // invoices only
	StartDate     *time.Time
	DueDate       *time.Time
	ChequeNumber  string
	ChequeDate    *time.Time
	Remark        string
}

// MonetaryRecord is a job order or an invoice. TotalAmount, DiscountAmount,
// TaxAmount and Status are derived by Recalculate and persisted alongside the
// inputs; Number never changes after creation.
type MonetaryRecord struct {
	shared.OwnedAggregateRoot
	Kind           RecordKind        `json:"kind"`
	Number         string            `json:"number"`
	ClientName     string            `json:"client_name"`
	Items          LineItems         `json:"items"`
	Discount       *Adjustment       `json:"discount,omitempty"`
	Tax            *Adjustment       `json:"tax,omitempty"`
	PaymentStatus  PaymentStatus     `json:"payment_status,omitempty"`
	PaidAmount     valueobject.Money `json:"paid_amount"`
	DiscountAmount valueobject.Money `json:"discount_amount"`
	TaxAmount      valueobject.Money `json:"tax_amount"`
	TotalAmount    valueobject.Money `json:"total_amount"`
	Status         DerivedStatus     `json:"status"`
	StartDate      *time.Time        `json:"start_date,omitempty"`
	DueDate        *time.Time        `json:"due_date,omitempty"`
	ChequeNumber   string            `json:"cheque_number,omitempty"`
	ChequeDate     *time.Time        `json:"cheque_date,omitempty"`
	Remark         string            `json:"remark,omitempty"`
	CancelledAt    *time.Time        `json:"cancelled_at,omitempty"`
	CancelReason   string            `json:"cancel_reason,omitempty"`
}

// NewMonetaryRecord creates a record with an already-assigned number and
// derives its totals and status.
func NewMonetaryRecord(kind RecordKind, ownerID uuid.UUID, number string, in RecordInput) (*MonetaryRecord, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Record kind %q is not valid", kind))
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Record number cannot be empty")
	}
	if len(number) > maxNumberLength {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Record number cannot exceed 50 characters")
	}

	r := &MonetaryRecord{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Kind:               kind,
		Number:             number,
	}
	if err := r.apply(in); err != nil {
		return nil, err
	}

	r.AddDomainEvent(NewRecordCreatedEvent(r))
	return r, nil
}

// Update replaces the editable fields. The number and the cancelled state are
// kept.
func (r *MonetaryRecord) Update(in RecordInput) error {
	if err := r.apply(in); err != nil {
		return err
	}
	r.Touch()
	return nil
}

func (r *MonetaryRecord) apply(in RecordInput) error {
	if in.ClientName == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}

	items := make(LineItems, len(in.Items))
	for i, item := range in.Items {
		if item.Status == "" {
			item.Status = PaymentStatusUnpaid
		}
		if !item.Status.IsValid() {
			return shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Item %d has invalid payment status %q", i, item.Status))
		}
		items[i] = item
	}

	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = PaymentStatusUnpaid
	}
	if !paymentStatus.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Payment status %q is not valid", paymentStatus))
	}
	if _, err := CalculateTotals(Subtotal(items), in.Discount, in.Tax); err != nil {
		return err
	}

	r.ClientName = in.ClientName
	r.Items = items
	r.Discount = in.Discount
	r.Tax = in.Tax
	r.PaymentStatus = paymentStatus
	r.PaidAmount = in.PaidAmount.Round()
	r.StartDate = in.StartDate
	r.DueDate = in.DueDate
	r.ChequeNumber = in.ChequeNumber
	r.ChequeDate = in.ChequeDate
	r.Remark = in.Remark

	return r.Recalculate()
}

// RecordDetails are the non-item fields editable on a record
type RecordDetails struct {
	ClientName   string
	Discount     *Adjustment
	Tax          *Adjustment
	StartDate    *time.Time
	DueDate      *time.Time
	ChequeNumber string
	ChequeDate   *time.Time
	Remark       string
}

// UpdateDetails edits everything except the items, the payment state and the
// number.
func (r *MonetaryRecord) UpdateDetails(d RecordDetails) error {
	in := r.input()
	in.ClientName = d.ClientName
	in.Discount = d.Discount
	in.Tax = d.Tax
	in.StartDate = d.StartDate
	in.DueDate = d.DueDate
	in.ChequeNumber = d.ChequeNumber
	in.ChequeDate = d.ChequeDate
	in.Remark = d.Remark
	return r.Update(in)
}

// ReplaceItems swaps the full item list and re-derives totals and status
func (r *MonetaryRecord) ReplaceItems(items []LineItem) error {
	in := r.input()
	in.Items = items
	return r.Update(in)
}

// SetPaidAmount overwrites the cumulative paid amount, e.g. when a payment
// entry is corrected. Amounts are kept to the cent.
func (r *MonetaryRecord) SetPaidAmount(paid valueobject.Money) error {
	if r.IsCancelled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change payments on a cancelled record")
	}
	if paid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	r.PaidAmount = paid.Round()
	if err := r.Recalculate(); err != nil {
		return err
	}
	r.Touch()
	return nil
}

// input returns the record's current editable state
func (r *MonetaryRecord) input() RecordInput {
	return RecordInput{
		ClientName:    r.ClientName,
		Items:         append([]LineItem(nil), r.Items...),
		Discount:      r.Discount,
		Tax:           r.Tax,
		PaidAmount:    r.PaidAmount,
		PaymentStatus: r.PaymentStatus,
		StartDate:     r.StartDate,
		DueDate:       r.DueDate,
		ChequeNumber:  r.ChequeNumber,
		ChequeDate:    r.ChequeDate,
		Remark:        r.Remark,
	}
}

// Totals recomputes the subtotal/discount/tax breakdown from the current inputs.
func (r *MonetaryRecord) Totals() (Totals, error) {
	return CalculateTotals(Subtotal(r.Items), r.Discount, r.Tax)
}

// Recalculate refreshes every derived field. It is the only place they are
// written.
func (r *MonetaryRecord) Recalculate() error {
	totals, err := r.Totals()
	if err != nil {
		return err
	}
	r.DiscountAmount = totals.DiscountAmount
	r.TaxAmount = totals.TaxAmount
	r.TotalAmount = totals.Total

	if r.IsCancelled() {
		r.Status = StatusCancelled
	} else {
		r.Status = DeriveStatus(r.paymentStatuses(), r.PaidAmount)
	}
	return nil
}

// paymentStatuses returns the statuses status derivation works from: the items'
// for a job order, the single order-level status for an invoice.
func (r *MonetaryRecord) paymentStatuses() []PaymentStatus {
	if r.Kind == KindInvoice {
		return []PaymentStatus{r.PaymentStatus}
	}
	return r.Items.Statuses()
}

// Balance returns the outstanding amount using the persisted total
func (r *MonetaryRecord) Balance() Balance {
	return ComputeBalance(r.TotalAmount, r.PaidAmount)
}

// SetItemStatus changes one job-order item's payment status. Any transition is
// accepted, including backwards ones; each change is recorded as an event.
func (r *MonetaryRecord) SetItemStatus(index int, status PaymentStatus) error {
	if r.Kind != KindJobOrder {
		return shared.NewDomainError("INVALID_STATE", "Only job orders track per-item payment status")
	}
	if index < 0 || index >= len(r.Items) {
		return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Item index %d is out of range", index))
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Payment status %q is not valid", status))
	}

	from := r.Items[index].EffectiveStatus()
	if from == status {
		return nil
	}
	r.Items[index].Status = status
	if err := r.Recalculate(); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewPaymentStatusChangedEvent(r, index, from, status))
	return nil
}

// SetPaymentStatus changes an invoice's order-level payment status
func (r *MonetaryRecord) SetPaymentStatus(status PaymentStatus) error {
	if r.Kind != KindInvoice {
		return shared.NewDomainError("INVALID_STATE", "Only invoices track an order-level payment status")
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Payment status %q is not valid", status))
	}

	from := r.PaymentStatus
	if from == status {
		return nil
	}
	r.PaymentStatus = status
	if err := r.Recalculate(); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewPaymentStatusChangedEvent(r, -1, from, status))
	return nil
}

// RecordPayment adds a payment to the paid amount. Paying more than the total
// is allowed; the balance then goes negative.
func (r *MonetaryRecord) RecordPayment(amount valueobject.Money) error {
	if r.IsCancelled() {
		return shared.NewDomainError("INVALID_STATE", "Cannot record a payment on a cancelled record")
	}
	amount = amount.Round()
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be at least one cent")
	}

	r.PaidAmount = r.PaidAmount.Add(amount)
	if err := r.Recalculate(); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewPaymentRecordedEvent(r, amount))
	return nil
}

// Cancel marks the record cancelled. It is the only user-set status.
func (r *MonetaryRecord) Cancel(reason string) error {
	if r.IsCancelled() {
		return shared.NewDomainError("INVALID_STATE", "Record is already cancelled")
	}

	now := time.Now()
	r.CancelledAt = &now
	r.CancelReason = reason
	r.Status = StatusCancelled
	r.Touch()
	r.AddDomainEvent(NewRecordCancelledEvent(r))
	return nil
}

// IsCancelled returns true once Cancel has been called
func (r *MonetaryRecord) IsCancelled() bool {
	return r.CancelledAt != nil || r.Status == StatusCancelled
}

// Warnings lists inconsistent-but-valid states worth logging. They never block
// an operation.
func (r *MonetaryRecord) Warnings() []Warning {
	var warnings []Warning
	if totals, err := r.Totals(); err == nil && totals.DiscountClamped {
		warnings = append(warnings, Warning{
			Code:    WarningDiscountClamped,
			Message: fmt.Sprintf("discount limited to subtotal %s", totals.Subtotal),
		})
	}
	if b := r.Balance(); b.Overpaid {
		warnings = append(warnings, Warning{
			Code:    WarningOverpaid,
			Message: fmt.Sprintf("paid %s exceeds total %s", b.Paid, b.Total),
		})
	}
	return warnings
}

// WarningCode identifies an inconsistent-state warning
type WarningCode string

const (
	WarningOverpaid         WarningCode = "OVERPAID"
	WarningDiscountClamped  WarningCode = "DISCOUNT_CLAMPED"
	WarningStatusRegression WarningCode = "STATUS_REGRESSION"
)

// Warning is a non-fatal observation about a record
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
