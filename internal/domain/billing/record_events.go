package billing

import (
	"github.com/jobbook/backend/internal/domain/shared"
	"github.com/jobbook/backend/internal/domain/shared/valueobject"
)

const aggregateTypeRecord = "MonetaryRecord"

const (
	EventTypeRecordCreated        = "RecordCreated"
	EventTypePaymentStatusChanged = "PaymentStatusChanged"
	EventTypePaymentRecorded      = "PaymentRecorded"
	EventTypeRecordCancelled      = "RecordCancelled"
)

// RecordCreatedEvent is raised when a job order or invoice is created
type RecordCreatedEvent struct {
	shared.BaseDomainEvent
	Kind        RecordKind        `json:"kind"`
	Number      string            `json:"number"`
	ClientName  string            `json:"client_name"`
	TotalAmount valueobject.Money `json:"total_amount"`
}

// EventType returns the event type name
func (e *RecordCreatedEvent) EventType() string {
	return EventTypeRecordCreated
}

// NewRecordCreatedEvent creates a new RecordCreatedEvent
func NewRecordCreatedEvent(r *MonetaryRecord) *RecordCreatedEvent {
	return &RecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordCreated, aggregateTypeRecord, r.ID, r.OwnerID),
		Kind:            r.Kind,
		Number:          r.Number,
		ClientName:      r.ClientName,
		TotalAmount:     r.TotalAmount,
	}
}

// PaymentStatusChangedEvent is the audit trail for payment status edits. Item
// is -1 for an invoice's order-level status.
type PaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	Number     string        `json:"number"`
	Item       int           `json:"item"`
	From       PaymentStatus `json:"from"`
	To         PaymentStatus `json:"to"`
	Regression bool          `json:"regression"`
	NewStatus  DerivedStatus `json:"new_status"`
}

// EventType returns the event type name
func (e *PaymentStatusChangedEvent) EventType() string {
	return EventTypePaymentStatusChanged
}

// NewPaymentStatusChangedEvent creates a new PaymentStatusChangedEvent
func NewPaymentStatusChangedEvent(r *MonetaryRecord, item int, from, to PaymentStatus) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentStatusChanged, aggregateTypeRecord, r.ID, r.OwnerID),
		Number:          r.Number,
		Item:            item,
		From:            from,
		To:              to,
		Regression:      from.IsRegressionTo(to),
		NewStatus:       r.Status,
	}
}

// PaymentRecordedEvent is raised when a payment is added to a record
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Number      string            `json:"number"`
	Amount      valueobject.Money `json:"amount"`
	PaidAmount  valueobject.Money `json:"paid_amount"`
	Outstanding valueobject.Money `json:"outstanding"`
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return EventTypePaymentRecorded
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(r *MonetaryRecord, amount valueobject.Money) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, aggregateTypeRecord, r.ID, r.OwnerID),
		Number:          r.Number,
		Amount:          amount,
		PaidAmount:      r.PaidAmount,
		Outstanding:     r.Balance().Outstanding,
	}
}

// RecordCancelledEvent is raised when a record is cancelled
type RecordCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Reason string `json:"reason,omitempty"`
}

// EventType returns the event type name
func (e *RecordCancelledEvent) EventType() string {
	return EventTypeRecordCancelled
}

// NewRecordCancelledEvent creates a new RecordCancelledEvent
func NewRecordCancelledEvent(r *MonetaryRecord) *RecordCancelledEvent {
	return &RecordCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordCancelled, aggregateTypeRecord, r.ID, r.OwnerID),
		Number:          r.Number,
		Reason:          r.CancelReason,
	}
}

var _ shared.DomainEvent = (*RecordCreatedEvent)(nil)
