package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LineItem is one billed line of a record. It is owned by its parent record.
type LineItem struct {
	Description string            `json:"description"`
	Quantity    decimal.Decimal   `json:"quantity"`
	UnitAmount  valueobject.Money `json:"unit_amount"`
	Status      PaymentStatus     `json:"status,omitempty"`
}

// NewLineItem creates an unpaid line item
func NewLineItem(description string, quantity decimal.Decimal, unitAmount valueobject.Money) LineItem {
	return LineItem{
		Description: description,
		Quantity:    quantity,
		UnitAmount:  unitAmount,
		Status:      PaymentStatusUnpaid,
	}
}

// Amount returns quantity x unit amount rounded to cents
func (i LineItem) Amount() valueobject.Money {
	return i.UnitAmount.Mul(i.Quantity).Round()
}

// EffectiveStatus returns the item's status, treating an unset status as UNPAID
func (i LineItem) EffectiveStatus() PaymentStatus {
	if i.Status == "" {
		return PaymentStatusUnpaid
	}
	return i.Status
}

// Subtotal folds line items into their sum. Inputs are assumed valid
// (quantity > 0, unit amount >= 0); the result does not depend on item order.
func Subtotal(items []LineItem) valueobject.Money {
	total := valueobject.Zero()
	for _, item := range items {
		total = total.Add(item.Amount())
	}
	return total
}

// LineItems is a slice of LineItem stored as a JSON column
type LineItems []LineItem

// Value implements driver.Valuer
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *LineItems) Scan(value any) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan LineItems: unsupported type")
	}

	if len(bytes) == 0 {
		*l = LineItems{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Statuses returns every item's payment status in order
func (l LineItems) Statuses() []PaymentStatus {
	statuses := make([]PaymentStatus, len(l))
	for i, item := range l {
		statuses[i] = item.EffectiveStatus()
	}
	return statuses
}
