package billing

import (
	"errors"
	"fmt"

	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AdjustmentType says how an Adjustment value is read
type AdjustmentType string

const (
	AdjustmentAmount  AdjustmentType = "AMOUNT"
	AdjustmentPercent AdjustmentType = "PERCENT"
)

// IsValid checks if the type is a valid AdjustmentType
func (t AdjustmentType) IsValid() bool {
	return t == AdjustmentAmount || t == AdjustmentPercent
}

// ErrInvalidAdjustmentType signals an upstream contract violation: discount and
// tax types are closed enums and anything else never reaches the core legitimately.
var ErrInvalidAdjustmentType = errors.New("invalid adjustment type")

// Adjustment is a discount or a tax, either flat or a percentage
type Adjustment struct {
	Value decimal.Decimal `json:"value"`
	Type  AdjustmentType  `json:"type"`
}

// Flat returns a flat-amount adjustment
func Flat(amount decimal.Decimal) *Adjustment {
	return &Adjustment{Value: amount, Type: AdjustmentAmount}
}

// Percent returns a percentage adjustment; 10 means 10%
func Percent(percent decimal.Decimal) *Adjustment {
	return &Adjustment{Value: percent, Type: AdjustmentPercent}
}

// apply returns the adjustment amount against base. A nil adjustment is a
// zero flat amount.
func (a *Adjustment) apply(base valueobject.Money) (valueobject.Money, error) {
	if a == nil {
		return valueobject.Zero(), nil
	}
	switch a.Type {
	case AdjustmentPercent:
		return base.Percent(a.Value).Round(), nil
	case AdjustmentAmount:
		return valueobject.NewMoney(a.Value).Round(), nil
	default:
		return valueobject.Money{}, fmt.Errorf("%w: %q", ErrInvalidAdjustmentType, a.Type)
	}
}

// Totals is the breakdown produced by CalculateTotals
type Totals struct {
	Subtotal       valueobject.Money `json:"subtotal"`
	DiscountAmount valueobject.Money `json:"discount_amount"`
	TaxableBase    valueobject.Money `json:"taxable_base"`
	TaxAmount      valueobject.Money `json:"tax_amount"`
	Total          valueobject.Money `json:"total"`
	// DiscountClamped is set when the requested discount fell outside
	// [0, subtotal] and was limited.
	DiscountClamped bool `json:"discount_clamped"`
}

// CalculateTotals applies the discount to the subtotal and then the tax to the
// discounted base:
//
//	discount = percent ? subtotal*v/100 : v      (clamped to [0, subtotal])
//	base     = subtotal - discount
//	tax      = percent ? base*v/100 : v
//	total    = base + tax
//
// The only error is ErrInvalidAdjustmentType.
func CalculateTotals(subtotal valueobject.Money, discount, tax *Adjustment) (Totals, error) {
	requested, err := discount.apply(subtotal)
	if err != nil {
		return Totals{}, fmt.Errorf("discount: %w", err)
	}
	discountAmount := requested.Clamp(valueobject.Zero(), subtotal)

	base := subtotal.Sub(discountAmount)
	taxAmount, err := tax.apply(base)
	if err != nil {
		return Totals{}, fmt.Errorf("tax: %w", err)
	}

	return Totals{
		Subtotal:        subtotal,
		DiscountAmount:  discountAmount,
		TaxableBase:     base,
		TaxAmount:       taxAmount,
		Total:           base.Add(taxAmount),
		DiscountClamped: !discountAmount.Equals(requested),
	}, nil
}
