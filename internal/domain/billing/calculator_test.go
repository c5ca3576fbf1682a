package billing

import (
	"testing"

	"github.com/jobbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) valueobject.Money {
	m, err := valueobject.NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty, unit string) LineItem {
	return NewLineItem("item", dec(qty), money(unit))
}

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		want  string
	}{
		{"empty", nil, "0.00"},
		{"single", []LineItem{item("2", "50")}, "100.00"},
		{"mixed", []LineItem{item("2", "50"), item("1", "400"), item("3", "0.33")}, "500.99"},
		{"fractional quantity", []LineItem{item("1.5", "10")}, "15.00"},
		{"zero unit amount", []LineItem{item("5", "0")}, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subtotal(tt.items).String())
		})
	}
}

func TestSubtotal_OrderIndependentAndAdditive(t *testing.T) {
	a := []LineItem{item("2", "19.99"), item("1", "0.01")}
	b := []LineItem{item("3", "7.77"), item("4", "1.25")}

	joined := append(append([]LineItem{}, a...), b...)
	reversed := []LineItem{b[1], a[1], b[0], a[0]}

	assert.True(t, Subtotal(joined).Equals(Subtotal(a).Add(Subtotal(b))))
	assert.True(t, Subtotal(joined).Equals(Subtotal(reversed)))
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		discount *Adjustment
		tax      *Adjustment
		discAmt  string
		base     string
		taxAmt   string
		total    string
		clamped  bool
	}{
		{"no adjustments", "250", nil, nil, "0.00", "250.00", "0.00", "250.00", false},
		{"percent discount and percent tax", "100", Percent(dec("10")), Percent(dec("10")), "10.00", "90.00", "9.00", "99.00", false},
		{"flat discount", "500", Flat(dec("50")), nil, "50.00", "450.00", "0.00", "450.00", false},
		{"flat tax", "200", nil, Flat(dec("12")), "0.00", "200.00", "12.00", "212.00", false},
		{"tax applies after discount", "1000", Flat(dec("200")), Percent(dec("12")), "200.00", "800.00", "96.00", "896.00", false},
		{"discount above subtotal clamps", "100", Flat(dec("150")), Percent(dec("10")), "100.00", "0.00", "0.00", "0.00", true},
		{"percent above 100 clamps", "80", Percent(dec("120")), nil, "80.00", "0.00", "0.00", "0.00", true},
		{"negative discount clamps to zero", "80", Flat(dec("-5")), nil, "0.00", "80.00", "0.00", "80.00", true},
		{"rounding half away from zero", "0.15", Percent(dec("50")), nil, "0.08", "0.07", "0.00", "0.07", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateTotals(money(tt.subtotal), tt.discount, tt.tax)
			require.NoError(t, err)
			assert.Equal(t, tt.discAmt, got.DiscountAmount.String())
			assert.Equal(t, tt.base, got.TaxableBase.String())
			assert.Equal(t, tt.taxAmt, got.TaxAmount.String())
			assert.Equal(t, tt.total, got.Total.String())
			assert.Equal(t, tt.clamped, got.DiscountClamped)
			assert.False(t, got.Total.IsNegative())
		})
	}
}

func TestCalculateTotals_InvalidType(t *testing.T) {
	_, err := CalculateTotals(money("100"), &Adjustment{Value: dec("1"), Type: "BOGUS"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAdjustmentType)
	assert.Contains(t, err.Error(), "discount")

	_, err = CalculateTotals(money("100"), nil, &Adjustment{Value: dec("1"), Type: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAdjustmentType)
	assert.Contains(t, err.Error(), "tax")
}

func TestComputeBalance(t *testing.T) {
	t.Run("partial payment", func(t *testing.T) {
		b := ComputeBalance(money("2650"), money("1000"))
		assert.Equal(t, "1650.00", b.Outstanding.String())
		assert.False(t, b.Overpaid)
	})

	t.Run("settled", func(t *testing.T) {
		b := ComputeBalance(money("99"), money("99"))
		assert.True(t, b.Outstanding.IsZero())
		assert.False(t, b.Overpaid)
	})

	t.Run("overpaid goes negative", func(t *testing.T) {
		b := ComputeBalance(money("100"), money("120"))
		assert.Equal(t, "-20.00", b.Outstanding.String())
		assert.True(t, b.Overpaid)
	})
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []PaymentStatus
		paid     string
		want     DerivedStatus
	}{
		{"all paid", []PaymentStatus{PaymentStatusPaid, PaymentStatusPaid}, "0", StatusCompleted},
		{"one downpayment", []PaymentStatus{PaymentStatusPaid, PaymentStatusDownpayment}, "0", StatusDownpayment},
		{"cheque counts as payment", []PaymentStatus{PaymentStatusUnpaid, PaymentStatusCheque}, "0", StatusDownpayment},
		{"paid item among unpaid", []PaymentStatus{PaymentStatusUnpaid, PaymentStatusPaid}, "0", StatusDownpayment},
		{"all unpaid nothing paid", []PaymentStatus{PaymentStatusUnpaid, PaymentStatusUnpaid}, "0", StatusPending},
		{"all unpaid but money received", []PaymentStatus{PaymentStatusUnpaid}, "50", StatusDownpayment},
		{"no items", nil, "0", StatusPending},
		{"no items but money received", nil, "10", StatusDownpayment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.statuses, money(tt.paid)))
		})
	}
}

func TestPaymentStatus_IsRegressionTo(t *testing.T) {
	assert.True(t, PaymentStatusPaid.IsRegressionTo(PaymentStatusUnpaid))
	assert.True(t, PaymentStatusPaid.IsRegressionTo(PaymentStatusCheque))
	assert.True(t, PaymentStatusDownpayment.IsRegressionTo(PaymentStatusUnpaid))
	assert.False(t, PaymentStatusDownpayment.IsRegressionTo(PaymentStatusCheque))
	assert.False(t, PaymentStatusUnpaid.IsRegressionTo(PaymentStatusPaid))
}

func TestLineItems_ScanValue(t *testing.T) {
	items := LineItems{item("2", "10.50")}
	v, err := items.Value()
	require.NoError(t, err)

	var scanned LineItems
	require.NoError(t, scanned.Scan(v))
	require.Len(t, scanned, 1)
	assert.True(t, scanned[0].Amount().Equals(money("21")))
	assert.Equal(t, PaymentStatusUnpaid, scanned[0].Status)

	var empty LineItems
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
	assert.Error(t, empty.Scan(42))

	v, err = LineItems(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
