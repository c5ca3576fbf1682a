package valueobject

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrencyCode is the ISO 4217 code used when none is configured
const DefaultCurrencyCode = "PHP"

// CurrencyFormatter renders amounts for display. The core never works on the
// formatted strings; they are produced only at the presentation edge.
type CurrencyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewCurrencyFormatter creates a formatter for an ISO currency code and a BCP 47
// locale such as "en-PH".
func NewCurrencyFormatter(code, locale string) (*CurrencyFormatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &CurrencyFormatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
	}, nil
}

// MustCurrencyFormatter is NewCurrencyFormatter for static configuration; it panics on error
func MustCurrencyFormatter(code, locale string) *CurrencyFormatter {
	f, err := NewCurrencyFormatter(code, locale)
	if err != nil {
		panic(err)
	}
	return f
}

// Code returns the ISO currency code
func (f *CurrencyFormatter) Code() string {
	return f.unit.String()
}

// Format renders m as "<CODE> <grouped amount>" with exactly two decimals,
// e.g. "PHP 1,234.50".
func (f *CurrencyFormatter) Format(m Money) string {
	v := m.Round().Float64()
	return f.printer.Sprintf("%s %v", f.unit.String(), number.Decimal(v, number.Scale(int(MoneyScale))))
}
