package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrencyFormatter(t *testing.T) {
	t.Run("accepts ISO code and locale", func(t *testing.T) {
		f, err := NewCurrencyFormatter("PHP", "en-PH")
		require.NoError(t, err)
		assert.Equal(t, "PHP", f.Code())
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		_, err := NewCurrencyFormatter("XYZQ", "en")
		assert.Error(t, err)
	})

	t.Run("rejects malformed locale", func(t *testing.T) {
		_, err := NewCurrencyFormatter("USD", "not a locale!")
		assert.Error(t, err)
	})
}

func TestCurrencyFormatter_Format(t *testing.T) {
	f := MustCurrencyFormatter("USD", "en")

	assert.Equal(t, "USD 1,234.50", f.Format(NewMoneyFromFloat(1234.5)))
	assert.Equal(t, "USD 0.00", f.Format(Zero()))
	assert.Equal(t, "USD 1,000,000.00", f.Format(NewMoneyFromInt(1000000)))
}

func TestMustCurrencyFormatter_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCurrencyFormatter("", "en") })
}
