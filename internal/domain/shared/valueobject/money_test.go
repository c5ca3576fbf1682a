package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.RequireFromString("123.45")))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoneyIsPositiveNegativeZero(t *testing.T) {
	positive := NewMoneyFromInt(100)
	negative := NewMoneyFromInt(-100)
	zero := Zero()

	assert.True(t, positive.IsPositive())
	assert.False(t, positive.IsNegative())
	assert.True(t, negative.IsNegative())
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsPositive())
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyFromFloat(100.50)
	b := NewMoneyFromFloat(50.25)

	assert.Equal(t, "150.75", a.Add(b).String())
	assert.Equal(t, "50.25", a.Sub(b).String())
	assert.Equal(t, "-100.50", a.Negate().String())
	assert.Equal(t, "301.50", a.Mul(decimal.NewFromInt(3)).String())
}

func TestMoneyPercent(t *testing.T) {
	m := NewMoneyFromInt(250)
	assert.True(t, m.Percent(decimal.NewFromInt(10)).Equals(NewMoneyFromInt(25)))
	assert.True(t, m.Percent(decimal.Zero).IsZero())
}

func TestMoneyRound(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"-1.005", "-1.01"},
		{"2", "2.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Round().String())
		})
	}
}

func TestMoneyClamp(t *testing.T) {
	lo := Zero()
	hi := NewMoneyFromInt(100)

	assert.True(t, NewMoneyFromInt(-5).Clamp(lo, hi).Equals(lo))
	assert.True(t, NewMoneyFromInt(500).Clamp(lo, hi).Equals(hi))
	assert.True(t, NewMoneyFromInt(42).Clamp(lo, hi).Equals(NewMoneyFromInt(42)))
}

func TestMoneyComparisons(t *testing.T) {
	a := NewMoneyFromInt(10)
	b, _ := NewMoneyFromString("10.00")
	c := NewMoneyFromInt(11)

	assert.True(t, a.Equals(b))
	assert.Equal(t, 0, a.Cmp(b))
	assert.True(t, a.LessThan(c))
	assert.True(t, c.GreaterThan(a))
	assert.Equal(t, -1, a.Cmp(c))
}

func TestSum(t *testing.T) {
	assert.True(t, Sum().IsZero())
	total := Sum(NewMoneyFromInt(1), NewMoneyFromInt(2), NewMoneyFromFloat(0.5))
	assert.Equal(t, "3.50", total.String())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals as decimal string", func(t *testing.T) {
		data, err := json.Marshal(NewMoneyFromFloat(99.99))
		require.NoError(t, err)
		assert.Equal(t, `"99.99"`, string(data))
	})

	t.Run("unmarshals string and number forms", func(t *testing.T) {
		var fromString, fromNumber Money
		require.NoError(t, json.Unmarshal([]byte(`"1650.00"`), &fromString))
		require.NoError(t, json.Unmarshal([]byte(`1650`), &fromNumber))
		assert.True(t, fromString.Equals(fromNumber))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
		assert.Error(t, json.Unmarshal([]byte(`{}`), &m))
	})
}

func TestMoneyScanValue(t *testing.T) {
	m := NewMoneyFromFloat(12.34)
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "12.34", v)

	var scanned Money
	require.NoError(t, scanned.Scan("12.34"))
	assert.True(t, scanned.Equals(m))

	require.NoError(t, scanned.Scan([]byte("7")))
	assert.True(t, scanned.Equals(NewMoneyFromInt(7)))

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())
}
