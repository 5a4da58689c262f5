package fees

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCalculateRejectsAmountsBelowGatewayFee(t *testing.T) {
	calc := NewCalculator(DefaultSchedule())

	for _, amount := range []string{"0", "0.01", "0.79", "-10"} {
		_, err := calc.Calculate(d(amount))
		require.Error(t, err, amount)
		assert.True(t, errors.Is(err, ErrInvalidAmount), amount)
	}
}

func TestCalculateBreakEvenBelowThreshold(t *testing.T) {
	calc := NewCalculator(DefaultSchedule())

	for _, amount := range []string{"0.80", "1.00", "10.55", "19.99"} {
		split, err := calc.Calculate(d(amount))
		require.NoError(t, err, amount)

		assert.Equal(t, "0.80", split.PlatformFee.StringFixed(2), amount)
		assert.True(t, split.PlatformPct.IsZero(), amount)
		assert.True(t, split.PlatformRealProfit.IsZero(), amount)
		assert.Equal(t, d(amount).Sub(d("0.80")).StringFixed(2), split.FreelancerNet.StringFixed(2), amount)
	}
}

func TestCalculateTiers(t *testing.T) {
	calc := NewCalculator(DefaultSchedule())

	tests := []struct {
		amount string
		pct    string
		fee    string
		net    string
		profit string
	}{
		{"20.00", "0.04", "0.80", "19.20", "0.00"},
		{"100.00", "0.04", "4.00", "96.00", "3.20"},
		{"100.01", "0.06", "6.00", "94.01", "5.20"},
		{"150.00", "0.06", "9.00", "141.00", "8.20"},
		{"400.00", "0.06", "24.00", "376.00", "23.20"},
		{"400.01", "0.08", "32.00", "368.01", "31.20"},
		{"700.00", "0.08", "56.00", "644.00", "55.20"},
		{"700.01", "0.10", "70.00", "630.01", "69.20"},
		{"1234.55", "0.10", "123.46", "1111.09", "122.66"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			split, err := calc.Calculate(d(tt.amount))
			require.NoError(t, err)

			assert.True(t, d(tt.pct).Equal(split.PlatformPct), "pct %s", split.PlatformPct)
			assert.Equal(t, tt.fee, split.PlatformFee.StringFixed(2))
			assert.Equal(t, tt.net, split.FreelancerNet.StringFixed(2))
			assert.Equal(t, tt.profit, split.PlatformRealProfit.StringFixed(2))
			assert.Equal(t, "0.80", split.GatewayCost.StringFixed(2))
		})
	}
}

func TestCalculateRoundsHalfUp(t *testing.T) {
	calc := NewCalculator(DefaultSchedule())

	// 112.25 * 0.06 = 6.735
	split, err := calc.Calculate(d("112.25"))
	require.NoError(t, err)
	assert.Equal(t, "6.74", split.PlatformFee.StringFixed(2))
}

func TestCalculateSplitAlwaysBalances(t *testing.T) {
	calc := NewCalculator(DefaultSchedule())

	for cents := int64(80); cents <= 150000; cents += 137 {
		amount := decimal.New(cents, -2)
		split, err := calc.Calculate(amount)
		require.NoError(t, err)

		assert.True(t, split.Amount.Equal(split.PlatformFee.Add(split.FreelancerNet)), "amount %s", amount)
		assert.True(t, split.PlatformFee.GreaterThanOrEqual(split.GatewayCost), "amount %s", amount)
		assert.False(t, split.FreelancerNet.IsNegative(), "amount %s", amount)
	}
}
