package fees

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScheduleIsValid(t *testing.T) {
	require.NoError(t, DefaultSchedule().Validate())
}

func TestLoadScheduleEmptyPathUsesDefaults(t *testing.T) {
	schedule, err := LoadSchedule("")
	require.NoError(t, err)
	assert.Len(t, schedule.Tiers, 4)
	assert.Equal(t, "0.80", schedule.GatewayFixedFee.StringFixed(2))
}

func TestLoadScheduleFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fees.yaml")
	content := `
gateway_fixed_fee: "1.00"
break_even_threshold: "25.00"
tiers:
  - up_to: "200"
    pct: "0.05"
  - pct: "0.09"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	schedule, err := LoadSchedule(path)
	require.NoError(t, err)

	calc := NewCalculator(schedule)

	split, err := calc.Calculate(d("24.99"))
	require.NoError(t, err)
	assert.Equal(t, "1.00", split.PlatformFee.StringFixed(2))

	split, err = calc.Calculate(d("200.00"))
	require.NoError(t, err)
	assert.Equal(t, "10.00", split.PlatformFee.StringFixed(2))

	split, err = calc.Calculate(d("300.00"))
	require.NoError(t, err)
	assert.Equal(t, "27.00", split.PlatformFee.StringFixed(2))
}

func TestLoadScheduleMissingFile(t *testing.T) {
	_, err := LoadSchedule(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseScheduleValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name: "descending tiers",
			content: `
tiers:
  - up_to: "400"
    pct: "0.06"
  - up_to: "100"
    pct: "0.04"
  - pct: "0.10"
`,
			errPart: "must exceed",
		},
		{
			name: "open tier in the middle",
			content: `
tiers:
  - pct: "0.04"
  - up_to: "100"
    pct: "0.06"
`,
			errPart: "open-ended",
		},
		{
			name: "bounded last tier",
			content: `
tiers:
  - up_to: "100"
    pct: "0.04"
`,
			errPart: "open-ended",
		},
		{
			name: "pct out of range",
			content: `
tiers:
  - pct: "1.5"
`,
			errPart: "out of range",
		},
		{
			name: "first tier below gateway cost",
			content: `
tiers:
  - up_to: "100"
    pct: "0.01"
  - pct: "0.10"
`,
			errPart: "does not cover",
		},
		{
			name: "later tier below gateway cost",
			content: `
tiers:
  - up_to: "100.00"
    pct: "0.04"
  - pct: "0.001"
`,
			errPart: "tier at index 1",
		},
		{
			name: "later tier below gateway cost at its first cent",
			content: `
tiers:
  - up_to: "100.00"
    pct: "0.04"
  - up_to: "200.00"
    pct: "0.0079"
  - pct: "0.10"
`,
			errPart: "does not cover",
		},
		{
			name:    "bad decimal",
			content: `gateway_fixed_fee: "abc"`,
			errPart: "gateway_fixed_fee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchedule([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestParseScheduleAcceptsLowerLaterTierThatCoversGatewayCost(t *testing.T) {
	schedule, err := ParseSchedule([]byte(`
tiers:
  - up_to: "100.00"
    pct: "0.04"
  - pct: "0.008"
`))
	require.NoError(t, err)

	calc := NewCalculator(schedule)
	for _, raw := range []string{"20.00", "100.00", "100.01", "150.00", "5000.00"} {
		split, err := calc.Calculate(decimal.RequireFromString(raw))
		require.NoError(t, err)
		assert.True(t, split.PlatformFee.GreaterThanOrEqual(split.GatewayCost),
			"amount %s: platform fee %s below gateway cost %s", raw, split.PlatformFee, split.GatewayCost)
	}
}
