package common

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "R$ 141.00", FormatMoney(decimal.RequireFromString("141")))
	assert.Equal(t, "R$ 0.80", FormatMoney(decimal.RequireFromString("0.8")))
	assert.Equal(t, "R$ 123.46", FormatMoney(decimal.RequireFromString("123.455")))
}

func TestBoxPrefix(t *testing.T) {
	assert.Equal(t, "│  ", BoxPrefix(false))
	assert.Equal(t, "└  ", BoxPrefix(true))
}
