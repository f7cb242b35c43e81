package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoney(decimal.NewFromInt(240), "INR")
	b := NewMoney(decimal.NewFromInt(150), "INR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount.Equal(decimal.NewFromInt(390)))
	assert.Equal(t, "INR", sum.Currency)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, "INR", diff.Currency)
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	a := NewMoney(decimal.NewFromInt(10), "INR")
	b := NewMoney(decimal.NewFromInt(10), "USD")

	_, err := a.Add(b)
	assert.Error(t, err)

	_, err = a.Sub(b)
	assert.Error(t, err)
}

func TestMoneyPredicates(t *testing.T) {
	assert.True(t, ZeroMoney("INR").IsZero())
	assert.True(t, NewMoney(decimal.NewFromInt(5), "INR").IsPositive())
	assert.True(t, NewMoney(decimal.NewFromInt(5), "INR").Neg().IsNegative())
}

func TestMoneyString(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("1250.5"), "INR")
	assert.Equal(t, "1250.50 INR", m.String())
}
