package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with currency
type Money struct {
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Currency string          `json:"currency" yaml:"currency"`
}

// NewMoney creates a new Money instance with the given amount and currency
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// ZeroMoney returns a Money instance with zero amount in the given currency
func ZeroMoney(currency string) Money {
	return Money{
		Amount:   decimal.Zero,
		Currency: currency,
	}
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Neg returns the negated money amount
func (m Money) Neg() Money {
	return Money{
		Amount:   m.Amount.Neg(),
		Currency: m.Currency,
	}
}

// Add adds another Money value to this one
// Returns an error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("cannot add different currencies: %s and %s", m.Currency, other.Currency)
	}
	return Money{
		Amount:   m.Amount.Add(other.Amount),
		Currency: m.Currency,
	}, nil
}

// Sub subtracts another Money value from this one
// Returns an error if currencies don't match
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("cannot subtract different currencies: %s and %s", m.Currency, other.Currency)
	}
	return Money{
		Amount:   m.Amount.Sub(other.Amount),
		Currency: m.Currency,
	}, nil
}

// String returns a string representation of the money value
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
