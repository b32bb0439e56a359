// Package money provides the monetary value object used across the API.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when a request omits the currency code.
const DefaultCurrency = "BRL"

var (
	ErrNegativeAmount   = errors.New("money: amount cannot be negative")
	ErrEmptyCurrency    = errors.New("money: currency code cannot be empty")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrNegativeResult   = errors.New("money: result cannot be negative")
)

// Money is an immutable amount in a single currency. The zero value is
// "0 in no currency" and should only come from failed constructors.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// New builds a Money from an amount and a currency code. The amount is
// rounded half away from zero to two decimal places and the currency is
// trimmed and uppercased.
func New(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Money{}, ErrEmptyCurrency
	}

	return Money{amount: amount.Round(2), currency: currency}, nil
}

// NewDefault builds a Money in the default currency.
func NewDefault(amount decimal.Decimal) (Money, error) {
	return New(amount, DefaultCurrency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// IsZero reports whether m is the zero value (no currency).
func (m Money) IsZero() bool { return m.currency == "" }

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, ErrNegativeResult
	}

	return Money{amount: result, currency: m.currency}, nil
}

// Equal compares amount and currency structurally.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}
