package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natog7/PersonalFinance/internal/money"
)

func TestNew(t *testing.T) {
	type testCase struct {
		name         string
		amount       string
		currency     string
		wantErr      error
		wantAmount   string
		wantCurrency string
	}

	tests := []testCase{
		{
			name:         "Success",
			amount:       "10.50",
			currency:     "USD",
			wantAmount:   "10.50",
			wantCurrency: "USD",
		},
		{
			name:     "NegativeAmount",
			amount:   "-1",
			currency: "BRL",
			wantErr:  money.ErrNegativeAmount,
		},
		{
			name:     "BlankCurrency",
			amount:   "10",
			currency: "   ",
			wantErr:  money.ErrEmptyCurrency,
		},
		{
			name:         "RoundsHalfAwayFromZero",
			amount:       "10.005",
			currency:     "brl",
			wantAmount:   "10.01",
			wantCurrency: "BRL",
		},
		{
			name:         "TruncatesExtraPrecision",
			amount:       "3.14159",
			currency:     "eur",
			wantAmount:   "3.14",
			wantCurrency: "EUR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := money.New(decimal.RequireFromString(tt.amount), tt.currency)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, m.Amount().StringFixed(2))
			assert.Equal(t, tt.wantCurrency, m.Currency())
		})
	}
}

func TestNewDefault(t *testing.T) {
	m, err := money.NewDefault(decimal.NewFromInt(7))
	require.NoError(t, err)
	assert.Equal(t, "BRL", m.Currency())
}

func TestAdd(t *testing.T) {
	usd5 := mustMoney(t, "5", "USD")
	usd10 := mustMoney(t, "10", "USD")
	eur5 := mustMoney(t, "5", "EUR")

	sum, err := usd5.Add(usd10)
	require.NoError(t, err)
	assert.True(t, sum.Equal(mustMoney(t, "15", "USD")))

	_, err = usd5.Add(eur5)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestSubtract(t *testing.T) {
	usd5 := mustMoney(t, "5", "USD")
	usd10 := mustMoney(t, "10", "USD")
	eur5 := mustMoney(t, "5", "EUR")

	diff, err := usd10.Subtract(usd5)
	require.NoError(t, err)
	assert.True(t, diff.Equal(usd5))

	_, err = usd5.Subtract(usd10)
	assert.ErrorIs(t, err, money.ErrNegativeResult)

	_, err = usd10.Subtract(eur5)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestEqual(t *testing.T) {
	assert.True(t, mustMoney(t, "5.10", "USD").Equal(mustMoney(t, "5.1", "USD")))
	assert.False(t, mustMoney(t, "5.10", "USD").Equal(mustMoney(t, "5.10", "EUR")))
	assert.False(t, mustMoney(t, "5.10", "USD").Equal(mustMoney(t, "5.11", "USD")))
}

func mustMoney(t *testing.T, amount, currency string) money.Money {
	t.Helper()

	m, err := money.New(decimal.RequireFromString(amount), currency)
	require.NoError(t, err)

	return m
}
