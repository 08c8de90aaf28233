package valueobject

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

// Currency represents a monetary currency using ISO 4217 codes.
type Currency string

// Supported currencies in the system.
const (
	CurrencyINR Currency = "INR" // Indian Rupee
	CurrencyUSD Currency = "USD" // US Dollar
	CurrencyEUR Currency = "EUR" // Euro
)

// ErrInvalidCurrency is returned for currency codes outside the supported set.
var ErrInvalidCurrency = errors.New("invalid currency code")

// ParseCurrency validates an ISO 4217 code.
func ParseCurrency(code string) (Currency, error) {
	switch c := Currency(code); c {
	case CurrencyINR, CurrencyUSD, CurrencyEUR:
		return c, nil
	}
	return "", ErrInvalidCurrency
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyINR:
		return "₹"
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	}
	return string(c) + " "
}

// Money is a display value for a computed cost. Calculations stay in
// float64; Money only rounds and formats the final figures.
//
// Example usage:
//
//	cost := valueobject.NewMoney(17280.0345, valueobject.CurrencyINR)
//	cost.Format(2) // "₹17280.03"
type Money struct {
	// Amount is the exact decimal expansion of the float it was built from.
	Amount decimal.Decimal `json:"amount"`

	// Currency using ISO 4217 code
	Currency Currency `json:"currency"`
}

// NewMoney creates a new Money value object.
//
// Parameters:
//   - amount: decimal amount (e.g., 19.99)
//   - currency: ISO 4217 currency code
//
// Returns:
//   - Money: the created Money value object
func NewMoney(amount float64, currency Currency) Money {
	return Money{
		Amount:   decimal.NewFromFloat(amount),
		Currency: currency,
	}
}

// Zero returns a zero-value Money in the specified currency.
func Zero(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// IsZero checks if the Money amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Format returns the money with its currency symbol and a fixed number of decimals.
//
// Parameters:
//   - places: number of decimal places
//
// Returns:
//   - string: formatted string (e.g., "₹22464.0449")
func (m Money) Format(places int) string {
	return m.Currency.Symbol() + m.Amount.StringFixed(int32(places))
}

// String returns the amount with two decimals and the currency code.
func (m Money) String() string {
	return string(m.Currency) + " " + m.Amount.StringFixed(2)
}

// FormatFixed renders v with exactly places decimals, rounding half away
// from zero on the shortest decimal representation of v.
func FormatFixed(v float64, places int) string {
	return decimal.NewFromFloat(v).StringFixed(int32(places))
}

// FormatPlain renders v in its shortest round-trip form, e.g. 1.006 or 40.
func FormatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
