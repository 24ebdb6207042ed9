package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FeeFor returns the fee charged on amount at percent (3.5 means 3.5%),
// rounded half-up to the cent.
func FeeFor(amount Money, percent float64) Money {
	if percent <= 0 || amount.Cents == 0 {
		return Money{}
	}
	pct := decimal.NewFromFloat(percent)
	return MoneyFromDecimal(amount.Decimal().Mul(pct).Div(hundred))
}

// SplitFee returns the fee and the net amount left after it.
func SplitFee(amount Money, percent float64) (fee, net Money) {
	fee = FeeFor(amount, percent)
	return fee, amount.Sub(fee)
}

// PercentFromRate converts a pre-divided rate (0.035) to the percent
// convention used everywhere else (3.5).
func PercentFromRate(rate float64) float64 {
	return decimal.NewFromFloat(rate).Mul(hundred).InexactFloat64()
}

// ParseFee parses a percentage typed by a user. Comma decimals are accepted.
func ParseFee(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidFee
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidFee
	}
	if f < 0 {
		return 0, ErrNegativeFee
	}
	return f, nil
}

func validFee(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrInvalidFee
	}
	if f < 0 {
		return ErrNegativeFee
	}
	return nil
}
