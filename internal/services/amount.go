package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// defaultMaxAmount caps a single deposit or donation when no limit is
// configured.
const defaultMaxAmount = 100000

// ParseAmount parses a user supplied currency amount. Both "12.5" and
// "12,5" are accepted. The amount must be positive, have at most two
// decimal places and not exceed max.
func ParseAmount(raw string, max decimal.Decimal) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("%w: more than two decimal places", ErrInvalidAmount)
	}
	if amount.GreaterThan(max) {
		return decimal.Zero, fmt.Errorf("%w: exceeds the maximum of %s", ErrInvalidAmount, max.StringFixed(2))
	}

	return amount, nil
}

func maxAmount(configured float64) decimal.Decimal {
	if configured <= 0 || math.IsInf(configured, 0) || math.IsNaN(configured) {
		return decimal.NewFromInt(defaultMaxAmount)
	}
	return decimal.NewFromFloat(configured)
}

// ItemAmount is unitPrice × quantity rounded to two places.
func ItemAmount(unitPrice float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func formatAmount(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}

func itemDescription(quantity int, itemType string, amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%d x %s donation (%s)", quantity, itemType, formatAmount(amount, currency))
}

func cashDescription(amount decimal.Decimal, currency string) string {
	return formatAmount(amount, currency) + " cash donation"
}

func depositDescription(amount decimal.Decimal, currency string) string {
	return formatAmount(amount, currency) + " deposited to wallet"
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// storableBalance converts a computed balance for persistence. A balance that
// does not fit a finite float64 is rejected before any write.
func storableBalance(d decimal.Decimal) (float64, error) {
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) || d.IsNegative() {
		return 0, fmt.Errorf("%w: balance %s out of range", ErrInvalidAmount, d.String())
	}
	return f, nil
}
