package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of implied fractional digits carried by an Amount.
const AmountScale = 4

// Amount is a currency value in 1/10000ths of a unit.
// All balance arithmetic happens on this scaled integer so accumulation is
// exact regardless of processing order; decimal strings exist only at the
// input/output boundary.
type Amount uint64

// ParseAmount converts a decimal string like "1.5" or "7.0522" into an Amount.
// The fractional part is required and may carry at most four digits; shorter
// fractions are right-padded with zeros ("1.2" parses to 12000 scaled units).
// Negative values are rejected.
func ParseAmount(s string) (Amount, error) {
	if !strings.Contains(s, ".") {
		return 0, fmt.Errorf("amount %q is missing a fractional part", s)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q is negative", s)
	}
	if d.Exponent() < -AmountScale {
		return 0, fmt.Errorf("amount %q has more than %d fractional digits", s, AmountScale)
	}

	return Amount(d.Shift(AmountScale).IntPart()), nil
}

// String renders the amount in the canonical "<integer>.<4-digit-fraction>"
// form, so ParseAmount(a.String()) round-trips exactly.
func (a Amount) String() string {
	return fmt.Sprintf("%d.%04d", uint64(a)/10000, uint64(a)%10000)
}
