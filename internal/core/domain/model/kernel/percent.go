package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent is a fee or commission rate such as 10 or 12.5 (meaning 12.5%).
type Percent struct {
	value decimal.Decimal
}

// NewPercent accepts rates in [0, 100]. Rates above 100 would make a payout negative
// and are treated as a configuration error.
func NewPercent(value float64) (Percent, error) {
	return PercentFromDecimal(decimal.NewFromFloat(value))
}

// PercentFromString parses the textual form stored in the database.
func PercentFromString(s string) (Percent, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Percent{}, errs.NewValueIsInvalidErrorWithCause("percent", err)
	}
	return PercentFromDecimal(d)
}

func PercentFromDecimal(d decimal.Decimal) (Percent, error) {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return Percent{}, errs.NewValueIsOutOfRangeError("percent", d.String(), 0, 100)
	}
	return Percent{value: d}, nil
}

// UncheckedPercent keeps an out-of-range rate read from legacy rows so settlement can
// detect and clamp the resulting negative payout instead of failing.
func UncheckedPercent(d decimal.Decimal) Percent {
	return Percent{value: d}
}

func (p Percent) Decimal() decimal.Decimal {
	return p.value
}

func (p Percent) Float64() float64 {
	f, _ := p.value.Float64()
	return f
}

func (p Percent) String() string {
	return p.value.String()
}

// Of returns floor(amount × p / 100).
func (p Percent) Of(amount Money) Money {
	return Money(decimal.NewFromInt(int64(amount)).Mul(p.value).Div(hundred).Floor().IntPart())
}

func (p Percent) GoString() string {
	return fmt.Sprintf("kernel.Percent(%s)", p.value)
}
