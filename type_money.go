package inflation

import (
	"math"
	"math/big"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a currency label.
//
// The label is opaque: it can be an ISO 4217 code ("EUR") or a symbol ("€").
// Known codes are formatted the way the currency is usually written, anything
// else is printed as is after the amount.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money from a decimal amount.
func M(value decimal.Decimal, currency string) Money {
	return Money{value: value, cur: currency}
}

// Currency returns the money's currency label.
func (m Money) Currency() string { return m.cur }

// Amount returns the money's amount.
func (m Money) Amount() decimal.Decimal { return m.value }

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }

// currency returns the go-money currency for the label, or nil if the label is
// not a known ISO code.
func (m Money) currency() *money.Currency {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(m.cur)))
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	if cur == nil {
		s := m.value.StringFixedBank(2)
		if m.cur == "" {
			return s
		}
		return s + " " + m.cur
	}
	dec := m.value.Shift(int32(cur.Fraction)).RoundBank(0)
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// Round returns x rounded to 'places' decimals, half to even, computed on the
// exact binary value of x.
//
// 2.675 is stored as 2.67499999999999982236431605997495353221893310546875 so
// it rounds to 2.67, and 0.125 is an exact tie that rounds to 0.12. Non finite
// values round to zero.
func Round(x float64, places int32) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	return exact(x).RoundBank(places)
}

// exact returns the decimal holding exactly the value of the float x.
func exact(x float64) decimal.Decimal {
	// x = frac * 2^exp with 0.5 <= |frac| < 1, then x = m * 2^e with m an integer.
	frac, exp := math.Frexp(x)
	m := int64(math.Ldexp(frac, 53))
	e := exp - 53
	if e >= 0 {
		return decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(m), uint(e)), 0)
	}
	// m * 2^-k == m * 5^k * 10^-k
	k := int64(-e)
	pow5 := new(big.Int).Exp(big.NewInt(5), big.NewInt(k), nil)
	return decimal.NewFromBigInt(pow5.Mul(pow5, big.NewInt(m)), int32(-k))
}
