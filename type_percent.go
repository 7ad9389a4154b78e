package inflation

import "fmt"

// Percent is a rate expressed in percent: 8 means 8%.
type Percent float64

// Of returns p percent of x.
//
// The product is computed before the division by 100, every fee and tax of a
// projection goes through it so that they all round the same way.
func (p Percent) Of(x float64) float64 { return x * float64(p) / 100 }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
