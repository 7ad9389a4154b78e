package date

import (
	"fmt"
	"strings"
)

// Period is the cadence of a recurring event.
type Period int

const (
	Weekly Period = iota
	Monthly
	Annual
)

func (p Period) String() string {
	switch p {
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Annual:
		return "annual"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// PerYear returns how many occurrences of p fit in a year, counting 52 weeks
// per year.
func (p Period) PerYear() int {
	switch p {
	case Weekly:
		return 52
	case Monthly:
		return 12
	case Annual:
		return 1
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// Step returns the date n periods after d.
//
// Weeks are exact 7 days steps, months and years are calendar steps.
func (p Period) Step(d Date, n int) Date {
	switch p {
	case Weekly:
		return d.Add(7 * n)
	case Monthly:
		return d.AddMonths(n)
	case Annual:
		return d.AddYears(n)
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// ParsePeriod parses a cadence name. Only the canonical names are accepted:
// "weekly", "monthly" and "annual".
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(p) {
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "annual":
		return Annual, nil
	default:
		return Monthly, fmt.Errorf("unknown period %q, want one of weekly, monthly, annual", p)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(text []byte) error {
	v, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
