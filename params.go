package inflation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/etnz/inflation/date"
)

var (
	// ErrInvalidParams is returned when projection parameters are out of range.
	ErrInvalidParams = errors.New("invalid projection parameters")
	// ErrInvariant is returned when the projection pipeline finds an
	// inconsistency it cannot recover from, like a contribution date without
	// a price.
	ErrInvariant = errors.New("projection invariant violated")
)

// CustodyAccrual selects how the custody fee is charged.
type CustodyAccrual int

const (
	// FirstYearCustody charges the custody fee on the holdings valued at the
	// end of the first year only.
	FirstYearCustody CustodyAccrual = iota
	// CumulativeCustody charges the custody fee at the end of every year of
	// the horizon, on all the units bought up to that year.
	CumulativeCustody
)

func (c CustodyAccrual) String() string {
	switch c {
	case FirstYearCustody:
		return "first_year"
	case CumulativeCustody:
		return "cumulative"
	default:
		return fmt.Sprintf("CustodyAccrual(%d)", int(c))
	}
}

// ParseCustodyAccrual parses "first_year" or "cumulative". The empty string is
// the default policy.
func ParseCustodyAccrual(s string) (CustodyAccrual, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first_year":
		return FirstYearCustody, nil
	case "cumulative":
		return CumulativeCustody, nil
	default:
		return FirstYearCustody, fmt.Errorf("%w: unknown custody accrual %q", ErrInvalidParams, s)
	}
}

func (c CustodyAccrual) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CustodyAccrual) UnmarshalText(text []byte) (err error) {
	*c, err = ParseCustodyAccrual(string(text))
	return err
}

// Params holds everything a projection depends on, apart from the Baseline.
type Params struct {
	InitialAmount   float64        `json:"initial_amount"`
	Frequency       date.Period    `json:"recurring_investment_frequency"`
	RecurringAmount float64        `json:"recurring_investment_amount"`
	Years           int            `json:"investment_duration_years"`
	GrossYield      Percent        `json:"annual_gross_yield"`
	InflationRate   Percent        `json:"annual_inflation"`
	BuyInFee        Percent        `json:"buy_in_fee"`
	CustodyFee      Percent        `json:"annual_custodian_fee"`
	SellOutFee      Percent        `json:"sell_out_fee"`
	Tax             Percent        `json:"tax_on_gains"`
	Currency        string         `json:"currency"`
	Custody         CustodyAccrual `json:"custody_accrual"`
}

// DefaultParams returns the parameters used when a caller leaves the fees and
// rates unset: 8% gross yield, 2% inflation, 0.35% buy-in fee, 0.2% custody
// fee, 0.5% sell-out fee and a 17.2% tax on gains, over 26 years.
func DefaultParams() Params {
	return Params{
		Frequency:     date.Monthly,
		Years:         26,
		GrossYield:    8,
		InflationRate: 2,
		BuyInFee:      0.35,
		CustodyFee:    0.2,
		SellOutFee:    0.5,
		Tax:           17.2,
		Currency:      "€",
	}
}

// Validate checks that p describes a computable projection. Every problem is
// reported, each one wrapping ErrInvalidParams.
func (p Params) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidParams}, args...)...))
	}
	finite := func(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

	if !finite(p.InitialAmount) || p.InitialAmount < 0 {
		invalid("initial amount %v must be a non negative number", p.InitialAmount)
	}
	if !finite(p.RecurringAmount) || p.RecurringAmount < 0 {
		invalid("recurring amount %v must be a non negative number", p.RecurringAmount)
	}
	if p.Years < 1 {
		invalid("investment duration %d must be at least one year", p.Years)
	}
	switch p.Frequency {
	case date.Weekly, date.Monthly, date.Annual:
	default:
		invalid("unknown recurring investment frequency %d", int(p.Frequency))
	}
	switch p.Custody {
	case FirstYearCustody, CumulativeCustody:
	default:
		invalid("unknown custody accrual %d", int(p.Custody))
	}
	// the price and the index must stay positive
	if !finite(float64(p.GrossYield)) || p.GrossYield <= -100 {
		invalid("annual gross yield %v must be greater than -100%%", p.GrossYield)
	}
	if !finite(float64(p.InflationRate)) || p.InflationRate <= -100 {
		invalid("annual inflation %v must be greater than -100%%", p.InflationRate)
	}
	for _, fee := range []struct {
		name string
		v    Percent
	}{
		{"buy-in fee", p.BuyInFee},
		{"annual custodian fee", p.CustodyFee},
		{"sell-out fee", p.SellOutFee},
		{"tax on gains", p.Tax},
	} {
		if !finite(float64(fee.v)) || fee.v < 0 || fee.v > 100 {
			invalid("%s %v must be between 0 and 100%%", fee.name, fee.v)
		}
	}
	return errors.Join(errs...)
}
