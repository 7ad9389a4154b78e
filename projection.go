package inflation

import "fmt"

// Projection is the complete trace of a projection, stage by stage.
type Projection struct {
	Params        Params
	Baseline      Baseline
	Prices        *PricePath
	Contributions []Contribution
	Outcomes      []Outcome
	Deflator      Deflator
	Totals        Totals
	Report        *Report
}

// Project runs p from the DefaultBaseline.
func Project(p Params) (*Projection, error) { return DefaultBaseline().Project(p) }

// Project runs the projection pipeline for p.
//
// p is validated first: an invalid p returns the Params.Validate error, which
// wraps ErrInvalidParams, before any step runs. The steps rely on it, date.Period
// methods panic on an unknown frequency. Other errors wrap ErrInvariant.
func (b Baseline) Project(p Params) (*Projection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	prices := NewPricePath(b, p.Years, p.GrossYield)
	if prices.Len() == 0 {
		return nil, fmt.Errorf("%w: empty price path over %d years", ErrInvariant, p.Years)
	}
	rows, err := Schedule(p, b, prices)
	if err != nil {
		return nil, fmt.Errorf("cannot schedule contributions: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no contribution", ErrInvariant)
	}
	custody, err := AccrueCustody(rows, p, b, prices)
	if err != nil {
		return nil, fmt.Errorf("cannot accrue custody fees: %w", err)
	}
	_, sellPrice := prices.Last()
	outcomes := Liquidate(rows, custody, sellPrice, p)
	deflator := NewDeflator(b, p.Years, p.InflationRate)
	totals := Sum(outcomes)

	return &Projection{
		Params:        p,
		Baseline:      b,
		Prices:        prices,
		Contributions: rows,
		Outcomes:      outcomes,
		Deflator:      deflator,
		Totals:        totals,
		Report:        NewReport(p, totals, deflator),
	}, nil
}
