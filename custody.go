package inflation

import (
	"fmt"

	"github.com/etnz/inflation/date"
)

// AccrueCustody returns the custody fee charged to each contribution, in the
// same order as rows.
//
// At the end of a year Y every contribution made on or before December 31st
// of Y is charged CustodyFee percent of its value at the closing price of Y.
// With FirstYearCustody only the first year of the horizon is charged, with
// CumulativeCustody every year is.
func AccrueCustody(rows []Contribution, p Params, b Baseline, prices *PricePath) ([]float64, error) {
	fees := make([]float64, len(rows))
	first, end := b.horizonYears(p.Years)
	for year := first; year < end; year++ {
		closing, ok := prices.Price(date.EndOfYear(year))
		if !ok {
			return nil, fmt.Errorf("%w: no closing price for %d", ErrInvariant, year)
		}
		for i, r := range rows {
			if r.Date.Year() <= year {
				fees[i] += p.CustodyFee.Of(r.Units * closing)
			}
		}
		if p.Custody == FirstYearCustody {
			break
		}
	}
	return fees, nil
}
