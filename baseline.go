package inflation

import (
	"time"

	"github.com/etnz/inflation/date"
)

// Baseline holds the reference values every projection starts from: the
// start date D0, the asset price on D0 and the consumer price index on D0.
type Baseline struct {
	Start      date.Date
	StartPrice float64
	StartCPI   float64
}

// DefaultBaseline starts projections on 2000-01-01 with a unit asset price and
// an index of 100.
func DefaultBaseline() Baseline {
	return Baseline{
		Start:      date.New(2000, time.January, 1),
		StartPrice: 1,
		StartCPI:   100,
	}
}

// Horizon returns the days covered by a projection over 'years' years.
func (b Baseline) Horizon(years int) date.Range { return date.Years(b.Start, years) }

// horizonYears returns the calendar years of a projection over 'years' years:
// from the start year included to the year of D0 + years excluded.
func (b Baseline) horizonYears(years int) (first, end int) {
	return b.Start.Year(), b.Start.AddYears(years).Year()
}
