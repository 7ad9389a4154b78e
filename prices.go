package inflation

import (
	"iter"
	"math"

	"github.com/etnz/inflation/date"
)

// PricePath is the synthetic daily price of the asset over a projection
// horizon.
//
// The price compounds the gross yield at each January 1st and grows linearly
// in between, so that December 31st lands on the price of the next January
// 1st.
type PricePath struct {
	horizon date.Range
	prices  date.History[float64]
}

// NewPricePath computes the price for every day of the horizon of 'years'
// years starting at b.Start.
func NewPricePath(b Baseline, years int, grossYield Percent) *PricePath {
	p := &PricePath{horizon: b.Horizon(years)}
	g := float64(grossYield)
	for day := range p.horizon.Days() {
		year := day.Year()
		startOfYear := b.StartPrice * math.Pow(1+g/100, float64(year-b.Start.Year()))
		span := date.EndOfYear(year).Sub(date.StartOfYear(year))
		p.prices.Append(day, startOfYear*(1+g/100*float64(day.YearDay())/float64(span)))
	}
	return p
}

// Price returns the price on day, or false if day is outside the horizon.
func (p *PricePath) Price(day date.Date) (float64, bool) { return p.prices.Get(day) }

// Last returns the last day of the horizon and its price, the sell price.
func (p *PricePath) Last() (date.Date, float64) { return p.prices.Latest() }

// Horizon returns the days covered by the path.
func (p *PricePath) Horizon() date.Range { return p.horizon }

// Len returns the number of days in the path.
func (p *PricePath) Len() int { return p.prices.Len() }

// Values iterates over the path in chronological order.
func (p *PricePath) Values() iter.Seq2[date.Date, float64] { return p.prices.Values() }
