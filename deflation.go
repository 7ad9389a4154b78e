package inflation

import "math"

// Deflator converts nominal amounts at the end of the horizon into amounts in
// start-date money, assuming a constant annual inflation rate.
type Deflator struct {
	StartCPI float64
	FinalCPI float64
	Factor   float64 // StartCPI / FinalCPI
}

// NewDeflator compounds rate over 'years' years from b.StartCPI.
func NewDeflator(b Baseline, years int, rate Percent) Deflator {
	final := b.StartCPI * math.Pow(1+float64(rate)/100, float64(years))
	return Deflator{
		StartCPI: b.StartCPI,
		FinalCPI: final,
		Factor:   b.StartCPI / final,
	}
}

// Real returns x in start-date money.
func (d Deflator) Real(x float64) float64 { return x * d.Factor }

// TotalInflation returns the inflation over the whole horizon, in percent.
func (d Deflator) TotalInflation() float64 { return (d.FinalCPI - d.StartCPI) / d.StartCPI * 100 }
