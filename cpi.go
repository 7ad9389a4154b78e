package inflation

import "github.com/shopspring/decimal"

// AnnualRates returns the year over year inflation rate, in percent rounded to
// cents, of every year of values whose previous year is also known.
func AnnualRates(values map[int]float64) map[int]decimal.Decimal {
	rates := make(map[int]decimal.Decimal, len(values))
	for year, value := range values {
		if previous, ok := values[year-1]; ok {
			rates[year] = Round(InflationRate(previous, value), 2)
		}
	}
	return rates
}

// Correct converts amount from the money of the year whose index is 'from' into
// the money of the year whose index is 'to'.
func Correct(amount, from, to float64) float64 { return amount / from * to }

// InflationRate returns the inflation, in percent, between two index values.
func InflationRate(from, to float64) float64 { return (to - from) / from * 100 }
