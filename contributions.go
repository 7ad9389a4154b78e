package inflation

import (
	"fmt"

	"github.com/etnz/inflation/date"
)

// Contribution is one purchase of the plan: the initial lump sum or one
// recurring investment.
type Contribution struct {
	Date     date.Date
	Spending float64 // gross amount taken from the investor
	BuyInFee float64
	Invested float64 // Spending net of the buy-in fee
	BuyPrice float64
	Units    float64
}

// Schedule lays out the contributions of p and buys them at the price of
// their date.
//
// The initial amount is invested on b.Start. Recurring amounts follow on
// b.Start + i weeks for i in [1, 52*years), b.Start + i months for i in
// [0, 12*years) or b.Start + i years for i in [0, years), so that a monthly or
// annual plan makes its first recurring investment on the start date too.
func Schedule(p Params, b Baseline, prices *PricePath) ([]Contribution, error) {
	type purchase struct {
		on     date.Date
		amount float64
	}
	purchases := []purchase{{b.Start, p.InitialAmount}}
	first := 0
	if p.Frequency == date.Weekly {
		first = 1
	}
	for i := first; i < p.Years*p.Frequency.PerYear(); i++ {
		purchases = append(purchases, purchase{p.Frequency.Step(b.Start, i), p.RecurringAmount})
	}

	rows := make([]Contribution, 0, len(purchases))
	for _, buy := range purchases {
		price, ok := prices.Price(buy.on)
		if !ok {
			return nil, fmt.Errorf("%w: no price on %v for a contribution", ErrInvariant, buy.on)
		}
		fee := p.BuyInFee.Of(buy.amount)
		invested := buy.amount - fee
		rows = append(rows, Contribution{
			Date:     buy.on,
			Spending: buy.amount,
			BuyInFee: fee,
			Invested: invested,
			BuyPrice: price,
			Units:    invested / price,
		})
	}
	return rows, nil
}
