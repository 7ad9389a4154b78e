package inflation

// Outcome is a contribution followed up to the sale of its units on the last
// day of the horizon.
type Outcome struct {
	Contribution
	CustodyFee      float64
	SellPrice       float64
	GrossValue      float64
	GrossGain       float64
	SellOutFee      float64
	NetPreTaxValue  float64
	NetPreTaxGain   float64
	Tax             float64
	NetPostTaxGain  float64
	NetPostTaxValue float64
}

// Liquidate sells every contribution at sellPrice.
//
// custody holds the custody fee of each row, as returned by AccrueCustody.
// Gains are measured against the gross spending, so that fees reduce them.
// Losses are not taxed.
func Liquidate(rows []Contribution, custody []float64, sellPrice float64, p Params) []Outcome {
	outcomes := make([]Outcome, len(rows))
	for i, r := range rows {
		o := Outcome{Contribution: r, CustodyFee: custody[i], SellPrice: sellPrice}
		o.GrossValue = r.Units * sellPrice
		o.GrossGain = o.GrossValue - r.Spending
		o.SellOutFee = p.SellOutFee.Of(o.GrossValue)
		o.NetPreTaxValue = o.GrossValue - o.SellOutFee - o.CustodyFee
		o.NetPreTaxGain = o.NetPreTaxValue - r.Spending
		if o.NetPreTaxGain >= 0 {
			o.Tax = p.Tax.Of(o.NetPreTaxGain)
		}
		o.NetPostTaxGain = o.NetPreTaxGain - o.Tax
		o.NetPostTaxValue = o.NetPreTaxValue - o.Tax
		outcomes[i] = o
	}
	return outcomes
}
