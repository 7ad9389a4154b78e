package inflation

import (
	"github.com/shopspring/decimal"
)

// Table is an ordered list of named values. A value is either a decimal
// amount or a string.
type Table struct {
	keys   []string
	values map[string]any
}

func newTable() *Table { return &Table{values: make(map[string]any)} }

// set stores v under key, keeping the first insertion position of key.
func (t *Table) set(key string, v any) *Table {
	if _, exists := t.values[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
	return t
}

// amount rounds x to cents and stores it under key.
func (t *Table) amount(key string, x float64) *Table { return t.set(key, Round(x, 2)) }

// Keys returns the table keys in insertion order.
func (t *Table) Keys() []string { return append([]string(nil), t.keys...) }

// Amount returns the amount stored under key, false if there is none.
func (t *Table) Amount(key string) (decimal.Decimal, bool) {
	d, ok := t.values[key].(decimal.Decimal)
	return d, ok
}

// Text returns the string stored under key, false if there is none.
func (t *Table) Text(key string) (string, bool) {
	s, ok := t.values[key].(string)
	return s, ok
}

// MarshalJSON writes the table as a JSON object with keys in insertion order
// and amounts as plain JSON numbers.
func (t *Table) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, k := range t.keys {
		switch v := t.values[k].(type) {
		case decimal.Decimal:
			w.Number(k, v)
		default:
			w.Append(k, v)
		}
	}
	return w.MarshalJSON()
}

// Report holds the result of a projection: headline figures in Summary and
// their breakdown in Details.
type Report struct {
	Summary *Table
	Details *Table
}

func (r *Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("summary", r.Summary)
	w.Append("details", r.Details)
	return w.MarshalJSON()
}

// Totals are the column sums of a set of outcomes.
type Totals struct {
	Spending        float64
	BuyInFee        float64
	CustodyFee      float64
	SellOutFee      float64
	NetPreTaxValue  float64
	NetPreTaxGain   float64
	Tax             float64
	NetPostTaxGain  float64
	NetPostTaxValue float64
}

// Sum adds up the columns of outcomes, in order.
func Sum(outcomes []Outcome) Totals {
	var t Totals
	for _, o := range outcomes {
		t.Spending += o.Spending
		t.BuyInFee += o.BuyInFee
		t.CustodyFee += o.CustodyFee
		t.SellOutFee += o.SellOutFee
		t.NetPreTaxValue += o.NetPreTaxValue
		t.NetPreTaxGain += o.NetPreTaxGain
		t.Tax += o.Tax
		t.NetPostTaxGain += o.NetPostTaxGain
		t.NetPostTaxValue += o.NetPostTaxValue
	}
	return t
}

// yield returns gain as a percentage of spending, 0 when nothing was spent.
func yield(gain, spending float64) float64 {
	if spending == 0 {
		return 0
	}
	return gain / spending * 100
}

// NewReport assembles the summary and the details of a projection.
func NewReport(p Params, t Totals, d Deflator) *Report {
	summary := newTable().
		amount("total_spending", t.Spending).
		amount("net_post_tax_final_value", t.NetPostTaxValue).
		amount("net_post_tax_inflation_corrected_final_value", d.Real(t.NetPostTaxValue)).
		amount("net_post_tax_final_gain", t.NetPostTaxGain).
		amount("net_post_tax_inflation_corrected_final_gain", d.Real(t.NetPostTaxGain)).
		amount("total_inflation_pct", d.TotalInflation()).
		amount("net_post_tax_yield", yield(t.NetPostTaxGain, t.Spending)).
		amount("net_post_tax_inflation_corrected_yield", yield(d.Real(t.NetPostTaxGain), t.Spending)).
		set("currency", p.Currency)

	details := newTable().
		amount("initial_amount_invested", p.InitialAmount).
		set("recurring_investment_frequency", p.Frequency.String()).
		amount("recurring_investment_amount", p.RecurringAmount).
		amount("total_spending", t.Spending).
		amount("inflation_corrected_total_spending", d.Real(t.Spending)).
		amount("buy_in_fees", t.BuyInFee).
		amount("annual_gross_yield", float64(p.GrossYield)).
		amount("total_custodian_fees", t.CustodyFee).
		amount("sell_out_fees", t.SellOutFee).
		amount("inflation_corrected_sell_out_fees", d.Real(t.SellOutFee)).
		amount("net_pre_tax_final_value", t.NetPreTaxValue).
		amount("net_pre_tax_inflation_corrected_final_value", d.Real(t.NetPreTaxValue)).
		amount("net_pre_tax_final_gain", t.NetPreTaxGain).
		amount("net_pre_tax_inflation_corrected_final_gain", d.Real(t.NetPreTaxGain)).
		amount("tax_on_gains", t.Tax).
		amount("inflation_corrected_tax_on_gains", d.Real(t.Tax)).
		amount("net_post_tax_final_gain", t.NetPostTaxGain).
		amount("net_post_tax_inflation_corrected_final_gain", d.Real(t.NetPostTaxGain)).
		amount("net_post_tax_final_value", t.NetPostTaxValue).
		amount("net_post_tax_inflation_corrected_final_value", d.Real(t.NetPostTaxValue)).
		set("currency", p.Currency)

	return &Report{Summary: summary, Details: details}
}
