// Package renderer renders projections and consumer price indices as
// markdown.
package renderer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/etnz/inflation"
)

// percentKeys are the report entries expressed in percent.
var percentKeys = map[string]bool{
	"total_inflation_pct":                    true,
	"net_post_tax_yield":                     true,
	"net_post_tax_inflation_corrected_yield": true,
	"annual_gross_yield":                     true,
}

// label turns a report key into a column label: "net_post_tax_yield" is
// "Net post tax yield".
func label(key string) string {
	key = strings.TrimSuffix(key, "_pct")
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// value formats the entry key of t.
func value(t *inflation.Table, key, currency string) string {
	if d, ok := t.Amount(key); ok {
		if percentKeys[key] {
			return d.StringFixedBank(2) + "%"
		}
		return inflation.M(d, currency).String()
	}
	s, _ := t.Text(key)
	return s
}

// Projection renders the parameters and the report of a projection.
func Projection(p inflation.Params, r *inflation.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Investment Projection over %d years\n\n", p.Years)
	fmt.Fprintf(&b, "%s initially, then %s %s, %s gross yield, %s inflation.\n\n",
		inflation.M(decimal.NewFromFloat(p.InitialAmount), p.Currency),
		inflation.M(decimal.NewFromFloat(p.RecurringAmount), p.Currency),
		p.Frequency,
		p.GrossYield,
		p.InflationRate,
	)
	fmt.Fprintf(&b, "Fees: %s buy-in, %s custody (%s), %s sell-out. Tax on gains: %s.\n\n",
		p.BuyInFee, p.CustodyFee, p.Custody, p.SellOutFee, p.Tax)

	table := func(title string, t *inflation.Table) {
		fmt.Fprintf(&b, "## %s\n\n", title)
		fmt.Fprintln(&b, "| | Value |")
		fmt.Fprintln(&b, "|:---|---:|")
		for _, key := range t.Keys() {
			if key == "currency" {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s |\n", label(key), value(t, key, p.Currency))
		}
		fmt.Fprintln(&b)
	}
	table("Summary", r.Summary)
	table("Details", r.Details)
	return b.String()
}
