package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/etnz/inflation"
	"github.com/etnz/inflation/store"
)

// CPIs renders the list of available indices.
func CPIs(items []store.CPISummary) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Consumer Price Indices\n\n")
	if len(items) == 0 {
		fmt.Fprintln(&b, "No index available, run the ETL jobs first.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Id | Index | Country |")
	fmt.Fprintln(&b, "|---:|:---|:---|")
	for _, item := range items {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", item.ID, item.Name, item.CountryName)
	}
	return b.String()
}

// CPI renders an index, its values and its annual inflation rates.
func CPI(d *store.CPIDetail, values []store.CPIValue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Name)
	fmt.Fprintf(&b, "Country: %s (%s)\n\n", d.CountryName, d.CurrencySymbol)
	fmt.Fprintf(&b, "Published by %s.", d.InstitutionName)
	if d.DocumentationLink != "" {
		fmt.Fprintf(&b, " See %s.", d.DocumentationLink)
	}
	fmt.Fprint(&b, "\n\n")

	ConditionalBlock(&b, func(w io.Writer) bool {
		byYear := make(map[int]float64, len(values))
		for _, v := range values {
			byYear[v.Year] = v.Value
		}
		rates := inflation.AnnualRates(byYear)

		fmt.Fprint(w, "## Values\n\n")
		fmt.Fprintln(w, "| Year | Index | Inflation |")
		fmt.Fprintln(w, "|---:|---:|---:|")
		for _, v := range values {
			rate := ""
			if r, ok := rates[v.Year]; ok {
				rate = r.StringFixedBank(2) + "%"
			}
			fmt.Fprintf(w, "| %d | %s | %s |\n", v.Year, decimal.NewFromFloat(v.Value).String(), rate)
		}
		fmt.Fprintln(w)
		return len(values) > 0
	})

	if d.LegalMentions != "" {
		fmt.Fprintf(&b, "_%s_\n", d.LegalMentions)
	}
	return b.String()
}

// Correction is an amount of a year expressed in the money of another year.
type Correction struct {
	From, To        int
	Amount          decimal.Decimal
	CorrectedAmount decimal.Decimal
	InflationRate   decimal.Decimal
	Currency        string
}

// NewCorrection corrects amount from the index value of year 'from' to the
// one of year 'to', rounded to cents.
func NewCorrection(from, to int, amount, cpiFrom, cpiTo float64, currency string) Correction {
	return Correction{
		From:            from,
		To:              to,
		Amount:          inflation.Round(amount, 2),
		CorrectedAmount: inflation.Round(inflation.Correct(amount, cpiFrom, cpiTo), 2),
		InflationRate:   inflation.Round(inflation.InflationRate(cpiFrom, cpiTo), 2),
		Currency:        currency,
	}
}

func (c Correction) String() string {
	return fmt.Sprintf("%s in %d is worth %s in %d (inflation %s%%)",
		inflation.M(c.Amount, c.Currency), c.From,
		inflation.M(c.CorrectedAmount, c.Currency), c.To,
		c.InflationRate.StringFixedBank(2))
}

// RenderCorrection renders a correction.
func RenderCorrection(c Correction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Inflation Correction %d to %d\n\n", c.From, c.To)
	fmt.Fprintf(&b, "%s.\n", c)
	return b.String()
}
