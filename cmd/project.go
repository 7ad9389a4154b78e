package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/inflation"
	"github.com/etnz/inflation/date"
	"github.com/etnz/inflation/renderer"
)

// projectCmd holds the flags for the 'project' subcommand.
type projectCmd struct {
	initial    float64
	frequency  string
	recurring  float64
	years      int
	yield      float64
	inflation  float64
	buyIn      float64
	custody    float64
	sellOut    float64
	tax        float64
	currency   string
	accrual    string
	jsonOutput bool
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project a long-term investment plan" }
func (*projectCmd) Usage() string {
	return `infl project [-initial <amount>] [-recurring <amount>] [-frequency weekly|monthly|annual] [-years <n>] ...

  Projects the value of an investment plan after fees, taxes and inflation.
  At least one of -initial and -recurring is required. Rates and fees are in
  percent.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	def := inflation.DefaultParams()
	f.Float64Var(&c.initial, "initial", 0, "Amount invested on the first day")
	f.StringVar(&c.frequency, "frequency", def.Frequency.String(), "Recurring investment frequency: weekly, monthly or annual")
	f.Float64Var(&c.recurring, "recurring", 0, "Amount invested at each period")
	f.IntVar(&c.years, "years", def.Years, "Investment duration in years")
	f.Float64Var(&c.yield, "yield", float64(def.GrossYield), "Annual gross yield")
	f.Float64Var(&c.inflation, "inflation", float64(def.InflationRate), "Annual inflation")
	f.Float64Var(&c.buyIn, "buy-in-fee", float64(def.BuyInFee), "Fee on every amount invested")
	f.Float64Var(&c.custody, "custody-fee", float64(def.CustodyFee), "Annual custodian fee")
	f.Float64Var(&c.sellOut, "sell-out-fee", float64(def.SellOutFee), "Fee on the final sale")
	f.Float64Var(&c.tax, "tax", float64(def.Tax), "Tax on gains")
	f.StringVar(&c.currency, "currency", def.Currency, "Currency code or symbol")
	f.StringVar(&c.accrual, "custody-accrual", inflation.FirstYearCustody.String(), "Custody fee policy: first_year or cumulative")
	f.BoolVar(&c.jsonOutput, "json", false, "Print the report as JSON")
}

func (c *projectCmd) params() (inflation.Params, error) {
	freq, err := date.ParsePeriod(c.frequency)
	if err != nil {
		return inflation.Params{}, err
	}
	accrual, err := inflation.ParseCustodyAccrual(c.accrual)
	if err != nil {
		return inflation.Params{}, err
	}
	if c.initial == 0 && c.recurring == 0 {
		return inflation.Params{}, fmt.Errorf("%w: nothing invested, set -initial or -recurring", inflation.ErrInvalidParams)
	}
	p := inflation.Params{
		InitialAmount:   c.initial,
		Frequency:       freq,
		RecurringAmount: c.recurring,
		Years:           c.years,
		GrossYield:      inflation.Percent(c.yield),
		InflationRate:   inflation.Percent(c.inflation),
		BuyInFee:        inflation.Percent(c.buyIn),
		CustodyFee:      inflation.Percent(c.custody),
		SellOutFee:      inflation.Percent(c.sellOut),
		Tax:             inflation.Percent(c.tax),
		Currency:        c.currency,
		Custody:         accrual,
	}
	return p, p.Validate()
}

func (c *projectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := c.params()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	proj, err := inflation.Project(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot project: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(proj.Report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot encode report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.Projection(p, proj.Report))
	return subcommands.ExitSuccess
}
