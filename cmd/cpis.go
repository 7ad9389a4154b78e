package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/inflation/renderer"
	"github.com/etnz/inflation/store"
)

// cpisCmd lists the indices.
type cpisCmd struct{}

func (*cpisCmd) Name() string     { return "cpis" }
func (*cpisCmd) Synopsis() string { return "list the consumer price indices" }
func (*cpisCmd) Usage() string {
	return `infl cpis

  Lists the consumer price indices available in the database.
`
}

func (c *cpisCmd) SetFlags(f *flag.FlagSet) {}

func (c *cpisCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	repo, db, err := openStore(cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close(db)

	items, err := repo.ListCPIs(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot list indices: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CPIs(items))
	return subcommands.ExitSuccess
}

// cpiCmd shows an index.
type cpiCmd struct{}

func (*cpiCmd) Name() string     { return "cpi" }
func (*cpiCmd) Synopsis() string { return "show a consumer price index" }
func (*cpiCmd) Usage() string {
	return `infl cpi <id>

  Shows an index, its annual values and its annual inflation rates.
`
}

func (c *cpiCmd) SetFlags(f *flag.FlagSet) {}

func (c *cpiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: cpi takes exactly one index id")
		return subcommands.ExitUsageError
	}
	id, err := parseID(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	repo, db, err := openStore(cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close(db)

	detail, err := repo.GetCPI(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Error: index %d not found\n", id)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read index %d: %v\n", id, err)
		return subcommands.ExitFailure
	}
	values, err := repo.ListCPIValues(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read index %d values: %v\n", id, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CPI(detail, values))
	return subcommands.ExitSuccess
}

// correctCmd corrects an amount for inflation.
type correctCmd struct{}

func (*correctCmd) Name() string     { return "correct" }
func (*correctCmd) Synopsis() string { return "express an amount of a year in the money of another year" }
func (*correctCmd) Usage() string {
	return `infl correct <id> <year_a> <year_b> <amount>

  Corrects amount, in the money of year_a, into the money of year_b, using
  the index <id>.
`
}

func (c *correctCmd) SetFlags(f *flag.FlagSet) {}

// args parses and checks the command arguments.
func (c *correctCmd) args(args []string, now time.Time) (id int64, from, to int, amount float64, err error) {
	if len(args) != 4 {
		return 0, 0, 0, 0, errors.New("correct takes an index id, two years and an amount")
	}
	if id, err = parseID(args[0]); err != nil {
		return
	}
	for i, y := range []*int{&from, &to} {
		if *y, err = strconv.Atoi(args[1+i]); err != nil || *y <= 1900 || *y > now.Year() {
			return 0, 0, 0, 0, fmt.Errorf("invalid year %q, want a year after 1900 and not in the future", args[1+i])
		}
	}
	if amount, err = strconv.ParseFloat(args[3], 64); err != nil || amount <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("invalid amount %q, want a positive number", args[3])
	}
	return id, from, to, amount, nil
}

func (c *correctCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, from, to, amount, err := c.args(f.Args(), time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, _, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	repo, db, err := openStore(cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close(db)

	detail, err := repo.GetCPI(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read index %d: %v\n", id, err)
		return subcommands.ExitFailure
	}
	values, err := repo.ListCPIValues(ctx, id, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read index %d values: %v\n", id, err)
		return subcommands.ExitFailure
	}
	byYear := make(map[int]float64, len(values))
	for _, v := range values {
		byYear[v.Year] = v.Value
	}
	for _, y := range []int{from, to} {
		if _, ok := byYear[y]; !ok {
			fmt.Fprintf(os.Stderr, "Error: index %d has no value for %d\n", id, y)
			return subcommands.ExitFailure
		}
	}
	printMarkdown(renderer.RenderCorrection(renderer.NewCorrection(from, to, amount, byYear[from], byYear[to], detail.CurrencySymbol)))
	return subcommands.ExitSuccess
}
