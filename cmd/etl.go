package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/inflation/config"
	"github.com/etnz/inflation/etl"
)

// runner connects to the database as the dataflow user and returns the ETL
// runner with a function releasing it.
func runner(ctx context.Context, cfg config.Config, log *zap.Logger) (*etl.Runner, func(), error) {
	pool, err := etl.Open(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return etl.NewRunner(cfg.ETL, pool, log), pool.Close, nil
}

// etlCmd runs the extraction jobs.
type etlCmd struct {
	newTable  bool
	seriesID  string
	startYear int
	endYear   int
}

func (*etlCmd) Name() string     { return "etl" }
func (*etlCmd) Synopsis() string { return "load raw data from Eurostat, the US BLS and REST Countries" }
func (*etlCmd) Usage() string {
	return `infl etl [-new-table] <eurostat|usbls|restcountries>...

  Fetches each source and replaces its raw table. Without arguments every
  source is loaded.
`
}

func (c *etlCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.newTable, "new-table", false, "Create the raw tables when they do not exist")
	f.StringVar(&c.seriesID, "series", "", "US BLS series id, overrides the configuration")
	f.IntVar(&c.startYear, "start-year", 0, "US BLS first year, overrides the configuration")
	f.IntVar(&c.endYear, "end-year", 0, "US BLS last year, overrides the configuration")
}

func (c *etlCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	jobs := f.Args()
	if len(jobs) == 0 {
		jobs = []string{etl.JobEurostat, etl.JobUSBLS, etl.JobRestCountries}
	}
	for _, job := range jobs {
		if job == etl.JobEnrich {
			fmt.Fprintln(os.Stderr, "Error: use 'infl enrich' to build the enriched schema")
			return subcommands.ExitUsageError
		}
	}

	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()
	if c.seriesID != "" {
		cfg.ETL.USBLS.SeriesID = c.seriesID
	}
	if c.startYear != 0 {
		cfg.ETL.USBLS.StartYear = c.startYear
	}
	if c.endYear != 0 {
		cfg.ETL.USBLS.EndYear = c.endYear
	}

	r, closeDB, err := runner(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeDB()
	r.NewTable = c.newTable

	status := subcommands.ExitSuccess
	for _, name := range jobs {
		job, err := r.Job(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		// errors are logged by the runner, keep loading the other sources
		if err := job(ctx); err != nil {
			status = subcommands.ExitFailure
		}
	}
	return status
}

// enrichCmd builds the enriched schema.
type enrichCmd struct {
	list bool
}

func (*enrichCmd) Name() string     { return "enrich" }
func (*enrichCmd) Synopsis() string { return "build the enriched schema from the raw tables" }
func (*enrichCmd) Usage() string {
	return `infl enrich [-list] [<query.sql>[,<query.sql>]...]

  Runs the enrichment queries, all of them by default, in one transaction.
`
}

func (c *enrichCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "List the available queries")
}

func (c *enrichCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		for _, q := range etl.Queries() {
			fmt.Println(q)
		}
		return subcommands.ExitSuccess
	}
	var names []string
	for _, arg := range f.Args() {
		for _, name := range strings.Split(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()
	r, closeDB, err := runner(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeDB()

	if err := r.Enrich(ctx, names...); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// scheduleCmd runs the jobs periodically.
type scheduleCmd struct{}

func (*scheduleCmd) Name() string     { return "schedule" }
func (*scheduleCmd) Synopsis() string { return "run the ETL jobs on their cron schedule" }
func (*scheduleCmd) Usage() string {
	return `infl schedule

  Runs the ETL jobs on the cron specs of the configuration until
  interrupted.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {}

func (c *scheduleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot load configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, closeDB, err := runner(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeDB()

	s := etl.NewScheduler(ctx, log)
	if err := s.AddRunner(r, cfg.ETL.Cron); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if s.Len() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no job scheduled, check the etl.cron configuration")
		return subcommands.ExitFailure
	}
	s.Start()
	<-ctx.Done()
	s.Stop()
	return subcommands.ExitSuccess
}
