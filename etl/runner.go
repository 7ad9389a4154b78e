package etl

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/etnz/inflation/config"
	"github.com/etnz/inflation/eurostat"
	"github.com/etnz/inflation/provider"
	"github.com/etnz/inflation/restcountries"
	"github.com/etnz/inflation/usbls"
)

// Job names.
const (
	JobEurostat      = "eurostat"
	JobUSBLS         = "usbls"
	JobRestCountries = "restcountries"
	JobEnrich        = "enrich"
)

// Sources overrides the source URLs, mostly for tests. Empty values use the
// public endpoints.
type Sources struct {
	Eurostat      string
	USBLS         string
	RestCountries string
}

// Runner runs the ETL jobs. Every run is logged with its own run_id.
type Runner struct {
	Config   config.ETLConfig
	Client   *provider.Client
	Loader   *Loader
	Enricher *Enricher
	Logger   *zap.Logger
	Sources  Sources
	// NewTable lets the loaders create missing raw tables.
	NewTable bool
}

// NewRunner wires a Runner on db.
func NewRunner(cfg config.ETLConfig, db DB, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Config:   cfg,
		Client:   provider.New(provider.Options{Timeout: cfg.HTTPTimeout, DiskCache: cfg.DiskCache, Logger: log}),
		Loader:   &Loader{DB: db, Logger: log},
		Enricher: &Enricher{DB: db, RawSchema: cfg.Schema, Logger: log},
		Logger:   log,
	}
}

// Job returns the job called name.
func (r *Runner) Job(name string) (func(context.Context) error, error) {
	jobs := r.jobs()
	job, ok := jobs[name]
	if !ok {
		return nil, fmt.Errorf("unknown job %q, available: %v", name, Jobs())
	}
	return job, nil
}

// Jobs returns the job names, sorted.
func Jobs() []string {
	var r Runner
	names := make([]string, 0, 4)
	for name := range r.jobs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Runner) jobs() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		JobEurostat:      r.Eurostat,
		JobUSBLS:         r.USBLS,
		JobRestCountries: r.RestCountries,
		JobEnrich:        func(ctx context.Context) error { return r.Enrich(ctx) },
	}
}

// run executes job with a logger carrying the job name and a new run id.
func (r *Runner) run(ctx context.Context, name string, job func(context.Context, *zap.Logger) error) error {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("job", name), zap.String("run_id", uuid.NewString()))
	start := time.Now()
	log.Info("job started")
	if err := job(ctx, log); err != nil {
		log.Error("job failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Info("job done", zap.Duration("duration", time.Since(start)))
	return nil
}

func (r *Runner) loader(log *zap.Logger) *Loader {
	return &Loader{DB: r.Loader.DB, Logger: log}
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Eurostat reloads the Eurostat HICP raw table.
func (r *Runner) Eurostat(ctx context.Context) error {
	return r.run(ctx, JobEurostat, func(ctx context.Context, log *zap.Logger) error {
		obs, err := eurostat.Fetch(ctx, r.Client, or(r.Sources.Eurostat, eurostat.URL))
		if err != nil {
			return err
		}
		log.Info("eurostat dataset parsed", zap.Int("observations", len(obs)))
		_, err = r.loader(log).Replace(ctx, EurostatTable(r.Config.Schema), EurostatRows(obs), r.NewTable)
		return err
	})
}

// USBLS reloads the BLS raw table with the configured series.
func (r *Runner) USBLS(ctx context.Context) error {
	return r.run(ctx, JobUSBLS, func(ctx context.Context, log *zap.Logger) error {
		c := r.Config.USBLS
		req := usbls.Request{
			URL:       r.Sources.USBLS,
			SeriesID:  c.SeriesID,
			StartYear: c.StartYear,
			EndYear:   c.EndYear,
			APIKey:    c.APIKey,
		}
		if req.EndYear == 0 {
			req.EndYear = time.Now().Year()
		}
		responses, err := usbls.Fetch(ctx, r.Client, req, log)
		if err != nil {
			return err
		}
		obs, err := usbls.Parse(responses)
		if err != nil {
			return err
		}
		_, err = r.loader(log).Replace(ctx, USBLSTable(r.Config.Schema), USBLSRows(obs), r.NewTable)
		return err
	})
}

// RestCountries reloads the countries raw table.
func (r *Runner) RestCountries(ctx context.Context) error {
	return r.run(ctx, JobRestCountries, func(ctx context.Context, log *zap.Logger) error {
		countries, err := restcountries.Fetch(ctx, r.Client, or(r.Sources.RestCountries, restcountries.URL))
		if err != nil {
			return err
		}
		_, err = r.loader(log).Replace(ctx, RestCountriesTable(r.Config.Schema), RestCountriesRows(countries), r.NewTable)
		return err
	})
}

// Enrich rebuilds the enriched schema with the named queries, all of them by
// default.
func (r *Runner) Enrich(ctx context.Context, names ...string) error {
	return r.run(ctx, JobEnrich, func(ctx context.Context, log *zap.Logger) error {
		e := *r.Enricher
		e.Logger = log
		return e.Enrich(ctx, names...)
	})
}
