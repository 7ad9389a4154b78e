package etl

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/etnz/inflation/config"
)

// Scheduler runs jobs on cron specs with seconds.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func NewScheduler(baseCtx context.Context, logger *zap.Logger) *Scheduler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Add schedules job. An empty spec disables it.
func (s *Scheduler) Add(spec, name string, job func(context.Context) error) error {
	if spec == "" {
		s.logger.Info("job disabled", zap.String("job", name))
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		// errors are already logged by the runner
		_ = job(s.baseCtx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q for %s: %w", spec, name, err)
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// AddRunner schedules the jobs of r with the specs of cfg.
func (s *Scheduler) AddRunner(r *Runner, cfg config.ETLCronConfig) error {
	for _, j := range []struct {
		spec, name string
	}{
		{cfg.Eurostat, JobEurostat},
		{cfg.USBLS, JobUSBLS},
		{cfg.RestCountries, JobRestCountries},
		{cfg.Enrich, JobEnrich},
	} {
		job, err := r.Job(j.name)
		if err != nil {
			return err
		}
		if err := s.Add(j.spec, j.name, job); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of scheduled jobs.
func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() {
	s.logger.Info("cron started")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("cron stopped")
}
