package scheduler

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"

	"homehub/internal/logging"
)

const DefaultSpec = "0 6 * * *"

// Scheduler runs one job on a cron spec in a fixed location. Overlapping runs
// are skipped so only one writer touches the output at a time.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	loc    *time.Location
	ctx    context.Context
	cancel context.CancelFunc
	job    func(ctx context.Context) error
	entry  cron.EntryID
}

func New(spec string, loc *time.Location) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		spec:   spec,
		loc:    loc,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) SetJob(f func(ctx context.Context) error) {
	s.job = f
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	logger := logging.Default()
	if s.job == nil {
		logger.Warn("⚠️ job not set, scheduler will not run anything")
		return nil
	}

	id, err := s.cron.AddFunc(s.spec, s.trigger)
	if err != nil {
		return goerr.Wrap(err, "invalid schedule", goerr.V("spec", s.spec))
	}
	s.entry = id

	s.cron.Start()
	logger.Info("📅 scheduler started",
		"spec", s.spec,
		"location", s.loc.String(),
		"next", s.cron.Entry(id).Next.Format(time.RFC3339))
	return nil
}

func (s *Scheduler) trigger() {
	logger := logging.Default()
	logger.Info("🕘 triggered scheduled run", "spec", s.spec)
	ctx := logging.With(s.ctx, logger)
	if err := s.job(ctx); err != nil {
		logger.Error("❌ scheduled run failed", "error", err)
	}
}

// Next returns the next activation after from.
func (s *Scheduler) Next(from time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(s.spec)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid schedule", goerr.V("spec", s.spec))
	}
	return sched.Next(from.In(s.loc)), nil
}

// Stop cancels the context of a running job, then waits for it to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	logging.Default().Info("📅 scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
