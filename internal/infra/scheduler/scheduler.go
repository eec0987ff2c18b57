package scheduler

import (
	"context"
	"time"

	"join_request_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ExpirySweeper is what the scheduler needs from the expiry service.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) error
}

// ExpiryScheduler runs the expiry sweep on a cron spec. Overlapping runs
// are skipped rather than queued, a slow sweep must not stack.
type ExpiryScheduler struct {
	cronEngine *cron.Cron
	sweeper    ExpirySweeper
	log        *logrus.Entry
	cronSpec   string
}

func NewExpiryScheduler(
	sweeper *app.ExpiryService,
	log *logrus.Entry,
	loc *time.Location,
	cronSpec string,
) *ExpiryScheduler {
	cronLog := cron.PrintfLogger(log)
	return &ExpiryScheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cronLog)),
		),
		sweeper:  sweeper,
		log:      log,
		cronSpec: cronSpec,
	}
}

func (s *ExpiryScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.log.Debug("Expiry sweep triggered")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.sweeper.SweepExpired(ctx); err != nil {
			s.log.WithError(err).Error("Expiry sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.log.WithField("cron_spec", s.cronSpec).Info("Expiry scheduler started")
	return nil
}

func (s *ExpiryScheduler) Stop() {
	s.log.Info("Stopping expiry scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.log.Info("Expiry scheduler stopped")
}
