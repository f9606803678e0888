package scheduler

import (
	"context"
	"time"

	"lead_followup_engine/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Dispatcher is the slice of the dispatch service the scheduler needs.
type Dispatcher interface {
	RunDispatch(ctx context.Context) (app.DispatchSummary, error)
}

// DispatchScheduler triggers the dispatch worker on a cron spec. The worker
// itself guards against overlapping runs; the scheduler just ticks.
type DispatchScheduler struct {
	cronEngine *cron.Cron
	dispatcher Dispatcher
	logger     *logrus.Logger
	cronSpec   string
}

func NewDispatchScheduler(dispatcher Dispatcher, logger *logrus.Logger, cronSpec string) *DispatchScheduler {
	return &DispatchScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)),
		dispatcher: dispatcher,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *DispatchScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Debug("Cron tick: running follow-up dispatch")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		summary, err := s.dispatcher.RunDispatch(ctx)
		if err != nil {
			s.logger.Errorf("Dispatch run failed: %v", err)
			return
		}
		if summary.Processed > 0 || summary.Cancelled > 0 || len(summary.Errors) > 0 {
			s.logger.Infof("Dispatch run: %d sent, %d cancelled, %d error(s)",
				summary.Processed, summary.Cancelled, len(summary.Errors))
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("Dispatch scheduler started with spec %q", s.cronSpec)
	return nil
}

// Stop halts new ticks and waits for a running job to finish.
func (s *DispatchScheduler) Stop() {
	s.logger.Info("Stopping dispatch scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Dispatch scheduler stopped")
}
