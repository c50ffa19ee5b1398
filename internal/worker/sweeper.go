package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	ucappointment "github.com/petcarelabs/vetclinic-api/internal/usecase/appointment"
)

// Sweeper periodically runs the overdue-appointment sweep. A failed
// run is logged and retried on the next tick; it never stops the loop.
type Sweeper struct {
	sweep    *ucappointment.SweepOverdueAppointments
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewSweeper(
	sweep *ucappointment.SweepOverdueAppointments,
	interval time.Duration,
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		sweep:    sweep,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("starting appointment sweeper",
		zap.Duration("interval", s.interval),
	)
	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// First pass right away so a restart catches up immediately.
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("appointment sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("appointment sweeper cancelled")
			return
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	if _, err := s.sweep.Execute(ctx); err != nil {
		s.logger.Error("sweep run failed", zap.Error(err))
	}
}
