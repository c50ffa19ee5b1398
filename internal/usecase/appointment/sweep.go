package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/petcarelabs/vetclinic-api/internal/clock"
	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
)

// SweepOverdueAppointments marks active appointments whose slot passed
// more than an hour ago as completed. It is idempotent: completed and
// cancelled rows are never touched.
type SweepOverdueAppointments struct {
	repo   domain.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewSweepOverdueAppointments(
	repo domain.Repository,
	logger *zap.Logger,
) *SweepOverdueAppointments {
	return &SweepOverdueAppointments{
		repo:   repo,
		logger: logger,
		now:    clock.Now,
	}
}

func (uc *SweepOverdueAppointments) Execute(ctx context.Context) (int64, error) {
	cutoff := uc.now().Add(-time.Hour)

	updated, err := uc.repo.CompleteOverdue(ctx, cutoff)
	if err != nil {
		uc.logger.Error("overdue sweep failed", zap.Error(err))
		return 0, err
	}

	if updated > 0 {
		uc.logger.Info("overdue appointments completed",
			zap.Int64("count", updated),
			zap.Time("cutoff", cutoff),
		)
	}
	return updated, nil
}
