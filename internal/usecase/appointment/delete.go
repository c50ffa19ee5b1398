package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/petcarelabs/vetclinic-api/internal/audit"
	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
)

// DeleteAppointment is the staff-only hard delete.
type DeleteAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	logger *zap.Logger
}

func NewDeleteAppointment(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:   repo,
		audit:  auditor,
		logger: logger,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) error {

	if !actor.Staff() {
		return httperr.ErrForbidden
	}

	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &id,
	})

	return nil
}
