package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/petcarelabs/vetclinic-api/internal/audit"
	"github.com/petcarelabs/vetclinic-api/internal/clock"
	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

// CancelAppointmentClient implements the two-step self-service
// cancellation: Check backs the confirmation screen, Execute performs
// the mutation, and both enforce the same preconditions so the flow
// survives state changes between the two requests.
type CancelAppointmentClient struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	logger *zap.Logger
	now    func() time.Time
}

func NewCancelAppointmentClient(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
) *CancelAppointmentClient {
	return &CancelAppointmentClient{
		repo:   repo,
		audit:  auditor,
		logger: logger,
		now:    clock.Now,
	}
}

func (uc *CancelAppointmentClient) cancellable(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Appointment, error) {

	if actor.Role != domain.RoleClient {
		return nil, httperr.ErrForbidden
	}

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := []domain.Status{domain.StatusScheduled, domain.StatusConfirmed}
	if err := domain.CanClientMutate(ap, actor.UserID, allowed, uc.now()); err != nil {
		return nil, err
	}
	return ap, nil
}

// Check validates without mutating; it backs the confirmation step.
func (uc *CancelAppointmentClient) Check(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Appointment, error) {
	return uc.cancellable(ctx, actor, id)
}

func (uc *CancelAppointmentClient) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Appointment, error) {

	ap, err := uc.cancellable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := domain.CancelByClient(ap, actor.UserID, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_cancelled_by_client",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
