package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/petcarelabs/vetclinic-api/internal/audit"
	"github.com/petcarelabs/vetclinic-api/internal/clock"
	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/infra/slotlock"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

// EditAppointmentClient is the self-service reschedule path. It never
// touches status, and it verifies ownership + original state + original
// future-ness twice: once up front and once right before the write, so
// a status change between page-load and submit cannot slip through.
type EditAppointmentClient struct {
	repo   domain.Repository
	locker slotlock.Locker
	audit  *audit.Dispatcher
	logger *zap.Logger
	now    func() time.Time
}

func NewEditAppointmentClient(
	repo domain.Repository,
	locker slotlock.Locker,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
) *EditAppointmentClient {
	return &EditAppointmentClient{
		repo:   repo,
		locker: locker,
		audit:  auditor,
		logger: logger,
		now:    clock.Now,
	}
}

func (uc *EditAppointmentClient) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	in EditAppointmentInput,
) (*models.Appointment, error) {

	if actor.Role != domain.RoleClient {
		return nil, httperr.ErrForbidden
	}

	editable := []domain.Status{domain.StatusScheduled}

	original, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if err := domain.CanClientMutate(original, actor.UserID, editable, now); err != nil {
		return nil, err
	}

	at, err := domain.ParseSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSlot(at, now); err != nil {
		return nil, err
	}

	if in.PetID == 0 {
		return nil, httperr.Validation("pet_id", "Seleccione una mascota.")
	}
	pet, err := uc.repo.GetPet(ctx, in.PetID)
	if err != nil || pet.OwnerID != actor.UserID {
		if err != nil && !errors.Is(err, httperr.ErrNotFound) {
			return nil, err
		}
		return nil, httperr.Validation("pet_id", "Mascota inválida.")
	}

	if _, err := uc.repo.GetVeterinarian(ctx, in.VeterinarianID); err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			return nil, httperr.Validation("veterinarian_id", "Veterinario no encontrado.")
		}
		return nil, err
	}
	if _, err := uc.repo.GetAppointmentType(ctx, in.AppointmentTypeID); err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			return nil, httperr.Validation("appointment_type_id", "Tipo de cita no encontrado.")
		}
		return nil, err
	}

	var updated *models.Appointment

	err = uc.locker.WithSlotLock(ctx, in.VeterinarianID, at, func(lockCtx context.Context) error {
		taken, err := uc.repo.SlotTaken(lockCtx, in.VeterinarianID, at, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSlotTaken
		}

		// Re-fetch and re-check: the appointment may have changed
		// between the pre-check read and now.
		ap, err := uc.repo.GetAppointment(lockCtx, id)
		if err != nil {
			return err
		}
		if err := domain.CanClientMutate(ap, actor.UserID, editable, uc.now()); err != nil {
			return err
		}

		ap.ScheduledAt = at
		ap.PetID = in.PetID
		ap.VeterinarianID = in.VeterinarianID
		ap.AppointmentTypeID = in.AppointmentTypeID
		ap.Reason = in.Reason
		ap.Notes = in.Notes

		if err := uc.repo.UpdateAppointment(lockCtx, ap); err != nil {
			return err
		}
		updated = ap
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			return nil, httperr.Validation("time", "Horario ocupado.")
		}
		if errors.Is(err, slotlock.ErrNotAcquired) {
			return nil, httperr.Validation("time", "El horario está siendo reservado por otra persona. Intente de nuevo.")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &updated.ID,
	})

	return updated, nil
}
