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

type EditAppointmentInput struct {
	Date string
	Time string

	PetID             uint
	VeterinarianID    uint
	AppointmentTypeID uint

	// Staff only; ignored on the client path.
	Status string

	Reason string
	Notes  string
}

// EditAppointmentStaff lets admins and veterinarians reschedule and
// re-state an appointment.
type EditAppointmentStaff struct {
	repo   domain.Repository
	locker slotlock.Locker
	audit  *audit.Dispatcher
	logger *zap.Logger
	now    func() time.Time
}

func NewEditAppointmentStaff(
	repo domain.Repository,
	locker slotlock.Locker,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
) *EditAppointmentStaff {
	return &EditAppointmentStaff{
		repo:   repo,
		locker: locker,
		audit:  auditor,
		logger: logger,
		now:    clock.Now,
	}
}

func (uc *EditAppointmentStaff) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	in EditAppointmentInput,
) (*models.Appointment, error) {

	if !actor.Staff() {
		return nil, httperr.ErrForbidden
	}

	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	at, err := domain.ParseSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	rescheduled := !at.Equal(ap.ScheduledAt) || in.VeterinarianID != ap.VeterinarianID

	// Temporal rules bind genuine reschedules only. Keeping the slot
	// and flipping status must work on elapsed appointments, or a
	// no-show could never be recorded.
	if rescheduled {
		if err := domain.ValidateSlot(at, uc.now()); err != nil {
			return nil, err
		}
	}

	if !domain.Status(in.Status).EditableByStaff() {
		return nil, httperr.Validation("status", "Estado inválido.")
	}

	if err := uc.validateReferences(ctx, in); err != nil {
		return nil, err
	}

	apply := func(lockCtx context.Context) error {
		if rescheduled {
			taken, err := uc.repo.SlotTaken(lockCtx, in.VeterinarianID, at, ap.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrSlotTaken
			}
		}

		ap.ScheduledAt = at
		ap.PetID = in.PetID
		ap.VeterinarianID = in.VeterinarianID
		ap.AppointmentTypeID = in.AppointmentTypeID
		ap.Status = in.Status
		ap.Reason = in.Reason
		ap.Notes = in.Notes

		return uc.repo.UpdateAppointment(lockCtx, ap)
	}

	if rescheduled {
		err = uc.locker.WithSlotLock(ctx, in.VeterinarianID, at, apply)
	} else {
		err = apply(ctx)
	}

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
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func (uc *EditAppointmentStaff) validateReferences(
	ctx context.Context,
	in EditAppointmentInput,
) error {

	if _, err := uc.repo.GetPet(ctx, in.PetID); err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			return httperr.Validation("pet_id", "Mascota inválida.")
		}
		return err
	}
	if _, err := uc.repo.GetVeterinarian(ctx, in.VeterinarianID); err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			return httperr.Validation("veterinarian_id", "Veterinario no encontrado.")
		}
		return err
	}
	if _, err := uc.repo.GetAppointmentType(ctx, in.AppointmentTypeID); err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			return httperr.Validation("appointment_type_id", "Tipo de cita no encontrado.")
		}
		return err
	}
	return nil
}
