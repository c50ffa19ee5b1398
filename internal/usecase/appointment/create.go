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

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Date string
	Time string

	VeterinarianID    uint
	AppointmentTypeID uint

	Reason string
	Notes  string

	// Either an existing pet...
	PetID uint

	// ...or an inline new pet owned by the caller.
	RegisterNewPet  bool
	NewPetName      string
	NewPetSpecies   string
	NewPetBreed     string
	NewPetBirthDate *time.Time
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	locker slotlock.Locker
	audit  *audit.Dispatcher
	logger *zap.Logger
	now    func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	locker slotlock.Locker,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		locker: locker,
		audit:  auditor,
		logger: logger,
		now:    clock.Now,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	at, err := domain.ParseSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if err := domain.ValidateSlot(at, now); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ScheduledAt:       at,
		Status:            string(domain.InitialStatus()),
		Reason:            in.Reason,
		Notes:             in.Notes,
		VeterinarianID:    in.VeterinarianID,
		AppointmentTypeID: in.AppointmentTypeID,
	}

	var newPet *models.Pet
	if in.RegisterNewPet {
		newPet, err = uc.buildNewPet(actor, in, now)
		if err != nil {
			return nil, err
		}
	} else {
		if err := uc.resolveExistingPet(ctx, actor, in, ap); err != nil {
			return nil, err
		}
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

	err = uc.locker.WithSlotLock(ctx, in.VeterinarianID, at, func(lockCtx context.Context) error {
		taken, err := uc.repo.SlotTaken(lockCtx, in.VeterinarianID, at, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrSlotTaken
		}
		return uc.repo.CreateAppointment(lockCtx, ap, newPet)
	})

	if err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			uc.logger.Warn("double booking rejected",
				zap.Uint("veterinarian_id", in.VeterinarianID),
				zap.Time("scheduled_at", at),
			)
			return nil, httperr.Validation("time", "Lo sentimos, este horario acaba de ser reservado.")
		}
		if errors.Is(err, slotlock.ErrNotAcquired) {
			return nil, httperr.Validation("time", "El horario está siendo reservado por otra persona. Intente de nuevo.")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func (uc *CreateAppointment) buildNewPet(
	actor domain.Actor,
	in CreateAppointmentInput,
	now time.Time,
) (*models.Pet, error) {

	ve := &httperr.ValidationError{}
	if in.NewPetName == "" {
		ve.Add("new_pet_name", "El nombre de la mascota es obligatorio.")
	}
	if in.NewPetSpecies == "" {
		ve.Add("new_pet_species", "La especie es obligatoria.")
	}
	if in.NewPetBirthDate != nil && in.NewPetBirthDate.After(now) {
		ve.Add("new_pet_birth_date", "La fecha de nacimiento no puede ser futura.")
	}
	if len(ve.Fields) > 0 {
		return nil, ve
	}

	return &models.Pet{
		Name:      in.NewPetName,
		Species:   in.NewPetSpecies,
		Breed:     in.NewPetBreed,
		BirthDate: in.NewPetBirthDate,
		OwnerID:   actor.UserID,
	}, nil
}

func (uc *CreateAppointment) resolveExistingPet(
	ctx context.Context,
	actor domain.Actor,
	in CreateAppointmentInput,
	ap *models.Appointment,
) error {

	if in.PetID == 0 {
		return httperr.Validation("pet_id", "Seleccione una mascota.")
	}

	pet, err := uc.repo.GetPet(ctx, in.PetID)
	if err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			return httperr.Validation("pet_id", "Mascota inválida.")
		}
		return err
	}

	if actor.Role == domain.RoleClient && pet.OwnerID != actor.UserID {
		return httperr.Validation("pet_id", "Mascota inválida.")
	}

	ap.PetID = pet.ID
	return nil
}
