package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/infra/slotlock"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

func newEditClientUC(repo *fakeRepo) *EditAppointmentClient {
	uc := NewEditAppointmentClient(repo, slotlock.Nop{}, testDispatcher(), zap.NewNop())
	uc.now = fixedNow
	return uc
}

func scheduledAppointment(repo *fakeRepo, status domain.Status) *models.Appointment {
	return repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(12, 10),
		Status:            string(status),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})
}

func rescheduleInput() EditAppointmentInput {
	return EditAppointmentInput{
		Date:              "2026-03-13",
		Time:              "11:00",
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	}
}

func TestClientRescheduleMovesSlot(t *testing.T) {
	repo := seededRepo()
	ap := scheduledAppointment(repo, domain.StatusScheduled)
	uc := newEditClientUC(repo)

	updated, err := uc.Execute(context.Background(), clientActor(), ap.ID, rescheduleInput())
	require.NoError(t, err)

	assert.Equal(t, slotAt(13, 11), updated.ScheduledAt)
	assert.Equal(t, string(domain.StatusScheduled), updated.Status)
	assert.Greater(t, updated.Version, ap.Version)
}

func TestClientCannotRescheduleOthersAppointment(t *testing.T) {
	repo := seededRepo()
	ap := repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(12, 10),
		Status:            string(domain.StatusScheduled),
		PetID:             11, // owned by user 3
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})
	uc := newEditClientUC(repo)

	_, err := uc.Execute(context.Background(), clientActor(), ap.ID, rescheduleInput())
	assert.ErrorIs(t, err, httperr.ErrForbidden)
}

func TestClientRescheduleRequiresScheduledStatus(t *testing.T) {
	for _, status := range []domain.Status{
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusCancelledStaff,
		domain.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			repo := seededRepo()
			ap := scheduledAppointment(repo, status)
			uc := newEditClientUC(repo)

			_, err := uc.Execute(context.Background(), clientActor(), ap.ID, rescheduleInput())
			require.Error(t, err)
			assert.True(t, httperr.IsBusiness(err, "state_changed"))
		})
	}
}

func TestClientRescheduleRejectedWhenOriginalInPast(t *testing.T) {
	repo := seededRepo()
	ap := repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(9, 10), // already passed
		Status:            string(domain.StatusScheduled),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})
	uc := newEditClientUC(repo)

	_, err := uc.Execute(context.Background(), clientActor(), ap.ID, rescheduleInput())
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "appointment_in_past"))
}

func TestClientRescheduleIntoTakenSlot(t *testing.T) {
	repo := seededRepo()
	ap := scheduledAppointment(repo, domain.StatusScheduled)
	repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(13, 11),
		Status:            string(domain.StatusScheduled),
		PetID:             11,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})
	uc := newEditClientUC(repo)

	_, err := uc.Execute(context.Background(), clientActor(), ap.ID, rescheduleInput())
	require.Error(t, err)

	ve, ok := httperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "time")
}

func TestClientRescheduleKeepingOwnSlot(t *testing.T) {
	repo := seededRepo()
	ap := scheduledAppointment(repo, domain.StatusScheduled)
	uc := newEditClientUC(repo)

	// Same slot, new notes: the exclusion keeps it from colliding with
	// itself.
	in := rescheduleInput()
	in.Date = "2026-03-12"
	in.Time = "10:00"
	in.Notes = "Traer cartilla de vacunación"

	updated, err := uc.Execute(context.Background(), clientActor(), ap.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Traer cartilla de vacunación", updated.Notes)
}

func TestStaffCannotUseClientReschedulePath(t *testing.T) {
	repo := seededRepo()
	ap := scheduledAppointment(repo, domain.StatusScheduled)
	uc := newEditClientUC(repo)

	_, err := uc.Execute(context.Background(), vetActor(), ap.ID, rescheduleInput())
	assert.ErrorIs(t, err, httperr.ErrForbidden)
}

func TestClientRescheduleCannotSwitchToOthersPet(t *testing.T) {
	repo := seededRepo()
	ap := scheduledAppointment(repo, domain.StatusScheduled)
	uc := newEditClientUC(repo)

	in := rescheduleInput()
	in.PetID = 11

	_, err := uc.Execute(context.Background(), clientActor(), ap.ID, in)
	require.Error(t, err)

	ve, ok := httperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "pet_id")
}
