package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

func newSlotsUC(repo *fakeRepo) *GetAvailableSlots {
	uc := NewGetAvailableSlots(repo)
	uc.now = fixedNow
	return uc
}

func TestAvailableSlotsFullDay(t *testing.T) {
	repo := seededRepo()
	uc := newSlotsUC(repo)

	slots, err := uc.Execute(context.Background(), AvailableSlotsInput{
		Date:           "2026-03-12",
		VeterinarianID: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"09:00", "10:00", "11:00", "12:00", "13:00",
		"14:00", "15:00", "16:00", "17:00",
	}, slots)
}

func TestAvailableSlotsEmptyForTodayAndPast(t *testing.T) {
	repo := seededRepo()
	uc := newSlotsUC(repo)

	for _, date := range []string{"2026-03-10", "2026-03-09"} {
		slots, err := uc.Execute(context.Background(), AvailableSlotsInput{
			Date:           date,
			VeterinarianID: 1,
		})
		require.NoError(t, err)
		assert.Empty(t, slots)
	}
}

func TestAvailableSlotsExcludeBooked(t *testing.T) {
	repo := seededRepo()
	repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(12, 10),
		Status:            string(domain.StatusScheduled),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})
	uc := newSlotsUC(repo)

	slots, err := uc.Execute(context.Background(), AvailableSlotsInput{
		Date:           "2026-03-12",
		VeterinarianID: 1,
	})
	require.NoError(t, err)

	assert.NotContains(t, slots, "10:00")
	assert.Contains(t, slots, "09:00")
	assert.Contains(t, slots, "11:00")
}

func TestAvailableSlotsCancelledDoesNotBlock(t *testing.T) {
	repo := seededRepo()
	repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(12, 10),
		Status:            string(domain.StatusCancelledStaff),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})
	uc := newSlotsUC(repo)

	slots, err := uc.Execute(context.Background(), AvailableSlotsInput{
		Date:           "2026-03-12",
		VeterinarianID: 1,
	})
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
}

func TestAvailableSlotsPerVeterinarian(t *testing.T) {
	repo := seededRepo()
	repo.addUser(4, string(domain.RoleVet))
	repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(12, 10),
		Status:            string(domain.StatusScheduled),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})
	uc := newSlotsUC(repo)

	slots, err := uc.Execute(context.Background(), AvailableSlotsInput{
		Date:           "2026-03-12",
		VeterinarianID: 4,
	})
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
}

func TestAvailableSlotsExcludeIDFreesOwnSlot(t *testing.T) {
	repo := seededRepo()
	ap := repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(12, 10),
		Status:            string(domain.StatusScheduled),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})
	uc := newSlotsUC(repo)

	slots, err := uc.Execute(context.Background(), AvailableSlotsInput{
		Date:           "2026-03-12",
		VeterinarianID: 1,
		ExcludeID:      ap.ID,
	})
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
}

func TestAvailableSlotsBadDate(t *testing.T) {
	repo := seededRepo()
	uc := newSlotsUC(repo)

	_, err := uc.Execute(context.Background(), AvailableSlotsInput{
		Date:           "12/03/2026",
		VeterinarianID: 1,
	})
	assert.Error(t, err)
}
