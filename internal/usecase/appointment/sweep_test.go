package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

func newSweepUC(repo *fakeRepo) *SweepOverdueAppointments {
	uc := NewSweepOverdueAppointments(repo, zap.NewNop())
	uc.now = fixedNow
	return uc
}

func TestSweepCompletesOverdueAppointments(t *testing.T) {
	repo := seededRepo()

	// 09:00 today: more than an hour past at noon.
	overdue := repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(10, 9),
		Status:            string(domain.StatusScheduled),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})

	// 11:30 has passed but the one-hour grace has not.
	recent := repo.addAppointment(models.Appointment{
		ScheduledAt:       testNow.Add(-30 * time.Minute),
		Status:            string(domain.StatusScheduled),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})

	future := repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(12, 10),
		Status:            string(domain.StatusConfirmed),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})

	uc := newSweepUC(repo)

	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, _ := repo.GetAppointment(context.Background(), overdue.ID)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)

	got, _ = repo.GetAppointment(context.Background(), recent.ID)
	assert.Equal(t, string(domain.StatusScheduled), got.Status)

	got, _ = repo.GetAppointment(context.Background(), future.ID)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
}

func TestSweepLeavesTerminalStatesAlone(t *testing.T) {
	repo := seededRepo()

	for _, status := range []domain.Status{
		domain.StatusCompleted,
		domain.StatusCancelledClient,
		domain.StatusCancelledStaff,
		domain.StatusNoShow,
	} {
		repo.addAppointment(models.Appointment{
			ScheduledAt:       slotAt(9, 9),
			Status:            string(status),
			PetID:             10,
			VeterinarianID:    1,
			AppointmentTypeID: 5,
		})
	}

	uc := newSweepUC(repo)

	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweepIsIdempotent(t *testing.T) {
	repo := seededRepo()
	repo.addAppointment(models.Appointment{
		ScheduledAt:       slotAt(10, 9),
		Status:            string(domain.StatusScheduled),
		PetID:             10,
		VeterinarianID:    1,
		AppointmentTypeID: 5,
	})

	uc := newSweepUC(repo)

	first, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second)
}
