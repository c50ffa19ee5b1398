package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

func ownedAppointment(status Status, scheduledAt time.Time) *models.Appointment {
	return &models.Appointment{
		ID:          1,
		ScheduledAt: scheduledAt,
		Status:      string(status),
		PetID:       10,
		Pet:         models.Pet{ID: 10, OwnerID: 2},
	}
}

func TestCanClientMutate(t *testing.T) {
	allowed := []Status{StatusScheduled}
	future := at(12, 10, 0)

	t.Run("ok", func(t *testing.T) {
		ap := ownedAppointment(StatusScheduled, future)
		assert.NoError(t, CanClientMutate(ap, 2, allowed, noon))
	})

	t.Run("not the owner", func(t *testing.T) {
		ap := ownedAppointment(StatusScheduled, future)
		assert.ErrorIs(t, CanClientMutate(ap, 3, allowed, noon), httperr.ErrForbidden)
	})

	t.Run("status drifted", func(t *testing.T) {
		ap := ownedAppointment(StatusConfirmed, future)
		err := CanClientMutate(ap, 2, allowed, noon)
		assert.True(t, httperr.IsBusiness(err, "state_changed"))
	})

	t.Run("already past", func(t *testing.T) {
		ap := ownedAppointment(StatusScheduled, at(9, 10, 0))
		err := CanClientMutate(ap, 2, allowed, noon)
		assert.True(t, httperr.IsBusiness(err, "appointment_in_past"))
	})

	t.Run("ownership wins over status", func(t *testing.T) {
		// A non-owner probing a completed appointment learns nothing
		// about its state.
		ap := ownedAppointment(StatusCompleted, future)
		assert.ErrorIs(t, CanClientMutate(ap, 3, allowed, noon), httperr.ErrForbidden)
	})
}

func TestCancelByClient(t *testing.T) {
	future := at(12, 10, 0)

	ap := ownedAppointment(StatusScheduled, future)
	require.NoError(t, CancelByClient(ap, 2, noon))
	assert.Equal(t, string(StatusCancelledClient), ap.Status)

	ap = ownedAppointment(StatusConfirmed, future)
	require.NoError(t, CancelByClient(ap, 2, noon))
	assert.Equal(t, string(StatusCancelledClient), ap.Status)

	ap = ownedAppointment(StatusCompleted, future)
	err := CancelByClient(ap, 2, noon)
	assert.True(t, httperr.IsBusiness(err, "state_changed"))
	assert.Equal(t, string(StatusCompleted), ap.Status)
}

func TestComplete(t *testing.T) {
	ap := ownedAppointment(StatusScheduled, at(9, 10, 0))
	require.NoError(t, Complete(ap))
	assert.Equal(t, string(StatusCompleted), ap.Status)

	// Completing twice is a no-op.
	require.NoError(t, Complete(ap))
	assert.Equal(t, string(StatusCompleted), ap.Status)

	ap = ownedAppointment(StatusCancelledStaff, at(9, 10, 0))
	err := Complete(ap)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestOverdue(t *testing.T) {
	scheduled := noon.Add(-2 * time.Hour)

	assert.True(t, Overdue(ownedAppointment(StatusScheduled, scheduled), noon))
	assert.True(t, Overdue(ownedAppointment(StatusConfirmed, scheduled), noon))

	// Inside the one-hour grace window.
	assert.False(t, Overdue(ownedAppointment(StatusScheduled, noon.Add(-30*time.Minute)), noon))

	// Exactly one hour past is still not overdue.
	assert.False(t, Overdue(ownedAppointment(StatusScheduled, noon.Add(-time.Hour)), noon))

	assert.False(t, Overdue(ownedAppointment(StatusCompleted, scheduled), noon))
	assert.False(t, Overdue(ownedAppointment(StatusCancelledClient, scheduled), noon))
	assert.False(t, Overdue(ownedAppointment(StatusNoShow, scheduled), noon))
}
