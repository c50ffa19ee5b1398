package appointment

import (
	"time"

	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// CanClientMutate checks the three client preconditions that must hold
// both on the confirmation read and again right before the write:
// ownership, a still-mutable status, and an original slot still in the
// future.
func CanClientMutate(ap *models.Appointment, actorID uint, allowed []Status, now time.Time) error {
	if ap.Pet.OwnerID != actorID {
		return httperr.ErrForbidden
	}
	ok := false
	for _, st := range allowed {
		if Status(ap.Status) == st {
			ok = true
			break
		}
	}
	if !ok {
		return httperr.ErrBusiness("state_changed")
	}
	if !ap.ScheduledAt.After(now) {
		return httperr.ErrBusiness("appointment_in_past")
	}
	return nil
}

// CancelByClient flips an appointment into the client-cancelled state.
func CancelByClient(ap *models.Appointment, actorID uint, now time.Time) error {
	allowed := []Status{StatusScheduled, StatusConfirmed}
	if err := CanClientMutate(ap, actorID, allowed, now); err != nil {
		return err
	}
	ap.Status = string(StatusCancelledClient)
	return nil
}

// Complete marks a scheduled or confirmed appointment as done. Already
// completed appointments pass through untouched so the sweep stays
// idempotent.
func Complete(ap *models.Appointment) error {
	switch Status(ap.Status) {
	case StatusCompleted:
		return nil
	case StatusScheduled, StatusConfirmed:
		ap.Status = string(StatusCompleted)
		return nil
	}
	return httperr.ErrBusiness("invalid_state")
}

// Overdue reports whether an active appointment should be auto-completed:
// more than one hour has elapsed past its scheduled time.
func Overdue(ap *models.Appointment, now time.Time) bool {
	st := Status(ap.Status)
	if st != StatusScheduled && st != StatusConfirmed {
		return false
	}
	return now.After(ap.ScheduledAt.Add(time.Hour))
}
