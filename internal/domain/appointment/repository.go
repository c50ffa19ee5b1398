package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/petcarelabs/vetclinic-api/internal/models"
)

// ErrSlotTaken is returned when a write collides with a non-cancelled
// appointment already occupying the (veterinarian, instant) slot,
// whether caught by the pre-check or by the storage unique index.
var ErrSlotTaken = errors.New("slot already booked for this veterinarian")

// ListFilter narrows an appointment listing. Staff-only filters are
// ignored when OwnerScope is set.
type ListFilter struct {
	// OwnerScope restricts results to appointments whose pet belongs
	// to this user. Zero means no scoping (staff view).
	OwnerScope uint

	// Free-text search over pet, owner and veterinarian names.
	Search string

	Date    *time.Time
	Status  Status
	PetID   uint
	OwnerID uint
	VetID   uint
}

type Repository interface {
	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	// CreateAppointment persists ap, and newPet first when non-nil, in
	// one transactional unit. The appointment is linked to the new pet.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		newPet *models.Pet,
	) error

	// UpdateAppointment writes ap guarded by its version token and
	// bumps the version. Returns httperr.ErrConcurrency on a stale
	// write, ErrSlotTaken on a slot collision.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	// -------- Slots --------
	SlotTaken(
		ctx context.Context,
		vetID uint,
		at time.Time,
		excludeID uint,
	) (bool, error)

	OccupiedSlots(
		ctx context.Context,
		vetID uint,
		dayStart time.Time,
		dayEnd time.Time,
		excludeID uint,
	) ([]time.Time, error)

	// CompleteOverdue bulk-updates active appointments scheduled before
	// cutoff to the completed status, returning how many rows changed.
	CompleteOverdue(
		ctx context.Context,
		cutoff time.Time,
	) (int64, error)

	// -------- Related entities --------
	GetVeterinarian(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetAppointmentType(
		ctx context.Context,
		id uint,
	) (*models.AppointmentType, error)

	GetPet(
		ctx context.Context,
		id uint,
	) (*models.Pet, error)
}
