package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Pet.Owner").
		Preload("Veterinarian").
		Preload("AppointmentType").
		First(&ap, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Joins("JOIN pets ON pets.id = appointments.pet_id").
		Joins("JOIN users AS owners ON owners.id = pets.owner_id").
		Joins("JOIN users AS vets ON vets.id = appointments.veterinarian_id").
		Preload("Pet").
		Preload("Pet.Owner").
		Preload("Veterinarian").
		Preload("AppointmentType")

	if filter.OwnerScope != 0 {
		q = q.Where("pets.owner_id = ?", filter.OwnerScope)
	} else {
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Where(
				"pets.name ILIKE ? OR owners.name ILIKE ? OR vets.name ILIKE ?",
				like, like, like,
			)
		}
		if filter.Date != nil {
			dayStart := filter.Date.Truncate(24 * time.Hour)
			q = q.Where(
				"appointments.scheduled_at >= ? AND appointments.scheduled_at < ?",
				dayStart, dayStart.Add(24*time.Hour),
			)
		}
		if filter.Status != "" {
			q = q.Where("appointments.status = ?", string(filter.Status))
		}
		if filter.PetID != 0 {
			q = q.Where("appointments.pet_id = ?", filter.PetID)
		}
		if filter.OwnerID != 0 {
			q = q.Where("pets.owner_id = ?", filter.OwnerID)
		}
		if filter.VetID != 0 {
			q = q.Where("appointments.veterinarian_id = ?", filter.VetID)
		}
	}

	var aps []models.Appointment
	if err := q.
		Order("appointments.scheduled_at DESC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	newPet *models.Pet,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if newPet != nil {
			if err := tx.Create(newPet).Error; err != nil {
				return err
			}
			ap.PetID = newPet.ID
		}
		return tx.Create(ap).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND version = ?", ap.ID, ap.Version).
		Updates(map[string]any{
			"scheduled_at":        ap.ScheduledAt,
			"status":              ap.Status,
			"reason":              ap.Reason,
			"notes":               ap.Notes,
			"pet_id":              ap.PetID,
			"veterinarian_id":     ap.VeterinarianID,
			"appointment_type_id": ap.AppointmentTypeID,
			"version":             ap.Version + 1,
		})

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrSlotTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrConcurrency
	}

	ap.Version++
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return httperr.ErrDependency
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *AppointmentGormRepository) SlotTaken(
	ctx context.Context,
	vetID uint,
	at time.Time,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"veterinarian_id = ? AND scheduled_at = ? AND status NOT IN ?",
			vetID, at, cancelledStatuses(),
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) OccupiedSlots(
	ctx context.Context,
	vetID uint,
	dayStart time.Time,
	dayEnd time.Time,
	excludeID uint,
) ([]time.Time, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"veterinarian_id = ? AND scheduled_at >= ? AND scheduled_at < ? AND status NOT IN ?",
			vetID, dayStart, dayEnd, cancelledStatuses(),
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var slots []time.Time
	if err := q.Pluck("scheduled_at", &slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *AppointmentGormRepository) CompleteOverdue(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"status IN ? AND scheduled_at < ?",
			[]string{string(domain.StatusScheduled), string(domain.StatusConfirmed)},
			cutoff,
		).
		Updates(map[string]any{
			"status":  string(domain.StatusCompleted),
			"version": gorm.Expr("version + 1"),
		})

	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Related entities
// --------------------------------------------------

func (r *AppointmentGormRepository) GetVeterinarian(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var vet models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, string(domain.RoleVet)).
		First(&vet).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound
		}
		return nil, err
	}
	return &vet, nil
}

func (r *AppointmentGormRepository) GetAppointmentType(
	ctx context.Context,
	id uint,
) (*models.AppointmentType, error) {

	var at models.AppointmentType
	if err := r.db.WithContext(ctx).First(&at, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound
		}
		return nil, err
	}
	return &at, nil
}

func (r *AppointmentGormRepository) GetPet(
	ctx context.Context,
	id uint,
) (*models.Pet, error) {

	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound
		}
		return nil, err
	}
	return &pet, nil
}

func cancelledStatuses() []string {
	return []string{
		string(domain.StatusCancelledClient),
		string(domain.StatusCancelledStaff),
	}
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
