package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ScheduledAt time.Time `gorm:"not null;index" json:"scheduled_at"`

	Status string `gorm:"size:30;default:'Programada'" json:"status"`

	Reason string `gorm:"size:250" json:"reason"`
	Notes  string `gorm:"size:500" json:"notes"`

	PetID uint `gorm:"not null" json:"pet_id"`
	Pet   Pet  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"pet"`

	VeterinarianID uint `gorm:"not null" json:"veterinarian_id"`
	Veterinarian   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"veterinarian"`

	AppointmentTypeID uint            `gorm:"not null" json:"appointment_type_id"`
	AppointmentType   AppointmentType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"appointment_type"`

	// Bumped on every update; stale writers lose.
	Version int `gorm:"default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
