package models

import "time"

type MedicalRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PetID uint `gorm:"not null;index" json:"pet_id"`
	Pet   Pet  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"pet"`

	RecordDate  time.Time `gorm:"not null" json:"record_date"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Treatment   string    `gorm:"type:text" json:"treatment"`
	Notes       string    `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
