package models

import "time"

type Pet struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name      string     `gorm:"size:100;not null" json:"name"`
	Species   string     `gorm:"size:50;not null" json:"species"`
	Breed     string     `gorm:"size:50" json:"breed"`
	BirthDate *time.Time `json:"birth_date"`

	OwnerID uint `gorm:"not null;index" json:"owner_id"`
	Owner   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"owner"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
