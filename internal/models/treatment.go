package models

import "time"

type Treatment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string   `gorm:"size:150;not null" json:"name"`
	Description string   `gorm:"size:500" json:"description"`
	Cost        *float64 `gorm:"type:decimal(18,2)" json:"cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
