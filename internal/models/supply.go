package models

import "time"

type Supply struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:150;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`

	Stock         int    `gorm:"not null" json:"stock"`
	Unit          string `gorm:"size:30;not null" json:"unit"`
	LowStockLevel *int   `json:"low_stock_level"`

	CostPrice *float64 `gorm:"type:decimal(18,2)" json:"cost_price"`
	SalePrice *float64 `gorm:"type:decimal(18,2)" json:"sale_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
