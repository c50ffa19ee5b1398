package models

import "time"

const (
	InvoicePending = "Pendiente"
	InvoicePaid    = "Pagada"
	InvoiceVoided  = "Anulada"
)

type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Number string `gorm:"size:40;uniqueIndex;not null" json:"number"`

	ClientID uint `gorm:"not null;index" json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	IssuedAt time.Time `gorm:"not null" json:"issued_at"`
	Total    float64   `gorm:"type:decimal(18,2);not null" json:"total"`
	Status   string    `gorm:"size:20;default:'Pendiente'" json:"status"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvoiceLine struct {
	ID uint `gorm:"primaryKey" json:"id"`

	InvoiceID uint `gorm:"not null;index" json:"invoice_id"`

	SupplyID *uint   `json:"supply_id"`
	Supply   *Supply `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"supply,omitempty"`

	TreatmentID *uint      `json:"treatment_id"`
	Treatment   *Treatment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"treatment,omitempty"`

	Description string  `gorm:"size:200;not null" json:"description"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Subtotal    float64 `gorm:"type:decimal(18,2);not null" json:"subtotal"`
}
