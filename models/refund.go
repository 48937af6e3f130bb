package models

import (
	"time"
)

// Refund is created as a side effect of a customer cancellation that
// carries a nonzero refund percentage. Rows are immutable except for the
// transition to processed, performed by an admin.
type Refund struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	OrderID        string     `gorm:"not null;index" json:"order_id"` // order code, not the row id
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	User           User       `gorm:"foreignKey:UserID" json:"-"`
	Amount         float64    `gorm:"not null" json:"amount"`
	Percentage     int        `gorm:"not null" json:"percentage"`
	PaymentDetails string     `gorm:"not null" json:"payment_details"` // payer-provided UPI id or bank details
	Status         string     `gorm:"not null;default:'pending'" json:"status"` // pending or processed
	ProcessedAt    *time.Time `json:"processed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName specifies the table name for the Refund model
func (Refund) TableName() string {
	return "refunds"
}
