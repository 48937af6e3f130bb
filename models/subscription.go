package models

import (
	"time"
)

// Subscription frequencies
const (
	FrequencyMonthly   = "monthly"
	FrequencyBimonthly = "bimonthly"
	FrequencyQuarterly = "quarterly"
)

// Subscription statuses
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPaused    = "paused"
	SubscriptionStatusCancelled = "cancelled"
)

// FrequencyDays maps a frequency to the number of days between deliveries
var FrequencyDays = map[string]int{
	FrequencyMonthly:   30,
	FrequencyBimonthly: 60,
	FrequencyQuarterly: 90,
}

// Subscription is a recurring delivery of one product to one user.
// At most one non-cancelled subscription exists per (user, product).
type Subscription struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID    uint       `gorm:"not null;index" json:"product_id"`
	Product      Product    `gorm:"foreignKey:ProductID" json:"product"`
	Frequency    string     `gorm:"not null" json:"frequency"` // monthly, bimonthly, quarterly
	Quantity     int        `gorm:"not null;default:1" json:"quantity"`
	NextDelivery *time.Time `json:"next_delivery"`
	Status       string     `gorm:"not null;default:'active'" json:"status"` // active, paused, cancelled
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsValidFrequency reports whether f is a supported delivery frequency
func IsValidFrequency(f string) bool {
	_, ok := FrequencyDays[f]
	return ok
}
