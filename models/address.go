package models

import (
	"time"
)

// Address represents a saved delivery address in a user's address book
type Address struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Label     string    `gorm:"not null;default:'Home'" json:"label"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"not null" json:"phone"`
	Line1     string    `gorm:"not null" json:"line1"`
	Line2     string    `json:"line2"`
	City      string    `gorm:"not null" json:"city"`
	State     string    `gorm:"not null" json:"state"`
	Pincode   string    `gorm:"not null" json:"pincode"`
	Country   string    `gorm:"not null;default:'India'" json:"country"`
	IsDefault bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Address model
func (Address) TableName() string {
	return "addresses"
}
