package models

import (
	"time"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents an account in the system (customer or admin)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Phone        string    `gorm:"index" json:"phone"`
	Role         string    `gorm:"not null;default:'customer'" json:"role"`
	IsBlocked    bool      `gorm:"not null;default:false" json:"is_blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
