package models

import (
	"time"
)

// Support ticket statuses
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// SupportTicket is a customer support request. UserID is nil for
// unauthenticated submissions.
type SupportTicket struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `gorm:"not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Status    string    `gorm:"not null;default:'open'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the SupportTicket model
func (SupportTicket) TableName() string {
	return "support_tickets"
}
