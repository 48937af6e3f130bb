package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Order statuses. pending_verification is the initial state; processing,
// shipped and delivered follow in order; cancellation is reachable from
// the first two only.
const (
	OrderStatusPendingVerification = "pending_verification"
	OrderStatusProcessing          = "processing"
	OrderStatusShipped             = "shipped"
	OrderStatusDelivered           = "delivered"
	OrderStatusCancelled           = "cancelled"
)

// Refund statuses carried on the order row
const (
	RefundStatusNone      = "none"
	RefundStatusPending   = "pending"
	RefundStatusProcessed = "processed"
)

// OrderItem is a line-item snapshot taken at order time. Name and price
// never follow later catalog changes.
type OrderItem struct {
	ProductID uint    `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	HeroImage string  `json:"hero_image,omitempty"`
	Weight    string  `json:"weight,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

// OrderItems is stored as a JSON array in a text column
type OrderItems []OrderItem

// Value implements driver.Valuer
func (items OrderItems) Value() (driver.Value, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (items *OrderItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	case nil:
		*items = OrderItems{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into OrderItems", value)
	}
}

// OrderAddress is the shipping address snapshot captured at checkout
type OrderAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// IsInternational reports whether the destination is outside India
func (a OrderAddress) IsInternational() bool {
	return a.Country != "" && !strings.EqualFold(a.Country, "India")
}

// Value implements driver.Valuer
func (a OrderAddress) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (a *OrderAddress) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = OrderAddress{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into OrderAddress", value)
	}
}

// Order represents a placed order. Rows are never physically deleted;
// total = subtotal + shipping always holds.
type Order struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	OrderID           string       `gorm:"uniqueIndex;not null" json:"order_id"` // human-readable order code
	UserID            uint         `gorm:"not null;index" json:"user_id"`
	User              User         `gorm:"foreignKey:UserID" json:"-"`
	Items             OrderItems   `gorm:"type:text;not null" json:"items"`
	Subtotal          float64      `gorm:"not null" json:"subtotal"`
	Shipping          float64      `gorm:"not null;default:0" json:"shipping"`
	Total             float64      `gorm:"not null" json:"total"`
	Status            string       `gorm:"not null;default:'pending_verification';index" json:"status"`
	UTR               string       `gorm:"column:utr" json:"utr"`
	DeliveryDate      *string      `json:"delivery_date"`
	Address           OrderAddress `gorm:"type:text;not null" json:"address"`
	Notes             string       `json:"notes"`
	TrackingID        string       `json:"tracking_id,omitempty"`
	TrackingURL       string       `json:"tracking_url,omitempty"`
	CancelReason      string       `json:"cancel_reason,omitempty"`
	RefundStatus      string       `gorm:"not null;default:'none'" json:"refund_status"`
	TelegramMessageID string       `json:"telegram_message_id,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsCancellable reports whether the order may still be cancelled by the
// customer. Shipped and delivered orders cannot be cancelled.
func (o *Order) IsCancellable() bool {
	return o.Status == OrderStatusPendingVerification || o.Status == OrderStatusProcessing
}
