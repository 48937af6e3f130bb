package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Shipping scopes restrict where a product may be delivered.
const (
	ShippingScopeDomesticOnly = "domestic_only"
	ShippingScopeExportable   = "exportable"
)

// Product statuses
const (
	ProductStatusActive = "active"
	ProductStatusDraft  = "draft"
)

// StringList is a list of strings stored as a JSON array in a text column.
// Serialization happens only at the storage boundary.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Product represents a catalog item
type Product struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"not null" json:"name"`
	Slug             string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description      string     `gorm:"type:text" json:"description"`
	ShortDescription string     `json:"short_description"`
	Category         string     `gorm:"not null;index" json:"category"`
	Price            float64    `gorm:"not null" json:"price"`
	ComparePrice     *float64   `json:"compare_price"`
	Weight           string     `json:"weight"`
	Unit             string     `gorm:"default:'g'" json:"unit"`
	ShelfLifeDays    int        `gorm:"default:30" json:"shelf_life_days"`
	ManufacturedDate *string    `json:"manufactured_date"` // YYYY-MM-DD
	IsPreorder       bool       `gorm:"not null;default:false" json:"is_preorder"`
	PreorderDate     *string    `json:"preorder_date"`
	IsSubscribable   bool       `gorm:"not null;default:false" json:"is_subscribable"`
	ShippingScope    string     `gorm:"not null;default:'exportable'" json:"shipping_scope"` // domestic_only or exportable
	Stock            int        `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	Status           string     `gorm:"not null;default:'active';index" json:"status"` // active or draft
	HeroImage        string     `json:"hero_image"`
	Images           StringList `gorm:"type:text" json:"images"`
	Tags             StringList `gorm:"type:text" json:"tags"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
