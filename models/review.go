package models

import (
	"time"
)

// Review is a product review by a customer who received the product.
// One review per (user, product).
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_review_user_product" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_review_user_product" json:"product_id"`
	Product    Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	ReviewText string    `gorm:"type:text" json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
