package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Well-known setting keys
const (
	SettingMinFreeDelivery       = "min_free_delivery"
	SettingDomesticShipping      = "domestic_shipping"
	SettingInternationalShipping = "international_shipping"
	SettingMerchantUPIID         = "merchant_upi_id"
)

// PublicSettingKeys are the settings exposed without authentication
var PublicSettingKeys = []string{
	SettingMinFreeDelivery,
	SettingDomesticShipping,
	SettingInternationalShipping,
}

// Setting is a key/value row of tunable storefront configuration
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}

// GetSetting returns the value for key, or fallback when the row is missing
func GetSetting(db *gorm.DB, key, fallback string) string {
	var s Setting
	if err := db.First(&s, "key = ?", key).Error; err != nil {
		return fallback
	}
	return s.Value
}

// GetSettingFloat returns the value for key parsed as a float, or fallback
func GetSettingFloat(db *gorm.DB, key string, fallback float64) float64 {
	var s Setting
	if err := db.First(&s, "key = ?", key).Error; err != nil {
		return fallback
	}
	v, err := strconv.ParseFloat(s.Value, 64)
	if err != nil {
		return fallback
	}
	return v
}

// SetSetting upserts a setting row
func SetSetting(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Setting{Key: key, Value: value, UpdatedAt: time.Now()}).Error
}
