package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/models"
)

// ShippingRates are the tunable knobs of the shipping policy, read from
// the settings table at quote time so admin edits apply immediately.
type ShippingRates struct {
	FreeDeliveryMin float64
	Domestic        float64
	International   float64
}

// LoadShippingRates reads the current shipping settings
func LoadShippingRates(db *gorm.DB) ShippingRates {
	return ShippingRates{
		FreeDeliveryMin: models.GetSettingFloat(db, models.SettingMinFreeDelivery, 500),
		Domestic:        models.GetSettingFloat(db, models.SettingDomesticShipping, 60),
		International:   models.GetSettingFloat(db, models.SettingInternationalShipping, 500),
	}
}

// ShippingFee computes the shipping charge for a subtotal and destination.
// International destinations always pay the international flat fee; the
// free-delivery threshold applies to domestic destinations only.
func ShippingFee(subtotal float64, international bool, rates ShippingRates) float64 {
	if international {
		return rates.International
	}
	if subtotal >= rates.FreeDeliveryMin {
		return 0
	}
	return rates.Domestic
}

// RoundCurrency rounds an amount to two decimal places
func RoundCurrency(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// LineTotal computes price x quantity at currency precision
func LineTotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}

// RefundAmount computes total x percentage / 100 at currency precision
func RefundAmount(total float64, percentage int) float64 {
	return decimal.NewFromFloat(total).
		Mul(decimal.NewFromInt(int64(percentage))).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
