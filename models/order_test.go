package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestOrderAddressIsInternational(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		expected bool
	}{
		{"India is domestic", "India", false},
		{"Case insensitive match", "INDIA", false},
		{"Empty country defaults to domestic", "", false},
		{"Foreign country is international", "United Kingdom", true},
		{"Neighbouring country is international", "Nepal", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := OrderAddress{Country: tt.country}
			assert.Equal(t, tt.expected, addr.IsInternational())
		})
	}
}

func TestOrderIsCancellable(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{OrderStatusPendingVerification, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			order := Order{Status: tt.status}
			assert.Equal(t, tt.expected, order.IsCancellable())
		})
	}
}

func TestOrderItemsPersistAsSnapshot(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Order{}))

	order := Order{
		OrderID: "SUS-SNAP01",
		UserID:  1,
		Items: OrderItems{
			{ProductID: 3, Name: "Dry Fruit Laddu", Price: 299, Quantity: 2, Weight: "250", Unit: "g"},
			{ProductID: 5, Name: "Groundnut Oil", Price: 450, Quantity: 1},
		},
		Subtotal: 1048, Shipping: 0, Total: 1048,
		Address: OrderAddress{Name: "Asha", Line1: "12 MG Road", City: "Bengaluru", Pincode: "560001"},
	}
	require.NoError(t, db.Create(&order).Error)

	var loaded Order
	require.NoError(t, db.First(&loaded, "order_id = ?", "SUS-SNAP01").Error)

	require.Len(t, loaded.Items, 2)
	assert.Equal(t, uint(3), loaded.Items[0].ProductID)
	assert.Equal(t, "Dry Fruit Laddu", loaded.Items[0].Name)
	assert.Equal(t, 299.0, loaded.Items[0].Price)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.Equal(t, "g", loaded.Items[0].Unit)
	assert.Equal(t, "Bengaluru", loaded.Address.City)

	// The snapshot survives later product edits: the stored line keeps the
	// original price even if the catalog changes
	assert.Equal(t, 450.0, loaded.Items[1].Price)
}
