package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/models"
	"github.com/susvada/storefront-api/services"
)

const testAdminChatID = "123456"

func newTelegramRouter(db *gorm.DB, telegram *services.MockTelegramService) *gin.Engine {
	router := setupTestRouter()
	orders := services.NewOrderService(db, telegram)
	ctl := NewTelegramController(orders, telegram, testAdminChatID)
	router.POST("/telegram/webhook", ctl.Webhook)
	router.GET("/telegram/webhook", ctl.Status)
	return router
}

func seedPendingOrder(t *testing.T, db *gorm.DB, code string) models.Order {
	product := createTestProduct(t, db, "laddu-"+code, 299, 10, models.ProductStatusActive)
	order := models.Order{
		OrderID: code, UserID: 1,
		Items:    models.OrderItems{{ProductID: product.ID, Name: product.Name, Price: 299, Quantity: 2}},
		Subtotal: 598, Shipping: 0, Total: 598,
		Status:            models.OrderStatusPendingVerification,
		Address:           models.OrderAddress{Name: "Asha", Phone: "9876543210", Line1: "12 MG Road", City: "Bengaluru", Pincode: "560001"},
		TelegramMessageID: "4242",
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestWebhookConfirmCallback(t *testing.T) {
	db := setupTestDB(t)
	order := seedPendingOrder(t, db, "SUS-BOT001")
	telegram := services.NewMockTelegramService()
	router := newTelegramRouter(db, telegram)

	req := jsonRequest(t, http.MethodPost, "/telegram/webhook", map[string]interface{}{
		"callback_query": map[string]interface{}{
			"id":   "cb-1",
			"data": "confirm_SUS-BOT001",
		},
	}, "")
	w, _ := doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	require.NoError(t, db.First(&stored, "order_id = ?", order.OrderID).Error)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)

	// Button press acknowledged and the alert edited in place
	assert.Contains(t, telegram.Callbacks["cb-1"], order.OrderID)
	require.Len(t, telegram.EditedOrders, 1)
	assert.Equal(t, order.OrderID, telegram.EditedOrders[0])
}

func TestWebhookRejectCallbackRestoresStock(t *testing.T) {
	db := setupTestDB(t)
	order := seedPendingOrder(t, db, "SUS-BOT002")
	telegram := services.NewMockTelegramService()
	router := newTelegramRouter(db, telegram)

	req := jsonRequest(t, http.MethodPost, "/telegram/webhook", map[string]interface{}{
		"callback_query": map[string]interface{}{
			"id":   "cb-2",
			"data": "reject_SUS-BOT002",
		},
	}, "")
	w, _ := doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	require.NoError(t, db.First(&stored, "order_id = ?", order.OrderID).Error)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)

	// Rejection restores the reserved stock
	var product models.Product
	require.NoError(t, db.First(&product, order.Items[0].ProductID).Error)
	assert.Equal(t, 12, product.Stock)
}

func TestWebhookCallbackErrors(t *testing.T) {
	db := setupTestDB(t)
	seedPendingOrder(t, db, "SUS-BOT003")
	telegram := services.NewMockTelegramService()
	router := newTelegramRouter(db, telegram)

	tests := []struct {
		name           string
		data           string
		expectedAnswer string
	}{
		{
			name:           "Unknown order",
			data:           "confirm_SUS-GHOST",
			expectedAnswer: "Order not found",
		},
		{
			name:           "Unknown action",
			data:           "explode_SUS-BOT003",
			expectedAnswer: "Unknown action",
		},
		{
			name:           "Malformed data",
			data:           "garbage",
			expectedAnswer: "Unknown action",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			callbackID := "cb-err-" + uintString(uint(i))
			req := jsonRequest(t, http.MethodPost, "/telegram/webhook", map[string]interface{}{
				"callback_query": map[string]interface{}{
					"id":   callbackID,
					"data": tt.data,
				},
			}, "")
			w, _ := doRequest(router, req)

			// Telegram must always get a 200 or it retries the update
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedAnswer, telegram.Callbacks[callbackID])
		})
	}
}

func TestWebhookOperatorMessageGetsSummary(t *testing.T) {
	db := setupTestDB(t)
	seedPendingOrder(t, db, "SUS-BOT004")
	telegram := services.NewMockTelegramService()
	router := newTelegramRouter(db, telegram)

	req := jsonRequest(t, http.MethodPost, "/telegram/webhook", map[string]interface{}{
		"message": map[string]interface{}{
			"text": "status",
			"chat": map[string]interface{}{"id": 123456},
		},
	}, "")
	w, _ := doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, telegram.AdminMessages, 1)
	assert.Contains(t, telegram.AdminMessages[0], "pending_verification: 1")
}

func TestWebhookIgnoresStrangers(t *testing.T) {
	db := setupTestDB(t)
	telegram := services.NewMockTelegramService()
	router := newTelegramRouter(db, telegram)

	req := jsonRequest(t, http.MethodPost, "/telegram/webhook", map[string]interface{}{
		"message": map[string]interface{}{
			"text": "status",
			"chat": map[string]interface{}{"id": 999999},
		},
	}, "")
	w, _ := doRequest(router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, telegram.AdminMessages)
}

func TestWebhookStatusProbe(t *testing.T) {
	db := setupTestDB(t)
	router := newTelegramRouter(db, services.NewMockTelegramService())

	req := jsonRequest(t, http.MethodGet, "/telegram/webhook", nil, "")
	w, response := doRequest(router, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "active", data["webhook"])
}
