package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susvada/storefront-api/models"
)

func testOrder() *models.Order {
	return &models.Order{
		OrderID:  "SUS-A1B2C3",
		Items:    models.OrderItems{{ProductID: 1, Name: "Dry Fruit Laddu", Price: 299, Quantity: 2}},
		Subtotal: 598,
		Shipping: 0,
		Total:    598,
		Status:   models.OrderStatusPendingVerification,
		UTR:      "123456789012",
		Address: models.OrderAddress{
			Name: "Asha", Phone: "9876543210", Line1: "12 MG Road",
			City: "Bengaluru", State: "Karnataka", Pincode: "560001", Country: "India",
		},
	}
}

func newTelegramTestServer(t *testing.T, capture *map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		payload["_path"] = r.URL.Path
		*capture = payload

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "result": {"message_id": 4242}}`))
	}))
}

func TestSendOrderNotification(t *testing.T) {
	var captured map[string]interface{}
	server := newTelegramTestServer(t, &captured)
	defer server.Close()

	svc := NewTelegramService("test-token", "123456")
	svc.SetBaseURL(server.URL)

	messageID, err := svc.SendOrderNotification(testOrder())
	require.NoError(t, err)
	assert.Equal(t, "4242", messageID)

	assert.Equal(t, "/bottest-token/sendMessage", captured["_path"])
	assert.Equal(t, "123456", captured["chat_id"])
	assert.Equal(t, "Markdown", captured["parse_mode"])

	text := captured["text"].(string)
	assert.Contains(t, text, "NEW ORDER RECEIVED")
	assert.Contains(t, text, "SUS-A1B2C3")
	assert.Contains(t, text, "Dry Fruit Laddu")
	assert.Contains(t, text, "123456789012")

	// Pending orders carry confirm and reject buttons
	markup := captured["reply_markup"].(map[string]interface{})
	rows := markup["inline_keyboard"].([]interface{})
	require.Len(t, rows, 1)
	buttons := rows[0].([]interface{})
	require.Len(t, buttons, 2)
	assert.Equal(t, "confirm_SUS-A1B2C3", buttons[0].(map[string]interface{})["callback_data"])
	assert.Equal(t, "reject_SUS-A1B2C3", buttons[1].(map[string]interface{})["callback_data"])
}

func TestSendOrderNotificationAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer server.Close()

	svc := NewTelegramService("test-token", "123456")
	svc.SetBaseURL(server.URL)

	_, err := svc.SendOrderNotification(testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestEditOrderMessage(t *testing.T) {
	var captured map[string]interface{}
	server := newTelegramTestServer(t, &captured)
	defer server.Close()

	svc := NewTelegramService("test-token", "123456")
	svc.SetBaseURL(server.URL)

	order := testOrder()
	order.TelegramMessageID = "4242"
	order.Status = models.OrderStatusProcessing

	require.NoError(t, svc.EditOrderMessage(order))

	assert.Equal(t, "/bottest-token/editMessageText", captured["_path"])
	assert.Equal(t, float64(4242), captured["message_id"])
	assert.Contains(t, captured["text"].(string), "CONFIRMED")

	// Processing orders show only the ship affordance
	markup := captured["reply_markup"].(map[string]interface{})
	buttons := markup["inline_keyboard"].([]interface{})[0].([]interface{})
	require.Len(t, buttons, 1)
	assert.Equal(t, "shipped_SUS-A1B2C3", buttons[0].(map[string]interface{})["callback_data"])
}

func TestEditOrderMessageWithoutMessageID(t *testing.T) {
	svc := NewTelegramService("test-token", "123456")
	svc.SetBaseURL("http://127.0.0.1:0") // would fail if called

	order := testOrder()
	order.TelegramMessageID = ""
	assert.NoError(t, svc.EditOrderMessage(order))
}

func TestEditOrderMessageTerminalStatusDropsKeyboard(t *testing.T) {
	var captured map[string]interface{}
	server := newTelegramTestServer(t, &captured)
	defer server.Close()

	svc := NewTelegramService("test-token", "123456")
	svc.SetBaseURL(server.URL)

	order := testOrder()
	order.TelegramMessageID = "4242"
	order.Status = models.OrderStatusDelivered

	require.NoError(t, svc.EditOrderMessage(order))
	_, hasMarkup := captured["reply_markup"]
	assert.False(t, hasMarkup)
}

func TestAnswerCallbackQuery(t *testing.T) {
	var captured map[string]interface{}
	server := newTelegramTestServer(t, &captured)
	defer server.Close()

	svc := NewTelegramService("test-token", "123456")
	svc.SetBaseURL(server.URL)

	require.NoError(t, svc.AnswerCallbackQuery("cb-1", "✅ Payment confirmed for SUS-A1B2C3"))
	assert.Equal(t, "/bottest-token/answerCallbackQuery", captured["_path"])
	assert.Equal(t, "cb-1", captured["callback_query_id"])
}

func TestSendAdminMessage(t *testing.T) {
	var captured map[string]interface{}
	server := newTelegramTestServer(t, &captured)
	defer server.Close()

	svc := NewTelegramService("test-token", "123456")
	svc.SetBaseURL(server.URL)

	require.NoError(t, svc.SendAdminMessage("📊 *Order Status*"))
	assert.Equal(t, "/bottest-token/sendMessage", captured["_path"])
	assert.Equal(t, "📊 *Order Status*", captured["text"])
}
