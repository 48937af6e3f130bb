package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/susvada/storefront-api/models"
)

// TelegramNotifier is the outbound side of the operator notification
// channel. Implementations are best-effort collaborators: callers log and
// swallow failures, they never roll back the surrounding operation.
type TelegramNotifier interface {
	// SendOrderNotification posts a new-order alert with confirm/reject
	// buttons and returns the message id for later edits
	SendOrderNotification(order *models.Order) (string, error)

	// EditOrderMessage rewrites the original alert in place to reflect the
	// order's current status, attaching the next legal action when one exists
	EditOrderMessage(order *models.Order) error

	// AnswerCallbackQuery acknowledges a button press with a short toast
	AnswerCallbackQuery(callbackID, text string) error

	// SendAdminMessage posts a plain text message to the operator chat
	SendAdminMessage(text string) error
}

// TelegramService talks to the Telegram Bot API over HTTPS
type TelegramService struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// NewTelegramService creates a Telegram notifier for the given bot token
// and operator chat
func NewTelegramService(token, chatID string) *TelegramService {
	return &TelegramService{
		token:   token,
		chatID:  chatID,
		baseURL: "https://api.telegram.org",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL overrides the Telegram API endpoint (used in tests)
func (s *TelegramService) SetBaseURL(url string) {
	s.baseURL = url
}

// ChatID returns the configured operator chat id
func (s *TelegramService) ChatID() string {
	return s.chatID
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

func (s *TelegramService) call(method string, payload interface{}) (*telegramResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", s.baseURL, s.token, method)
	resp, err := s.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var result telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !result.OK {
		return nil, fmt.Errorf("telegram %s failed: %s", method, result.Description)
	}
	return &result, nil
}

// SendOrderNotification posts the formatted order summary with the
// confirm/reject affordance and returns the new message id
func (s *TelegramService) SendOrderNotification(order *models.Order) (string, error) {
	result, err := s.call("sendMessage", map[string]interface{}{
		"chat_id":      s.chatID,
		"text":         formatOrderAlert(order),
		"parse_mode":   "Markdown",
		"reply_markup": orderKeyboard(order),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", result.Result.MessageID), nil
}

// EditOrderMessage rewrites the original alert to show the current status
func (s *TelegramService) EditOrderMessage(order *models.Order) error {
	if order.TelegramMessageID == "" {
		return nil
	}
	payload := map[string]interface{}{
		"chat_id":    s.chatID,
		"message_id": jsonNumber(order.TelegramMessageID),
		"text":       formatStatusUpdate(order),
		"parse_mode": "Markdown",
	}
	if kb := orderKeyboard(order); kb != nil {
		payload["reply_markup"] = kb
	}
	_, err := s.call("editMessageText", payload)
	return err
}

// AnswerCallbackQuery acknowledges an inline button press
func (s *TelegramService) AnswerCallbackQuery(callbackID, text string) error {
	_, err := s.call("answerCallbackQuery", map[string]interface{}{
		"callback_query_id": callbackID,
		"text":              text,
	})
	return err
}

// SendAdminMessage posts a plain Markdown message to the operator chat
func (s *TelegramService) SendAdminMessage(text string) error {
	_, err := s.call("sendMessage", map[string]interface{}{
		"chat_id":    s.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	return err
}

// jsonNumber converts a stored message id to a number when possible so the
// Telegram API accepts it
func jsonNumber(id string) interface{} {
	var n int64
	if _, err := fmt.Sscanf(id, "%d", &n); err == nil {
		return n
	}
	return id
}

// orderKeyboard returns the inline keyboard carrying the next legal
// action(s) for the order's current status, or nil once the order reaches
// a terminal state
func orderKeyboard(order *models.Order) *inlineKeyboard {
	switch order.Status {
	case models.OrderStatusPendingVerification:
		return &inlineKeyboard{InlineKeyboard: [][]inlineButton{{
			{Text: "✅ Confirm Payment", CallbackData: "confirm_" + order.OrderID},
			{Text: "❌ Reject", CallbackData: "reject_" + order.OrderID},
		}}}
	case models.OrderStatusProcessing:
		return &inlineKeyboard{InlineKeyboard: [][]inlineButton{{
			{Text: "📦 Mark Shipped", CallbackData: "shipped_" + order.OrderID},
		}}}
	case models.OrderStatusShipped:
		return &inlineKeyboard{InlineKeyboard: [][]inlineButton{{
			{Text: "🏠 Mark Delivered", CallbackData: "delivered_" + order.OrderID},
		}}}
	default:
		return nil
	}
}

func formatOrderAlert(order *models.Order) string {
	var items strings.Builder
	for i, item := range order.Items {
		fmt.Fprintf(&items, "  %d. %s × %d — ₹%.2f\n", i+1, item.Name, item.Quantity, LineTotal(item.Price, item.Quantity))
	}

	utr := order.UTR
	if utr == "" {
		utr = "Not provided"
	}
	deliveryDate := "Standard"
	if order.DeliveryDate != nil && *order.DeliveryDate != "" {
		deliveryDate = *order.DeliveryDate
	}

	addr := order.Address
	line2 := ""
	if addr.Line2 != "" {
		line2 = ", " + addr.Line2
	}
	country := addr.Country
	if country == "" {
		country = "India"
	}

	return fmt.Sprintf(`🛒 *NEW ORDER RECEIVED*

📋 *Order ID:* `+"`%s`"+`

*Items:*
%s
💰 *Subtotal:* ₹%.2f
🚚 *Shipping:* ₹%.2f
*💵 Total:* ₹%.2f

🔑 *UTR:* `+"`%s`"+`

👤 *Customer:* %s
📱 *Phone:* %s
📅 *Delivery Date:* %s

📍 *Address:*
%s%s
%s, %s - %s
%s

⏳ *Status:* Pending Verification`,
		order.OrderID, items.String(), order.Subtotal, order.Shipping, order.Total,
		utr, addr.Name, addr.Phone, deliveryDate,
		addr.Line1, line2, addr.City, addr.State, addr.Pincode, country)
}

func formatStatusUpdate(order *models.Order) string {
	utr := order.UTR
	if utr == "" {
		utr = "N/A"
	}
	return fmt.Sprintf(`🛒 *ORDER %s*

📋 *Order ID:* `+"`%s`"+`
💵 *Total:* ₹%.2f
🔑 *UTR:* `+"`%s`"+`
👤 *Customer:* %s
📱 *Phone:* %s

*Status updated to:* %s`,
		statusHeadline(order.Status), order.OrderID, order.Total, utr,
		order.Address.Name, order.Address.Phone, strings.ToUpper(order.Status))
}

func statusHeadline(status string) string {
	switch status {
	case models.OrderStatusProcessing:
		return "✅ CONFIRMED"
	case models.OrderStatusCancelled:
		return "❌ REJECTED"
	case models.OrderStatusShipped:
		return "📦 SHIPPED"
	case models.OrderStatusDelivered:
		return "🏠 DELIVERED"
	default:
		return strings.ToUpper(status)
	}
}
