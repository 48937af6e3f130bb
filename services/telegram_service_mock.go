package services

import (
	"fmt"
	"sync"

	"github.com/susvada/storefront-api/models"
)

// MockTelegramService is an in-memory TelegramNotifier for testing
type MockTelegramService struct {
	mu            sync.Mutex
	nextMessageID int64

	SentOrders    []string // order codes passed to SendOrderNotification
	EditedOrders  []string // order codes passed to EditOrderMessage
	AdminMessages []string
	Callbacks     map[string]string // callback id -> answer text

	FailSends bool // when true, every call returns an error
}

// NewMockTelegramService creates a new mock notifier
func NewMockTelegramService() *MockTelegramService {
	return &MockTelegramService{
		nextMessageID: 1000,
		Callbacks:     make(map[string]string),
	}
}

// SendOrderNotification records the alert and returns a fake message id
func (m *MockTelegramService) SendOrderNotification(order *models.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSends {
		return "", fmt.Errorf("mock telegram: send failed")
	}
	m.nextMessageID++
	m.SentOrders = append(m.SentOrders, order.OrderID)
	return fmt.Sprintf("%d", m.nextMessageID), nil
}

// EditOrderMessage records the edit
func (m *MockTelegramService) EditOrderMessage(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSends {
		return fmt.Errorf("mock telegram: edit failed")
	}
	m.EditedOrders = append(m.EditedOrders, order.OrderID)
	return nil
}

// AnswerCallbackQuery records the acknowledgement
func (m *MockTelegramService) AnswerCallbackQuery(callbackID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSends {
		return fmt.Errorf("mock telegram: answer failed")
	}
	m.Callbacks[callbackID] = text
	return nil
}

// SendAdminMessage records the message
func (m *MockTelegramService) SendAdminMessage(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSends {
		return fmt.Errorf("mock telegram: send failed")
	}
	m.AdminMessages = append(m.AdminMessages, text)
	return nil
}
