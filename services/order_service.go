package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/models"
	"github.com/susvada/storefront-api/utils"
)

// OrderService is the order lifecycle engine. It is the single
// authoritative entry point for status transitions regardless of caller
// (admin UI, Telegram bot, customer cancellation).
type OrderService struct {
	db       *gorm.DB
	telegram TelegramNotifier
}

// NewOrderService creates an order service on an injected database handle
func NewOrderService(db *gorm.DB, telegram TelegramNotifier) *OrderService {
	return &OrderService{db: db, telegram: telegram}
}

// PlaceOrderInput carries everything needed to turn a cart into an order
type PlaceOrderInput struct {
	UserID       uint
	Address      models.OrderAddress
	UTR          string
	DeliveryDate string
	Notes        string
}

// PlaceOrder creates an order from the user's cart. The order insert,
// the per-line stock decrement, and the cart clearing run in one
// transaction: all three apply or none do. The Telegram alert is sent
// after commit and is best-effort.
func (s *OrderService) PlaceOrder(in PlaceOrderInput) (*models.Order, error) {
	var cartItems []models.CartItem
	if err := s.db.Preload("Product").Where("user_id = ?", in.UserID).Find(&cartItems).Error; err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	// All lines are checked before any mutation
	for _, ci := range cartItems {
		if ci.Quantity > ci.Product.Stock {
			return nil, fmt.Errorf("%s: %w", ci.Product.Name, ErrInsufficientStock)
		}
	}

	subtotal := decimal.Zero
	items := make(models.OrderItems, 0, len(cartItems))
	for _, ci := range cartItems {
		subtotal = subtotal.Add(decimal.NewFromFloat(ci.Product.Price).Mul(decimal.NewFromInt(int64(ci.Quantity))))
		items = append(items, models.OrderItem{
			ProductID: ci.ProductID,
			Name:      ci.Product.Name,
			Price:     ci.Product.Price,
			Quantity:  ci.Quantity,
			HeroImage: ci.Product.HeroImage,
			Weight:    ci.Product.Weight,
			Unit:      ci.Product.Unit,
		})
	}

	subtotalValue := subtotal.Round(2).InexactFloat64()
	rates := LoadShippingRates(s.db)
	shipping := ShippingFee(subtotalValue, in.Address.IsInternational(), rates)
	total := RoundCurrency(subtotalValue + shipping)

	var deliveryDate *string
	if in.DeliveryDate != "" {
		deliveryDate = &in.DeliveryDate
	}

	order := &models.Order{
		OrderID:      utils.NewOrderCode(),
		UserID:       in.UserID,
		Items:        items,
		Subtotal:     subtotalValue,
		Shipping:     shipping,
		Total:        total,
		Status:       models.OrderStatusPendingVerification,
		UTR:          in.UTR,
		DeliveryDate: deliveryDate,
		Address:      in.Address,
		Notes:        in.Notes,
		RefundStatus: models.RefundStatusNone,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, ci := range cartItems {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", ci.ProductID, ci.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", ci.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%s: %w", ci.Product.Name, ErrInsufficientStock)
			}
		}
		if err := tx.Where("user_id = ?", in.UserID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyNewOrder(order)
	return order, nil
}

// notifyNewOrder sends the operator alert and records the returned message
// handle. Failures are logged and swallowed.
func (s *OrderService) notifyNewOrder(order *models.Order) {
	if s.telegram == nil {
		return
	}
	messageID, err := s.telegram.SendOrderNotification(order)
	if err != nil {
		log.Printf("Telegram notification for %s failed: %v", order.OrderID, err)
		return
	}
	order.TelegramMessageID = messageID
	if err := s.db.Model(&models.Order{}).Where("order_id = ?", order.OrderID).
		Update("telegram_message_id", messageID).Error; err != nil {
		log.Printf("Failed to record telegram message id for %s: %v", order.OrderID, err)
	}
}

// TransitionInput carries a target status and optional courier metadata
type TransitionInput struct {
	Status      string
	TrackingID  string
	TrackingURL string
}

var transitionTargets = map[string]bool{
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// Transition applies an admin- or bot-driven status change. Cancelling via
// this path restores stock (unless the order was already cancelled) and
// creates no refund row: it is the pre-payment rejection path.
func (s *OrderService) Transition(orderCode string, in TransitionInput) (*models.Order, error) {
	if !transitionTargets[in.Status] {
		return nil, fmt.Errorf("%q: %w", in.Status, ErrInvalidStatus)
	}

	var order models.Order
	if err := s.db.First(&order, "order_id = ?", orderCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.Status == models.OrderStatusCancelled && order.Status != models.OrderStatusCancelled {
			if err := restoreStock(tx, order.Items); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"status": in.Status}
		if in.Status == models.OrderStatusShipped {
			if in.TrackingID != "" {
				updates["tracking_id"] = in.TrackingID
			}
			if in.TrackingURL != "" {
				updates["tracking_url"] = in.TrackingURL
			}
		}
		return tx.Model(&models.Order{}).Where("order_id = ?", orderCode).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	order.Status = in.Status
	if in.Status == models.OrderStatusShipped {
		if in.TrackingID != "" {
			order.TrackingID = in.TrackingID
		}
		if in.TrackingURL != "" {
			order.TrackingURL = in.TrackingURL
		}
	}
	return &order, nil
}

// restoreStock adds each line's quantity back to product stock
func restoreStock(tx *gorm.DB, items models.OrderItems) error {
	for _, item := range items {
		res := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
		if res.Error != nil {
			return fmt.Errorf("restore stock for product %d: %w", item.ProductID, res.Error)
		}
	}
	return nil
}

// CancelOrderInput carries a customer cancellation request
type CancelOrderInput struct {
	UserID         uint
	UserName       string
	Reason         string
	PaymentDetails string
}

// CancellationResult reports the refund computed for a cancellation.
// HasSpecialItems flags international or pre-order composition; the
// refund tier does not depend on it today.
type CancellationResult struct {
	RefundAmount     float64
	RefundPercentage int
	HasSpecialItems  bool
}

// CancelOrder executes a customer-initiated cancellation with tiered
// refund computation. The refund percentage is a pure function of the
// order's status at cancellation time.
func (s *OrderService) CancelOrder(orderCode string, in CancelOrderInput) (*CancellationResult, error) {
	var order models.Order
	if err := s.db.First(&order, "order_id = ? AND user_id = ?", orderCode, in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	if order.Status == models.OrderStatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !order.IsCancellable() {
		return nil, ErrNotCancellable
	}

	// International and pre-order composition is computed here but does not
	// change the tier yet; the percentage depends on status alone.
	hasSpecialItems := order.Address.IsInternational()
	if !hasSpecialItems {
		for _, item := range order.Items {
			var product models.Product
			if err := s.db.Select("is_preorder").First(&product, item.ProductID).Error; err != nil {
				continue
			}
			if product.IsPreorder {
				hasSpecialItems = true
				break
			}
		}
	}
	refundPercentage := 0
	switch order.Status {
	case models.OrderStatusPendingVerification:
		refundPercentage = 100
	case models.OrderStatusProcessing:
		refundPercentage = 75
	}
	refundAmount := RefundAmount(order.Total, refundPercentage)

	refundStatus := models.RefundStatusNone
	if refundPercentage > 0 {
		refundStatus = models.RefundStatusPending
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("order_id = ?", orderCode).Updates(map[string]interface{}{
			"status":        models.OrderStatusCancelled,
			"cancel_reason": in.Reason,
			"refund_status": refundStatus,
		}).Error; err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		if err := restoreStock(tx, order.Items); err != nil {
			return err
		}
		if refundPercentage > 0 {
			refund := models.Refund{
				OrderID:        orderCode,
				UserID:         in.UserID,
				Amount:         refundAmount,
				Percentage:     refundPercentage,
				PaymentDetails: in.PaymentDetails,
				Status:         models.RefundStatusPending,
			}
			if err := tx.Create(&refund).Error; err != nil {
				return fmt.Errorf("create refund: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyCancellation(orderCode, in, refundAmount, refundPercentage)

	return &CancellationResult{
		RefundAmount:     refundAmount,
		RefundPercentage: refundPercentage,
		HasSpecialItems:  hasSpecialItems,
	}, nil
}

// notifyCancellation alerts the operator chat about a customer
// cancellation. Best-effort.
func (s *OrderService) notifyCancellation(orderCode string, in CancelOrderInput, amount float64, percentage int) {
	if s.telegram == nil {
		return
	}
	msg := fmt.Sprintf(`⚠️ *ORDER CANCELLED BY CUSTOMER*

📋 *Order:* `+"`%s`"+`
👤 *Customer:* %s
📝 *Reason:* %s

💸 *Refund Due:* ₹%.2f (%d%%)
🏦 *Refund Details:* `+"`%s`"+`

To process this refund, visit the Admin Dashboard.`,
		orderCode, in.UserName, in.Reason, amount, percentage, in.PaymentDetails)
	if err := s.telegram.SendAdminMessage(msg); err != nil {
		log.Printf("Telegram cancellation alert for %s failed: %v", orderCode, err)
	}
}

// SettleRefund marks a pending refund as processed and mirrors the status
// onto the parent order. Settling an already-processed refund is rejected.
func (s *OrderService) SettleRefund(refundID uint) error {
	var refund models.Refund
	if err := s.db.First(&refund, refundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRefundNotFound
		}
		return fmt.Errorf("load refund: %w", err)
	}
	if refund.Status == models.RefundStatusProcessed {
		return ErrRefundAlreadyProcessed
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Refund{}).Where("id = ?", refundID).Updates(map[string]interface{}{
			"status":       models.RefundStatusProcessed,
			"processed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("settle refund: %w", err)
		}
		return tx.Model(&models.Order{}).Where("order_id = ?", refund.OrderID).
			Update("refund_status", models.RefundStatusProcessed).Error
	})
}

// botActions maps inline-button actions to order statuses
var botActions = map[string]string{
	"confirm":   models.OrderStatusProcessing,
	"reject":    models.OrderStatusCancelled,
	"shipped":   models.OrderStatusShipped,
	"delivered": models.OrderStatusDelivered,
}

// botAcks maps actions to the short confirmations shown to the operator
var botAcks = map[string]string{
	"confirm":   "✅ Payment confirmed for %s",
	"reject":    "❌ Payment rejected for %s",
	"shipped":   "📦 %s marked as shipped",
	"delivered": "🏠 %s marked as delivered",
}

// ApplyBotAction dispatches an inline-button action into the same
// transition entry point the admin UI uses, then updates the original
// operator message in place. Returns the acknowledgement text.
func (s *OrderService) ApplyBotAction(action, orderCode string) (string, error) {
	status, ok := botActions[action]
	if !ok {
		return "", fmt.Errorf("%q: %w", action, ErrInvalidStatus)
	}

	order, err := s.Transition(orderCode, TransitionInput{Status: status})
	if err != nil {
		return "", err
	}

	if s.telegram != nil {
		if err := s.telegram.EditOrderMessage(order); err != nil {
			log.Printf("Telegram message edit for %s failed: %v", orderCode, err)
		}
	}
	return fmt.Sprintf(botAcks[action], orderCode), nil
}

// StatusSummary returns a short plain-text overview of order counts by
// status, used to answer operator text commands
func (s *OrderService) StatusSummary() string {
	statuses := []string{
		models.OrderStatusPendingVerification,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	}
	summary := "📊 *Order Status*\n"
	for _, status := range statuses {
		var count int64
		s.db.Model(&models.Order{}).Where("status = ?", status).Count(&count)
		summary += fmt.Sprintf("\n%s: %d", status, count)
	}
	return summary
}
