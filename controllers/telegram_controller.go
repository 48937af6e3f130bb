package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/susvada/storefront-api/services"
)

// TelegramController receives bot updates from the Telegram webhook
type TelegramController struct {
	Orders      *services.OrderService
	Telegram    services.TelegramNotifier
	AdminChatID string
}

// NewTelegramController creates a Telegram webhook controller
func NewTelegramController(orders *services.OrderService, telegram services.TelegramNotifier, adminChatID string) *TelegramController {
	return &TelegramController{Orders: orders, Telegram: telegram, AdminChatID: adminChatID}
}

type telegramUpdate struct {
	CallbackQuery *struct {
		ID      string `json:"id"`
		Data    string `json:"data"`
		Message *struct {
			Chat struct {
				ID int64 `json:"id"`
			} `json:"chat"`
		} `json:"message"`
	} `json:"callback_query"`
	Message *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// Webhook handles POST /api/v1/telegram/webhook
//
// Telegram retries on any non-2xx response, so every outcome short of a
// malformed body answers 200.
func (ctl *TelegramController) Webhook(c *gin.Context) {
	var update telegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	switch {
	case update.CallbackQuery != nil:
		ctl.handleCallback(update.CallbackQuery.ID, update.CallbackQuery.Data)
	case update.Message != nil:
		ctl.handleMessage(update.Message.Chat.ID, update.Message.Text)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Status handles GET /api/v1/telegram/webhook so the endpoint can be
// probed after setWebhook
func (ctl *TelegramController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"webhook": "active",
		},
	})
}

func (ctl *TelegramController) handleCallback(callbackID, data string) {
	parts := strings.SplitN(data, "_", 2)
	if len(parts) != 2 {
		ctl.answer(callbackID, "Unknown action")
		return
	}
	action, orderCode := parts[0], parts[1]

	ack, err := ctl.Orders.ApplyBotAction(action, orderCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			ctl.answer(callbackID, "Order not found")
		case errors.Is(err, services.ErrInvalidStatus):
			ctl.answer(callbackID, "Unknown action")
		default:
			log.Printf("Bot action %s on %s failed: %v", action, orderCode, err)
			ctl.answer(callbackID, "Something went wrong, try the dashboard")
		}
		return
	}

	ctl.answer(callbackID, ack)
}

func (ctl *TelegramController) handleMessage(chatID int64, text string) {
	// Only the configured operator chat gets replies; everything else
	// is dropped silently.
	if ctl.AdminChatID == "" || !chatMatches(chatID, ctl.AdminChatID) {
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	if err := ctl.Telegram.SendAdminMessage(ctl.Orders.StatusSummary()); err != nil {
		log.Printf("Failed to send status summary: %v", err)
	}
}

func (ctl *TelegramController) answer(callbackID, text string) {
	if err := ctl.Telegram.AnswerCallbackQuery(callbackID, text); err != nil {
		log.Printf("Failed to answer callback query: %v", err)
	}
}

func chatMatches(chatID int64, adminChatID string) bool {
	return strings.TrimSpace(adminChatID) == strconv.FormatInt(chatID, 10)
}
