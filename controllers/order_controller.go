package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/models"
	"github.com/susvada/storefront-api/services"
)

// OrderController is the customer-facing order surface. All mutations go
// through the order lifecycle engine.
type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

// NewOrderController creates an order controller
func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

// ListOrders handles GET /api/v1/orders - the caller's orders, newest first
func (ctl *OrderController) ListOrders(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var orders []models.Order
	if err := ctl.DB.Where("user_id = ?", claims.UserID).Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - detail by order code,
// ownership enforced
func (ctl *OrderController) GetOrder(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var order models.Order
	if err := ctl.DB.First(&order, "order_id = ? AND user_id = ?", c.Param("id"), claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// PlaceOrderRequest represents the request body for checkout
type PlaceOrderRequest struct {
	Address      models.OrderAddress `json:"address" binding:"required"`
	UTR          string              `json:"utr" binding:"required,min=10"`
	DeliveryDate string              `json:"delivery_date"`
	Notes        string              `json:"notes"`
}

// PlaceOrder handles POST /api/v1/orders
func (ctl *OrderController) PlaceOrder(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Delivery address and a valid UTR (min 10 characters) are required",
				"details": err.Error(),
			},
		})
		return
	}
	if req.Address.Line1 == "" || req.Address.City == "" || req.Address.Pincode == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Delivery address required",
			},
		})
		return
	}

	order, err := ctl.Orders.PlaceOrder(services.PlaceOrderInput{
		UserID:       claims.UserID,
		Address:      req.Address,
		UTR:          req.UTR,
		DeliveryDate: req.DeliveryDate,
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMPTY_CART",
					"message": "Cart is empty",
				},
			})
		case errors.Is(err, services.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INSUFFICIENT_STOCK",
					"message": err.Error(),
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to place order",
				},
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order_id": order.OrderID,
			"subtotal": order.Subtotal,
			"shipping": order.Shipping,
			"total":    order.Total,
			"status":   order.Status,
		},
	})
}

// CancelOrderRequest represents the request body for a customer cancellation
type CancelOrderRequest struct {
	Reason         string `json:"reason" binding:"required"`
	PaymentDetails string `json:"payment_details" binding:"required"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel
func (ctl *OrderController) CancelOrder(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Reason and payment details (UPI/Bank) are required",
			},
		})
		return
	}

	result, err := ctl.Orders.CancelOrder(c.Param("id"), services.CancelOrderInput{
		UserID:         claims.UserID,
		UserName:       claims.Name,
		Reason:         req.Reason,
		PaymentDetails: req.PaymentDetails,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
		case errors.Is(err, services.ErrAlreadyCancelled):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ALREADY_CANCELLED",
					"message": "Order is already cancelled",
				},
			})
		case errors.Is(err, services.ErrNotCancellable):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_CANCELLABLE",
					"message": "Shipped orders cannot be cancelled",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to cancel order",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"refund_amount":     result.RefundAmount,
			"refund_percentage": result.RefundPercentage,
		},
	})
}
