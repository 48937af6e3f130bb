package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/models"
)

// SubscriptionController manages recurring product deliveries
type SubscriptionController struct {
	DB *gorm.DB
}

// NewSubscriptionController creates a subscription controller
func NewSubscriptionController(db *gorm.DB) *SubscriptionController {
	return &SubscriptionController{DB: db}
}

// ListSubscriptions handles GET /api/v1/subscriptions
func (ctl *SubscriptionController) ListSubscriptions(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var subs []models.Subscription
	if err := ctl.DB.Preload("Product").
		Where("user_id = ?", claims.UserID).
		Order("created_at DESC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load subscriptions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subs,
	})
}

// SubscriptionRequest represents the request body for creating a subscription
type SubscriptionRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Frequency string `json:"frequency" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// CreateSubscription handles POST /api/v1/subscriptions
func (ctl *SubscriptionController) CreateSubscription(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Product and frequency are required",
				"details": err.Error(),
			},
		})
		return
	}

	if !models.IsValidFrequency(req.Frequency) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FREQUENCY",
				"message": "Frequency must be monthly, bimonthly or quarterly",
			},
		})
		return
	}

	var product models.Product
	if err := ctl.DB.First(&product, "id = ? AND status = ?", req.ProductID, models.ProductStatusActive).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}
	if !product.IsSubscribable {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_SUBSCRIBABLE",
				"message": "This product is not available on subscription",
			},
		})
		return
	}

	var existing int64
	ctl.DB.Model(&models.Subscription{}).
		Where("user_id = ? AND product_id = ? AND status <> ?",
			claims.UserID, req.ProductID, models.SubscriptionStatusCancelled).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_SUBSCRIBED",
				"message": "You already have an active subscription for this product",
			},
		})
		return
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	next := time.Now().AddDate(0, 0, models.FrequencyDays[req.Frequency])
	sub := models.Subscription{
		UserID:       claims.UserID,
		ProductID:    req.ProductID,
		Frequency:    req.Frequency,
		Quantity:     quantity,
		Status:       models.SubscriptionStatusActive,
		NextDelivery: &next,
	}
	if err := ctl.DB.Create(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create subscription",
			},
		})
		return
	}

	sub.Product = product
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    sub,
	})
}

// SubscriptionUpdateRequest represents the request body for updating a subscription
type SubscriptionUpdateRequest struct {
	Action    string `json:"action" binding:"required"`
	Frequency string `json:"frequency"`
}

// UpdateSubscription handles PATCH /api/v1/subscriptions/:id
func (ctl *SubscriptionController) UpdateSubscription(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Subscription ID required",
			},
		})
		return
	}

	var sub models.Subscription
	if err := ctl.DB.First(&sub, "id = ? AND user_id = ?", id, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SUBSCRIPTION_NOT_FOUND",
				"message": "Subscription not found",
			},
		})
		return
	}

	var req SubscriptionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Action is required",
				"details": err.Error(),
			},
		})
		return
	}

	if sub.Status == models.SubscriptionStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SUBSCRIPTION_CANCELLED",
				"message": "Cancelled subscriptions cannot be changed",
			},
		})
		return
	}

	switch req.Action {
	case "pause":
		sub.Status = models.SubscriptionStatusPaused
	case "resume":
		sub.Status = models.SubscriptionStatusActive
		next := time.Now().AddDate(0, 0, models.FrequencyDays[sub.Frequency])
		sub.NextDelivery = &next
	case "cancel":
		sub.Status = models.SubscriptionStatusCancelled
		sub.NextDelivery = nil
	case "frequency":
		if !models.IsValidFrequency(req.Frequency) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_FREQUENCY",
					"message": "Frequency must be monthly, bimonthly or quarterly",
				},
			})
			return
		}
		sub.Frequency = req.Frequency
		next := time.Now().AddDate(0, 0, models.FrequencyDays[req.Frequency])
		sub.NextDelivery = &next
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ACTION",
				"message": "Action must be pause, resume, cancel or frequency",
			},
		})
		return
	}

	if err := ctl.DB.Save(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update subscription",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sub,
	})
}
