package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/models"
)

// CartController manages the per-user cart. Every mutation is validated
// against live stock.
type CartController struct {
	DB *gorm.DB
}

// NewCartController creates a cart controller
func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db}
}

// GetCart handles GET /api/v1/cart
func (ctl *CartController) GetCart(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var items []models.CartItem
	if err := ctl.DB.Preload("Product").Where("user_id = ?", claims.UserID).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// AddToCartRequest represents the request body for adding a product to the cart
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"omitempty,gt=0"`
}

// AddToCart handles POST /api/v1/cart
func (ctl *CartController) AddToCart(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Product ID required",
			},
		})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
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

	var existing models.CartItem
	findErr := ctl.DB.First(&existing, "user_id = ? AND product_id = ?", claims.UserID, req.ProductID).Error

	newQuantity := req.Quantity
	if findErr == nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > product.Stock {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_STOCK",
				"message": "Insufficient stock",
			},
		})
		return
	}

	if findErr == nil {
		existing.Quantity = newQuantity
		err = ctl.DB.Save(&existing).Error
	} else {
		err = ctl.DB.Create(&models.CartItem{
			UserID:    claims.UserID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// UpdateCartRequest represents the request body for setting a line's quantity
type UpdateCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity" binding:"required"`
}

// UpdateCart handles PUT /api/v1/cart - sets a line's quantity; zero or
// negative removes the line
func (ctl *CartController) UpdateCart(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Product ID and quantity required",
			},
		})
		return
	}

	if *req.Quantity <= 0 {
		ctl.DB.Where("user_id = ? AND product_id = ?", claims.UserID, req.ProductID).Delete(&models.CartItem{})
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	var product models.Product
	if err := ctl.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}
	if *req.Quantity > product.Stock {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_STOCK",
				"message": "Insufficient stock",
			},
		})
		return
	}

	if err := ctl.DB.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", claims.UserID, req.ProductID).
		Update("quantity", *req.Quantity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearCart handles DELETE /api/v1/cart - removes one line when product_id
// is given, otherwise empties the cart
func (ctl *CartController) ClearCart(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	query := ctl.DB.Where("user_id = ?", claims.UserID)
	if productID := c.Query("product_id"); productID != "" {
		id, err := strconv.Atoi(productID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_REQUEST",
					"message": "Invalid product ID",
				},
			})
			return
		}
		query = query.Where("product_id = ?", id)
	}

	if err := query.Delete(&models.CartItem{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update cart",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// unauthorized writes the standard missing-session response
func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Could not extract user information",
		},
	})
}
