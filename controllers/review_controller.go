package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/models"
)

// ReviewController manages product reviews
type ReviewController struct {
	DB *gorm.DB
}

// NewReviewController creates a review controller
func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// ListProductReviews handles GET /api/v1/products/:id/reviews
func (ctl *ReviewController) ListProductReviews(c *gin.Context) {
	product, ok := ctl.findProduct(c)
	if !ok {
		return
	}

	var reviews []models.Review
	if err := ctl.DB.Preload("User").
		Where("product_id = ?", product.ID).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load reviews",
			},
		})
		return
	}

	type reviewView struct {
		ID        uint   `json:"id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
		UserName  string `json:"user_name"`
		CreatedAt string `json:"created_at"`
	}
	views := make([]reviewView, 0, len(reviews))
	var total int
	for _, r := range reviews {
		total += r.Rating
		views = append(views, reviewView{
			ID:        r.ID,
			Rating:    r.Rating,
			Comment:   r.ReviewText,
			UserName:  r.User.Name,
			CreatedAt: r.CreatedAt.Format("2006-01-02"),
		})
	}

	average := 0.0
	if len(reviews) > 0 {
		average = float64(total) / float64(len(reviews))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reviews":        views,
			"review_count":   len(reviews),
			"average_rating": average,
		},
	})
}

// ReviewRequest represents the request body for creating a review
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview handles POST /api/v1/products/:id/reviews
//
// Only customers with a delivered order containing the product may review it,
// and each customer gets one review per product.
func (ctl *ReviewController) CreateReview(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	product, ok := ctl.findProduct(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Rating must be between 1 and 5",
				"details": err.Error(),
			},
		})
		return
	}

	var existing int64
	ctl.DB.Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", claims.UserID, product.ID).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_REVIEWED",
				"message": "You have already reviewed this product",
			},
		})
		return
	}

	if !ctl.hasDeliveredOrder(claims.UserID, product.ID) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PURCHASE_REQUIRED",
				"message": "Only customers who received this product can review it",
			},
		})
		return
	}

	review := models.Review{
		UserID:     claims.UserID,
		ProductID:  product.ID,
		Rating:     req.Rating,
		ReviewText: req.Comment,
	}
	if err := ctl.DB.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save review",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    review,
	})
}

// AdminListReviews handles GET /api/v1/admin/reviews
func (ctl *ReviewController) AdminListReviews(c *gin.Context) {
	var reviews []models.Review
	if err := ctl.DB.Preload("User").Preload("Product").
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load reviews",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reviews,
	})
}

// AdminDeleteReview handles DELETE /api/v1/admin/reviews/:id
func (ctl *ReviewController) AdminDeleteReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Review ID required",
			},
		})
		return
	}

	result := ctl.DB.Delete(&models.Review{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete review",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REVIEW_NOT_FOUND",
				"message": "Review not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ctl *ReviewController) findProduct(c *gin.Context) (models.Product, bool) {
	var product models.Product
	param := c.Param("id")

	query := ctl.DB
	if id, err := strconv.Atoi(param); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("slug = ?", param)
	}
	if err := query.First(&product).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return product, false
	}
	return product, true
}

// hasDeliveredOrder reports whether the user has a delivered order that
// includes the given product. Order lines are stored as a JSON snapshot,
// so the check decodes each delivered order's items.
func (ctl *ReviewController) hasDeliveredOrder(userID, productID uint) bool {
	var orders []models.Order
	if err := ctl.DB.Where("user_id = ? AND status = ?", userID, models.OrderStatusDelivered).
		Find(&orders).Error; err != nil {
		return false
	}
	for _, order := range orders {
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true
			}
		}
	}
	return false
}
