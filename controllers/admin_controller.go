package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/models"
	"github.com/susvada/storefront-api/services"
	"github.com/susvada/storefront-api/utils"
)

// LowStockThreshold flags products that need restocking on the dashboard
const LowStockThreshold = 10

// AdminController serves the back-office dashboard and customer management
type AdminController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

// NewAdminController creates an admin controller
func NewAdminController(db *gorm.DB, orders *services.OrderService) *AdminController {
	return &AdminController{DB: db, Orders: orders}
}

// Dashboard handles GET /api/v1/admin/dashboard
func (ctl *AdminController) Dashboard(c *gin.Context) {
	var totalOrders, pendingOrders, totalCustomers, totalProducts int64
	ctl.DB.Model(&models.Order{}).Count(&totalOrders)
	ctl.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPendingVerification).Count(&pendingOrders)
	ctl.DB.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&totalCustomers)
	ctl.DB.Model(&models.Product{}).Count(&totalProducts)

	// Revenue counts only verified orders; pending and cancelled are out
	var revenue float64
	ctl.DB.Model(&models.Order{}).
		Where("status IN ?", []string{
			models.OrderStatusProcessing,
			models.OrderStatusShipped,
			models.OrderStatusDelivered,
		}).
		Select("COALESCE(SUM(total), 0)").Scan(&revenue)

	var lowStock []models.Product
	ctl.DB.Where("stock < ? AND status = ?", LowStockThreshold, models.ProductStatusActive).
		Order("stock ASC").Find(&lowStock)

	expiring := ctl.expiringProducts()

	var recentOrders []models.Order
	ctl.DB.Order("created_at DESC").Limit(5).Find(&recentOrders)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_orders":       totalOrders,
			"pending_orders":     pendingOrders,
			"total_customers":    totalCustomers,
			"total_products":     totalProducts,
			"total_revenue":      revenue,
			"low_stock_products": lowStock,
			"expiring_products":  expiring,
			"recent_orders":      recentOrders,
		},
	})
}

// expiringProducts returns active products whose remaining shelf life,
// counted from the manufactured date, runs out within a week.
func (ctl *AdminController) expiringProducts() []models.Product {
	var candidates []models.Product
	ctl.DB.Where("manufactured_date IS NOT NULL AND status = ?", models.ProductStatusActive).
		Find(&candidates)

	cutoff := time.Now().AddDate(0, 0, 7)
	expiring := make([]models.Product, 0)
	for _, p := range candidates {
		if p.ManufacturedDate == nil {
			continue
		}
		made, err := time.Parse("2006-01-02", *p.ManufacturedDate)
		if err != nil {
			continue
		}
		expiry := made.AddDate(0, 0, p.ShelfLifeDays)
		if expiry.Before(cutoff) {
			expiring = append(expiring, p)
		}
	}
	return expiring
}

// ListCustomers handles GET /api/v1/admin/customers
func (ctl *AdminController) ListCustomers(c *gin.Context) {
	var users []models.User
	if err := ctl.DB.Where("role = ?", models.RoleCustomer).
		Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load customers",
			},
		})
		return
	}

	type customerView struct {
		models.User
		OrderCount int64   `json:"order_count"`
		TotalSpent float64 `json:"total_spent"`
	}
	views := make([]customerView, 0, len(users))
	for _, u := range users {
		var count int64
		var spent float64
		ctl.DB.Model(&models.Order{}).Where("user_id = ?", u.ID).Count(&count)
		ctl.DB.Model(&models.Order{}).
			Where("user_id = ? AND status <> ?", u.ID, models.OrderStatusCancelled).
			Select("COALESCE(SUM(total), 0)").Scan(&spent)
		views = append(views, customerView{User: u, OrderCount: count, TotalSpent: spent})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// CustomerBlockRequest represents the request body for blocking a customer
type CustomerBlockRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

// SetCustomerBlocked handles PATCH /api/v1/admin/customers/:id/block
func (ctl *AdminController) SetCustomerBlocked(c *gin.Context) {
	user, ok := ctl.findCustomer(c)
	if !ok {
		return
	}

	var req CustomerBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Blocked flag is required",
				"details": err.Error(),
			},
		})
		return
	}

	if err := ctl.DB.Model(&user).Update("is_blocked", *req.Blocked).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update customer",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":         user.ID,
			"is_blocked": *req.Blocked,
		},
	})
}

// ResetCustomerPassword handles POST /api/v1/admin/customers/:id/reset-password
//
// Issues a temporary password the operator relays to the customer out of
// band. The plaintext appears only in this one response.
func (ctl *AdminController) ResetCustomerPassword(c *gin.Context) {
	user, ok := ctl.findCustomer(c)
	if !ok {
		return
	}

	tempPassword, err := utils.GenerateTempPassword(8)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to generate password",
			},
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to hash password",
			},
		})
		return
	}

	if err := ctl.DB.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update password",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"temp_password": tempPassword,
		},
	})
}

func (ctl *AdminController) findCustomer(c *gin.Context) (models.User, bool) {
	var user models.User
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Customer ID required",
			},
		})
		return user, false
	}
	if err := ctl.DB.First(&user, "id = ? AND role = ?", id, models.RoleCustomer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return user, false
	}
	return user, true
}

// AdminListOrders handles GET /api/v1/admin/orders
func (ctl *AdminController) AdminListOrders(c *gin.Context) {
	query := ctl.DB.Preload("User").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
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

// OrderStatusRequest represents the request body for changing an order status
type OrderStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	TrackingID  string `json:"tracking_id"`
	TrackingURL string `json:"tracking_url"`
}

// AdminUpdateOrderStatus handles PATCH /api/v1/admin/orders/:code/status
func (ctl *AdminController) AdminUpdateOrderStatus(c *gin.Context) {
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Status is required",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := ctl.Orders.Transition(c.Param("code"), services.TransitionInput{
		Status:      req.Status,
		TrackingID:  req.TrackingID,
		TrackingURL: req.TrackingURL,
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
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unsupported order status",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to update order",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// AdminListRefunds handles GET /api/v1/admin/refunds
func (ctl *AdminController) AdminListRefunds(c *gin.Context) {
	query := ctl.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var refunds []models.Refund
	if err := query.Find(&refunds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load refunds",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    refunds,
	})
}

// AdminSettleRefund handles PATCH /api/v1/admin/refunds/:id/settle
func (ctl *AdminController) AdminSettleRefund(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Refund ID required",
			},
		})
		return
	}

	if err := ctl.Orders.SettleRefund(uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrRefundNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REFUND_NOT_FOUND",
					"message": "Refund not found",
				},
			})
		case errors.Is(err, services.ErrRefundAlreadyProcessed):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REFUND_ALREADY_PROCESSED",
					"message": "Refund has already been processed",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to settle refund",
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
