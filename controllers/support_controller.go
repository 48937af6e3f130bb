package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/models"
)

// SupportController manages customer support tickets
type SupportController struct {
	DB *gorm.DB
}

// NewSupportController creates a support controller
func NewSupportController(db *gorm.DB) *SupportController {
	return &SupportController{DB: db}
}

// SupportRequest represents the request body for opening a ticket
type SupportRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// CreateTicket handles POST /api/v1/support
//
// Works for both guests and signed-in customers; when a token is present
// the ticket is linked to the account.
func (ctl *SupportController) CreateTicket(c *gin.Context) {
	var req SupportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name, email, subject and message are required",
				"details": err.Error(),
			},
		})
		return
	}

	ticket := models.SupportTicket{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.TicketStatusOpen,
	}
	if claims, err := middleware.CurrentUser(c); err == nil {
		ticket.UserID = &claims.UserID
	}

	if err := ctl.DB.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create ticket",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id":     ticket.ID,
			"status": ticket.Status,
		},
	})
}

// AdminListTickets handles GET /api/v1/admin/support
func (ctl *SupportController) AdminListTickets(c *gin.Context) {
	query := ctl.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tickets []models.SupportTicket
	if err := query.Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load tickets",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tickets,
	})
}

// TicketUpdateRequest represents the request body for updating a ticket
type TicketUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateTicket handles PATCH /api/v1/admin/support/:id
func (ctl *SupportController) AdminUpdateTicket(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Ticket ID required",
			},
		})
		return
	}

	var req TicketUpdateRequest
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
	switch req.Status {
	case models.TicketStatusOpen, models.TicketStatusInProgress,
		models.TicketStatusResolved, models.TicketStatusClosed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Status must be open, in_progress, resolved or closed",
			},
		})
		return
	}

	result := ctl.DB.Model(&models.SupportTicket{}).Where("id = ?", id).
		Update("status", req.Status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update ticket",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TICKET_NOT_FOUND",
				"message": "Ticket not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
