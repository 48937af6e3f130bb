package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/models"
)

// AddressController manages a user's address book
type AddressController struct {
	DB *gorm.DB
}

// NewAddressController creates an address controller
func NewAddressController(db *gorm.DB) *AddressController {
	return &AddressController{DB: db}
}

// ListAddresses handles GET /api/v1/addresses
func (ctl *AddressController) ListAddresses(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var addresses []models.Address
	if err := ctl.DB.Where("user_id = ?", claims.UserID).
		Order("is_default DESC, created_at DESC").Find(&addresses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load addresses",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    addresses,
	})
}

// AddressRequest represents the request body for creating or updating an address
type AddressRequest struct {
	Label     string `json:"label"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Line1     string `json:"line1" binding:"required"`
	Line2     string `json:"line2"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

// CreateAddress handles POST /api/v1/addresses
func (ctl *AddressController) CreateAddress(c *gin.Context) {
	claims, err := middleware.CurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Required fields missing",
				"details": err.Error(),
			},
		})
		return
	}

	address := models.Address{
		UserID:    claims.UserID,
		Label:     defaultString(req.Label, "Home"),
		Name:      req.Name,
		Phone:     req.Phone,
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Country:   defaultString(req.Country, "India"),
		IsDefault: req.IsDefault,
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.Address{}).Where("user_id = ?", claims.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save address",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    address,
	})
}

// UpdateAddress handles PUT /api/v1/addresses/:id
func (ctl *AddressController) UpdateAddress(c *gin.Context) {
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
				"message": "Address ID required",
			},
		})
		return
	}

	var address models.Address
	if err := ctl.DB.First(&address, "id = ? AND user_id = ?", id, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ADDRESS_NOT_FOUND",
				"message": "Address not found",
			},
		})
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Required fields missing",
				"details": err.Error(),
			},
		})
		return
	}

	address.Label = defaultString(req.Label, "Home")
	address.Name = req.Name
	address.Phone = req.Phone
	address.Line1 = req.Line1
	address.Line2 = req.Line2
	address.City = req.City
	address.State = req.State
	address.Pincode = req.Pincode
	address.Country = defaultString(req.Country, "India")
	address.IsDefault = req.IsDefault

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.Address{}).Where("user_id = ?", claims.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&address).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save address",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    address,
	})
}

// DeleteAddress handles DELETE /api/v1/addresses/:id
func (ctl *AddressController) DeleteAddress(c *gin.Context) {
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
				"message": "Address ID required",
			},
		})
		return
	}

	if err := ctl.DB.Where("id = ? AND user_id = ?", id, claims.UserID).
		Delete(&models.Address{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete address",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
