package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/models"
	"github.com/susvada/storefront-api/services"
	"github.com/susvada/storefront-api/utils"
)

// CheckoutController prepares the UPI payment step of checkout
type CheckoutController struct {
	DB            *gorm.DB
	MerchantUPIID string
}

// NewCheckoutController creates a checkout controller. merchantUPIID is the
// fallback when no merchant_upi_id setting row exists.
func NewCheckoutController(db *gorm.DB, merchantUPIID string) *CheckoutController {
	return &CheckoutController{DB: db, MerchantUPIID: merchantUPIID}
}

// PaymentRequest represents the request body for preparing a UPI payment
type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// PreparePayment handles POST /api/v1/checkout/payment
//
// Returns the UPI deep link, a QR code for desktop customers, and whether
// the caller's device can open the link directly.
func (ctl *CheckoutController) PreparePayment(c *gin.Context) {
	if _, err := middleware.CurrentUser(c); err != nil {
		unauthorized(c)
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A positive amount is required",
				"details": err.Error(),
			},
		})
		return
	}

	vpa := models.GetSetting(ctl.DB, models.SettingMerchantUPIID, ctl.MerchantUPIID)
	if vpa == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PAYMENTS_UNAVAILABLE",
				"message": "UPI payments are not configured",
			},
		})
		return
	}

	reference := utils.NewOrderCode()
	upiLink := services.BuildUPILink(req.Amount, reference, vpa, services.DefaultMerchantName)

	qr, err := services.UPIQRDataURL(upiLink)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QR_GENERATION_FAILED",
				"message": "Failed to generate payment QR code",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"upi_link":  upiLink,
			"qr_code":   qr,
			"reference": reference,
			"amount":    req.Amount,
			"is_mobile": services.IsMobileDevice(c.GetHeader("User-Agent")),
		},
	})
}
