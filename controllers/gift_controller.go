package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/susvada/storefront-api/services"
)

// GiftController drafts gift messages during checkout
type GiftController struct {
	Generator services.GiftMessageGenerator
}

// NewGiftController creates a gift message controller
func NewGiftController(generator services.GiftMessageGenerator) *GiftController {
	return &GiftController{Generator: generator}
}

// GiftMessageRequest represents the request body for drafting a gift message
type GiftMessageRequest struct {
	Occasion  string `json:"occasion"`
	Recipient string `json:"recipient"`
}

// GenerateGiftMessage handles POST /api/v1/gift-message
//
// Drafting is best-effort: when the generator is unavailable the customer
// gets an empty message and writes their own.
func (ctl *GiftController) GenerateGiftMessage(c *gin.Context) {
	var req GiftMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request body",
				"details": err.Error(),
			},
		})
		return
	}

	message := ""
	if ctl.Generator != nil {
		drafted, err := ctl.Generator.GenerateGiftMessage(req.Occasion, req.Recipient)
		if err != nil {
			log.Printf("Gift message generation failed: %v", err)
		} else {
			message = drafted
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": message,
		},
	})
}
