package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/models"
)

// SettingsController exposes storefront configuration
type SettingsController struct {
	DB *gorm.DB
}

// NewSettingsController creates a settings controller
func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// PublicSettings handles GET /api/v1/settings
//
// Returns only the safe subset customers need for the storefront.
func (ctl *SettingsController) PublicSettings(c *gin.Context) {
	var settings []models.Setting
	if err := ctl.DB.Where("key IN ?", models.PublicSettingKeys).Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load settings",
			},
		})
		return
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    out,
	})
}

// AdminListSettings handles GET /api/v1/admin/settings
func (ctl *SettingsController) AdminListSettings(c *gin.Context) {
	var settings []models.Setting
	if err := ctl.DB.Order("key").Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load settings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settings,
	})
}

// AdminUpdateSettings handles PUT /api/v1/admin/settings
//
// Accepts a flat key/value object and upserts each pair.
func (ctl *SettingsController) AdminUpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A non-empty settings object is required",
			},
		})
		return
	}

	err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		for key, value := range req {
			if err := models.SetSetting(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save settings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
