package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/susvada/storefront-api/services"
	"github.com/susvada/storefront-api/utils"
)

// UploadController handles product image uploads to object storage
type UploadController struct {
	Media services.MediaStorage
}

// NewUploadController creates an upload controller
func NewUploadController(media services.MediaStorage) *UploadController {
	return &UploadController{Media: media}
}

// UploadProductImage handles POST /api/v1/admin/uploads/product-image
func (ctl *UploadController) UploadProductImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_REQUIRED",
				"message": "An image file is required",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		code := "INVALID_FILE"
		if errors.As(err, &uploadErr) {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	key, err := ctl.Media.UploadImage(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store image",
			},
		})
		return
	}

	url, err := ctl.Media.GetImageURL(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to resolve image URL",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"key": key,
			"url": url,
		},
	})
}
