package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/models"
	"github.com/susvada/storefront-api/utils"
)

// ProductController serves the public catalog and the admin product CRUD
type ProductController struct {
	DB *gorm.DB
}

// NewProductController creates a product controller
func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

// ListProducts handles GET /api/v1/products - public catalog listing
func (ctl *ProductController) ListProducts(c *gin.Context) {
	status := c.DefaultQuery("status", models.ProductStatusActive)
	query := ctl.DB.Where("status = ?", status)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// findProduct resolves a product by numeric id or slug
func (ctl *ProductController) findProduct(idOrSlug string) (*models.Product, error) {
	var product models.Product
	if id, err := strconv.Atoi(idOrSlug); err == nil {
		if err := ctl.DB.First(&product, id).Error; err != nil {
			return nil, err
		}
		return &product, nil
	}
	if err := ctl.DB.First(&product, "slug = ?", idOrSlug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProduct handles GET /api/v1/products/:id - detail by id or slug with
// review stats
func (ctl *ProductController) GetProduct(c *gin.Context) {
	product, err := ctl.findProduct(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	var stats struct {
		ReviewCount int64    `json:"review_count"`
		AvgRating   *float64 `json:"avg_rating"`
	}
	ctl.DB.Model(&models.Review{}).
		Select("COUNT(*) as review_count, ROUND(AVG(rating), 1) as avg_rating").
		Where("product_id = ?", product.ID).
		Scan(&stats)

	avgRating := 0.0
	if stats.AvgRating != nil {
		avgRating = *stats.AvgRating
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"product":      product,
			"avg_rating":   avgRating,
			"review_count": stats.ReviewCount,
		},
	})
}

// AdminListProducts handles GET /api/v1/admin/products - all statuses
func (ctl *ProductController) AdminListProducts(c *gin.Context) {
	var products []models.Product
	if err := ctl.DB.Order("created_at DESC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	Name             string            `json:"name" binding:"required"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"short_description"`
	Category         string            `json:"category" binding:"required"`
	Price            float64           `json:"price" binding:"required,gt=0"`
	ComparePrice     *float64          `json:"compare_price"`
	Weight           string            `json:"weight"`
	Unit             string            `json:"unit"`
	ShelfLifeDays    int               `json:"shelf_life_days"`
	ManufacturedDate *string           `json:"manufactured_date"`
	IsPreorder       bool              `json:"is_preorder"`
	PreorderDate     *string           `json:"preorder_date"`
	IsSubscribable   bool              `json:"is_subscribable"`
	ShippingScope    string            `json:"shipping_scope"`
	Stock            int               `json:"stock" binding:"omitempty,gte=0"`
	Status           string            `json:"status"`
	HeroImage        string            `json:"hero_image"`
	Images           models.StringList `json:"images"`
	Tags             models.StringList `json:"tags"`
}

// CreateProduct handles POST /api/v1/admin/products
func (ctl *ProductController) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name, category, and price required",
				"details": err.Error(),
			},
		})
		return
	}

	product := models.Product{
		Name:             req.Name,
		Slug:             utils.Slugify(req.Name),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		Price:            req.Price,
		ComparePrice:     req.ComparePrice,
		Weight:           req.Weight,
		Unit:             defaultString(req.Unit, "g"),
		ShelfLifeDays:    defaultInt(req.ShelfLifeDays, 30),
		ManufacturedDate: req.ManufacturedDate,
		IsPreorder:       req.IsPreorder,
		PreorderDate:     req.PreorderDate,
		IsSubscribable:   req.IsSubscribable,
		ShippingScope:    defaultString(req.ShippingScope, models.ShippingScopeExportable),
		Stock:            req.Stock,
		Status:           defaultString(req.Status, models.ProductStatusActive),
		HeroImage:        req.HeroImage,
		Images:           req.Images,
		Tags:             req.Tags,
	}

	if err := ctl.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/admin/products/:id
func (ctl *ProductController) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Product ID required",
			},
		})
		return
	}

	var product models.Product
	if err := ctl.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid product data",
				"details": err.Error(),
			},
		})
		return
	}

	product.Name = req.Name
	product.Slug = utils.Slugify(req.Name)
	product.Description = req.Description
	product.ShortDescription = req.ShortDescription
	product.Category = req.Category
	product.Price = req.Price
	product.ComparePrice = req.ComparePrice
	product.Weight = req.Weight
	product.Unit = defaultString(req.Unit, product.Unit)
	product.ShelfLifeDays = defaultInt(req.ShelfLifeDays, product.ShelfLifeDays)
	product.ManufacturedDate = req.ManufacturedDate
	product.IsPreorder = req.IsPreorder
	product.PreorderDate = req.PreorderDate
	product.IsSubscribable = req.IsSubscribable
	product.ShippingScope = defaultString(req.ShippingScope, product.ShippingScope)
	product.Stock = req.Stock
	product.Status = defaultString(req.Status, product.Status)
	product.HeroImage = req.HeroImage
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}

	if err := ctl.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id
func (ctl *ProductController) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Product ID required",
			},
		})
		return
	}

	if err := ctl.DB.Delete(&models.Product{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
