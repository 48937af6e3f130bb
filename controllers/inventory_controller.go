package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/models"
	"github.com/susvada/storefront-api/utils"
)

// InventoryController handles bulk inventory transfer via Excel workbooks
type InventoryController struct {
	DB *gorm.DB
}

// NewInventoryController creates an inventory controller
func NewInventoryController(db *gorm.DB) *InventoryController {
	return &InventoryController{DB: db}
}

var inventoryColumns = []string{
	"ID", "Name", "Category", "Price", "Stock",
	"Shelf Life (days)", "Manufactured Date", "Status",
}

// ExportInventory handles GET /api/v1/admin/inventory/export
//
// Streams the full catalog as an .xlsx attachment in the same column
// layout ImportInventory accepts, so a sheet can be exported, edited and
// re-imported.
func (ctl *InventoryController) ExportInventory(c *gin.Context) {
	var products []models.Product
	if err := ctl.DB.Order("id").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load products",
			},
		})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Inventory"
	f.SetSheetName("Sheet1", sheet)
	for i, col := range inventoryColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}

	for row, p := range products {
		madeDate := ""
		if p.ManufacturedDate != nil {
			madeDate = *p.ManufacturedDate
		}
		values := []interface{}{
			p.ID, p.Name, p.Category, p.Price, p.Stock,
			p.ShelfLifeDays, madeDate, p.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": "Failed to write workbook",
			},
		})
	}
}

// ImportInventory handles POST /api/v1/admin/inventory/import
//
// Rows with an ID update the matching product; rows without an ID but with
// name, category and price create a new one. Malformed rows are skipped and
// reported, never fatal. All changes land in a single transaction.
func (ctl *InventoryController) ImportInventory(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_REQUIRED",
				"message": "An .xlsx file is required",
			},
		})
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_WORKBOOK",
				"message": "File is not a readable Excel workbook",
			},
		})
		return
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_WORKBOOK",
				"message": "Workbook has no data rows",
			},
		})
		return
	}

	var updated, created int
	var skipped []string

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		for i, row := range rows[1:] {
			rowNum := i + 2
			if isBlankRow(row) {
				continue
			}

			id := cellInt(row, 0)
			name := cellString(row, 1)
			category := cellString(row, 2)
			price, priceOK := cellFloat(row, 3)
			stock := cellInt(row, 4)
			shelfLife := cellInt(row, 5)
			madeDate := cellString(row, 6)
			status := cellString(row, 7)

			if id > 0 {
				var product models.Product
				if err := tx.First(&product, id).Error; err != nil {
					skipped = append(skipped, fmt.Sprintf("row %d: product %d not found", rowNum, id))
					continue
				}
				if name != "" {
					product.Name = name
				}
				if category != "" {
					product.Category = category
				}
				if priceOK && price > 0 {
					product.Price = price
				}
				if stock >= 0 {
					product.Stock = stock
				}
				if shelfLife > 0 {
					product.ShelfLifeDays = shelfLife
				}
				if madeDate != "" {
					product.ManufacturedDate = &madeDate
				}
				if status == models.ProductStatusActive || status == models.ProductStatusDraft {
					product.Status = status
				}
				if err := tx.Save(&product).Error; err != nil {
					return err
				}
				updated++
				continue
			}

			if name == "" || category == "" || !priceOK || price <= 0 {
				skipped = append(skipped, fmt.Sprintf("row %d: name, category and price are required for new products", rowNum))
				continue
			}
			product := models.Product{
				Name:     name,
				Slug:     utils.Slugify(name),
				Category: category,
				Price:    price,
				Stock:    maxInt(stock, 0),
				Status:   models.ProductStatusActive,
			}
			if shelfLife > 0 {
				product.ShelfLifeDays = shelfLife
			}
			if madeDate != "" {
				product.ManufacturedDate = &madeDate
			}
			if err := tx.Create(&product).Error; err != nil {
				skipped = append(skipped, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}
			created++
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMPORT_FAILED",
				"message": "Failed to apply inventory changes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"updated": updated,
			"created": created,
			"skipped": skipped,
			"total":   updated + created,
		},
	})
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellString(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellInt(row []string, i int) int {
	v, err := strconv.Atoi(cellString(row, i))
	if err != nil {
		return 0
	}
	return v
}

func cellFloat(row []string, i int) (float64, bool) {
	v, err := strconv.ParseFloat(cellString(row, i), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
