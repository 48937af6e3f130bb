package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/models"
)

func newCartRouter(db *gorm.DB) *gin.Engine {
	router := setupTestRouter()
	ctl := NewCartController(db)
	auth := middleware.RequireAuth(testJWTSecret)
	router.GET("/cart", auth, ctl.GetCart)
	router.POST("/cart", auth, ctl.AddToCart)
	router.PUT("/cart", auth, ctl.UpdateCart)
	router.DELETE("/cart", auth, ctl.ClearCart)
	return router
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int, status string) models.Product {
	product := models.Product{
		Name:     name,
		Slug:     name,
		Category: "sweets",
		Price:    price,
		Stock:    stock,
		Status:   status,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

func TestAddToCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "asha@example.com", models.RoleCustomer)
	active := createTestProduct(t, db, "laddu", 299, 5, models.ProductStatusActive)
	draft := createTestProduct(t, db, "unreleased", 100, 5, models.ProductStatusDraft)
	router := newCartRouter(db)
	token := bearerToken(t, user)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Add active product",
			requestBody: map[string]interface{}{
				"product_id": active.ID,
				"quantity":   2,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Quantity defaults to one",
			requestBody: map[string]interface{}{
				"product_id": active.ID,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Existing and new quantity checked against stock",
			requestBody: map[string]interface{}{
				"product_id": active.ID,
				"quantity":   3, // 2 + 1 already in cart, 3 more exceeds 5
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INSUFFICIENT_STOCK",
		},
		{
			name: "Draft product hidden",
			requestBody: map[string]interface{}{
				"product_id": draft.ID,
				"quantity":   1,
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "PRODUCT_NOT_FOUND",
		},
		{
			name:           "Missing product id",
			requestBody:    map[string]interface{}{"quantity": 1},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/cart", tt.requestBody, token)
			w, response := doRequest(router, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
			}
		})
	}

	// The two successful adds merged into one line of quantity 3
	var item models.CartItem
	require.NoError(t, db.First(&item, "user_id = ? AND product_id = ?", user.ID, active.ID).Error)
	assert.Equal(t, 3, item.Quantity)
}

func TestUpdateCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "asha@example.com", models.RoleCustomer)
	product := createTestProduct(t, db, "laddu", 299, 5, models.ProductStatusActive)
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}).Error)

	router := newCartRouter(db)
	token := bearerToken(t, user)

	// Raise quantity
	req := jsonRequest(t, http.MethodPut, "/cart", map[string]interface{}{
		"product_id": product.ID, "quantity": 4,
	}, token)
	w, _ := doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, db.First(&item, "user_id = ?", user.ID).Error)
	assert.Equal(t, 4, item.Quantity)

	// Beyond stock
	req = jsonRequest(t, http.MethodPut, "/cart", map[string]interface{}{
		"product_id": product.ID, "quantity": 6,
	}, token)
	w, response := doRequest(router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(response))

	// Zero removes the line
	req = jsonRequest(t, http.MethodPut, "/cart", map[string]interface{}{
		"product_id": product.ID, "quantity": 0,
	}, token)
	w, _ = doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestClearCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "asha@example.com", models.RoleCustomer)
	laddu := createTestProduct(t, db, "laddu", 299, 5, models.ProductStatusActive)
	oil := createTestProduct(t, db, "oil", 450, 5, models.ProductStatusActive)
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, ProductID: laddu.ID, Quantity: 1}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, ProductID: oil.ID, Quantity: 2}).Error)

	router := newCartRouter(db)
	token := bearerToken(t, user)

	// Remove a single line
	req := jsonRequest(t, http.MethodDelete, "/cart?product_id="+uintString(laddu.ID), nil, token)
	w, _ := doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Empty the cart
	req = jsonRequest(t, http.MethodDelete, "/cart", nil, token)
	w, _ = doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetCartScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	asha := createTestUser(t, db, "asha@example.com", models.RoleCustomer)
	ravi := createTestUser(t, db, "ravi@example.com", models.RoleCustomer)
	product := createTestProduct(t, db, "laddu", 299, 5, models.ProductStatusActive)
	require.NoError(t, db.Create(&models.CartItem{UserID: asha.ID, ProductID: product.ID, Quantity: 1}).Error)

	router := newCartRouter(db)

	req := jsonRequest(t, http.MethodGet, "/cart", nil, bearerToken(t, ravi))
	w, response := doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, response["data"])
}
