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

func newAuthRouter(db *gorm.DB) *gin.Engine {
	router := setupTestRouter()
	ctl := NewAuthController(db, testJWTSecret)
	router.POST("/auth/signup", ctl.Signup)
	router.POST("/auth/login", ctl.Login)
	router.GET("/auth/me", middleware.RequireAuth(testJWTSecret), ctl.Me)
	return router
}

func TestSignup(t *testing.T) {
	db := setupTestDB(t)
	existing := createTestUser(t, db, "taken@example.com", models.RoleCustomer)
	existing.Phone = "9876543210"
	require.NoError(t, db.Save(&existing).Error)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Successful signup",
			requestBody: map[string]interface{}{
				"name":     "Asha",
				"email":    "asha@example.com",
				"password": "secret123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate email rejected",
			requestBody: map[string]interface{}{
				"name":     "Someone",
				"email":    "taken@example.com",
				"password": "secret123",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "EMAIL_TAKEN",
		},
		{
			name: "Duplicate phone rejected",
			requestBody: map[string]interface{}{
				"name":     "Someone",
				"email":    "new@example.com",
				"password": "secret123",
				"phone":    "9876543210",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "PHONE_TAKEN",
		},
		{
			name: "Short password rejected",
			requestBody: map[string]interface{}{
				"name":     "Asha",
				"email":    "asha2@example.com",
				"password": "hi",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Missing email rejected",
			requestBody: map[string]interface{}{
				"name":     "Asha",
				"password": "secret123",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(db)
			req := jsonRequest(t, http.MethodPost, "/auth/signup", tt.requestBody, "")
			w, response := doRequest(router, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
				return
			}

			data := response["data"].(map[string]interface{})
			assert.NotEmpty(t, data["token"])
			user := data["user"].(map[string]interface{})
			assert.Equal(t, "asha@example.com", user["email"])
			assert.Equal(t, models.RoleCustomer, user["role"])

			// Password hash never leaves the API
			_, exposed := user["password_hash"]
			assert.False(t, exposed)
		})
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "asha@example.com", models.RoleCustomer)

	blocked := createTestUser(t, db, "blocked@example.com", models.RoleCustomer)
	require.NoError(t, db.Model(&blocked).Update("is_blocked", true).Error)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Successful login",
			requestBody: map[string]interface{}{
				"email":    "asha@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong password",
			requestBody: map[string]interface{}{
				"email":    "asha@example.com",
				"password": "wrong-password",
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name: "Unknown email",
			requestBody: map[string]interface{}{
				"email":    "ghost@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "INVALID_CREDENTIALS",
		},
		{
			name: "Blocked account",
			requestBody: map[string]interface{}{
				"email":    "blocked@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "ACCOUNT_BLOCKED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(db)
			req := jsonRequest(t, http.MethodPost, "/auth/login", tt.requestBody, "")
			w, response := doRequest(router, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
			} else {
				data := response["data"].(map[string]interface{})
				assert.NotEmpty(t, data["token"])
			}
		})
	}
}

func TestMe(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "asha@example.com", models.RoleCustomer)
	router := newAuthRouter(db)

	req := jsonRequest(t, http.MethodGet, "/auth/me", nil, bearerToken(t, user))
	w, response := doRequest(router, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "asha@example.com", data["email"])

	// No token
	req = jsonRequest(t, http.MethodGet, "/auth/me", nil, "")
	w, _ = doRequest(router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
