package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/middleware"
	"github.com/susvada/storefront-api/models"
)

const testJWTSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Address{}, &models.Product{}, &models.Order{},
		&models.Refund{}, &models.CartItem{}, &models.Subscription{},
		&models.Review{}, &models.SupportTicket{}, &models.Setting{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func bearerToken(t *testing.T, user models.User) string {
	token, err := middleware.GenerateToken(testJWTSecret, &user)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return "Bearer " + token
}

func jsonRequest(t *testing.T, method, path string, body interface{}, authHeader string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

func doRequest(router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func errorCode(response map[string]interface{}) string {
	errData, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errData["code"].(string)
	return code
}
