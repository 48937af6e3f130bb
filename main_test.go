package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/susvada/storefront-api/config"
	"github.com/susvada/storefront-api/services"
)

func setupTestApp(t *testing.T) (*gorm.DB, http.Handler) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDatabase(db))

	cfg := &config.Config{
		GoEnv:               "test",
		JWTSecret:           "test-secret",
		MerchantUPIID:       "susvada@upi",
		TelegramAdminChatID: "123456",
		AdminEmail:          "admin@susvada.test",
		AdminPassword:       "admin-password",
	}
	require.NoError(t, config.SeedDefaults(db, cfg))

	deps := Dependencies{
		Telegram: services.NewMockTelegramService(),
		Media:    services.NewMockMediaStorage(),
	}
	return db, SetupRouter(cfg, db, deps)
}

func TestHealthCheck(t *testing.T) {
	_, router := setupTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestDatabaseStatus(t *testing.T) {
	_, router := setupTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/database/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Database connected")
}

func TestUnknownRoute(t *testing.T) {
	_, router := setupTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	_, router := setupTestApp(t)

	for _, path := range []string{"/api/v1/cart", "/api/v1/orders", "/api/v1/admin/dashboard"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
