package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/susvada/storefront-api/models"
)

const testSecret = "test-secret"

func testUser() *models.User {
	return &models.User{
		ID:    7,
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  models.RoleCustomer,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, models.RoleCustomer, claims.Role)
	assert.Equal(t, "Asha", claims.Name)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)

	_, err = ParseToken("another-secret", token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	claims := Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnsignedAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func newAuthTestRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/protected", RequireAuth(secret), func(c *gin.Context) {
		claims, err := CurrentUser(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": claims.UserID}})
	})
	router.GET("/admin", RequireAuth(secret), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.GET("/optional", OptionalAuth(secret), func(c *gin.Context) {
		_, err := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"signed_in": err == nil}})
	})

	return router
}

func TestRequireAuth(t *testing.T) {
	router := newAuthTestRouter(testSecret)
	token, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{
			name:           "Valid token passes",
			header:         "Bearer " + token,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing header rejected",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed header rejected",
			header:         "Token " + token,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Garbage token rejected",
			header:         "Bearer not.a.token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	router := newAuthTestRouter(testSecret)

	customerToken, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)

	admin := testUser()
	admin.Role = models.RoleAdmin
	adminToken, err := GenerateToken(testSecret, admin)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	router := newAuthTestRouter(testSecret)
	token, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/optional", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"signed_in":false`)

	req, _ = http.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"signed_in":true`)
}
