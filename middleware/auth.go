package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/susvada/storefront-api/models"
)

// TokenExpiry is how long issued session tokens remain valid
const TokenExpiry = 7 * 24 * time.Hour

const claimsContextKey = "auth_claims"

// Claims is the session payload carried in bearer tokens
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed session token for a user
func GenerateToken(secret string, user *models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a bearer token and returns its claims
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func claimsFromHeader(c *gin.Context, secret string) *Claims {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil
	}
	claims, err := ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return nil
	}
	return claims
}

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFromHeader(c, secret)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing or invalid authentication token",
				},
			})
			c.Abort()
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := CurrentUser(c)
		if err != nil || claims.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Admin access required",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present but never
// rejects the request
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := claimsFromHeader(c, secret); claims != nil {
			c.Set(claimsContextKey, claims)
		}
		c.Next()
	}
}

// CurrentUser extracts the session claims from the Gin context
func CurrentUser(c *gin.Context) (*Claims, error) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "No session in context"}
	}
	claims, ok := value.(*Claims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Session claims are not in the expected format"}
	}
	return claims, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
