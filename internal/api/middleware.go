package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"workout-tracker/internal/config"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
)

// Identity headers.
const (
	trustedUserIDHeader = "x-user-id"
	adminKeyHeader      = "x-admin-key"
)

// jwtClaims defines the structure we expect in the JWT payload. The caller
// id lives in "uid" with "sub" as fallback, matching tokens minted by the
// identity provider.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (c *jwtClaims) callerID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// AuthMiddleware selects the identity resolution strategy for the
// deployment. The two strategies are mutually exclusive; config validation
// rejects anything but one of the known modes.
func AuthMiddleware(cfg config.AuthConfig) gin.HandlerFunc {
	if cfg.Mode == config.AuthModeHeader {
		return headerAuthMiddleware()
	}
	return tokenAuthMiddleware(cfg.JWTSecret)
}

// tokenAuthMiddleware verifies an HS256 bearer token and stores the caller
// id in the request context.
func tokenAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		if !token.Valid || claims.callerID() == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, claims.callerID())
		c.Next()
	}
}

// headerAuthMiddleware trusts the x-user-id header as-is. Not a security
// boundary; for development and test deployments only.
func headerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(trustedUserIDHeader))
		if userID == "" {
			abortWithError(c, http.StatusUnauthorized, "Missing x-user-id header")
			return
		}
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// AdminKeyMiddleware gates the reseed endpoint. Seeding must be enabled,
// and when a key hash is configured the x-admin-key header must match it.
func AdminKeyMiddleware(cfg config.SeedConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, http.StatusForbidden, "Seeding disabled")
			return
		}
		if cfg.AdminKeyHash != "" {
			key := c.GetHeader(adminKeyHeader)
			if bcrypt.CompareHashAndPassword([]byte(cfg.AdminKeyHash), []byte(key)) != nil {
				abortWithError(c, http.StatusForbidden, "Forbidden")
				return
			}
		}
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok || idStr == "" {
		return "", errors.New("invalid user ID in context")
	}
	return idStr, nil
}
