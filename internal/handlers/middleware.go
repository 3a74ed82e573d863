package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"cultivation-service/internal/services"
	"cultivation-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

// Claims are issued by the auth service. Older tokens carry the user only in "sub".
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(jwtSecret)}
}

func (m *AuthMiddleware) VerifyToken(tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, errors.New("JWT secret is not configured")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user id in the gin context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.CreateErrorResponse("MISSING_TOKEN", "authorization header required"))
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := m.VerifyToken(tokenString)
		if err != nil {
			slog.Warn("Token validation failed", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				utils.CreateErrorResponse("INVALID_TOKEN", "token validation failed"))
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func UserIDFrom(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// maxImageBodyBytes fits a base64 data URL of services.MaxImageBytes plus the
// other JSON fields of an upload or vision request.
var maxImageBodyBytes = int64(base64.StdEncoding.EncodedLen(services.MaxImageBytes)) + 64<<10

const maxJSONBodyBytes = 1 << 20

// BodySizeLimit answers 413 when the declared length exceeds limit and caps
// reading for bodies without one.
func BodySizeLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				utils.CreateErrorResponse("PAYLOAD_TOO_LARGE", fmt.Sprintf("request body exceeds %d bytes", limit)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
