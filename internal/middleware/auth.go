package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telemedly/telemed-api/internal/handler"
	"github.com/telemedly/telemed-api/pkg/auth"
)

const (
	// ContextUserID and ContextRole are set by Authenticate.
	ContextUserID = "userID"
	ContextRole   = "role"

	// CookieToken is the session cookie set at login, checked when no
	// Authorization header is present.
	CookieToken = "token"
)

type AuthMiddleware struct {
	jwtService auth.JWTService
}

func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate verifies the JWT token and sets user identity in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				handler.Fail(c, http.StatusUnauthorized, "invalid authorization format")
				c.Abort()
				return
			}
			token = parts[1]
		} else if cookie, err := c.Cookie(CookieToken); err == nil {
			token = cookie
		}

		if token == "" {
			handler.Fail(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			handler.Fail(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user id set by Authenticate.
func UserIDFromContext(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

// RequireRole gates a route group to a single role.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			handler.Fail(c, http.StatusForbidden,
				"Access denied. Only "+role+"s can access this route.")
			c.Abort()
			return
		}
		c.Next()
	}
}
