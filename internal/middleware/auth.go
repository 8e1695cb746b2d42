package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SezginYurdakul/catering-api/internal/model"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

const ContextUsername = "username"

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(token string) (*model.TokenClaims, error)
}

type AuthMiddleware struct {
	tokens TokenValidator
}

func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer token and stores the subject in the
// context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			unauthorized(c, "invalid authorization format")
			return
		}

		claims, err := m.tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUsername, claims.Subject)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	_ = c.Error(apperrors.Unauthorized(message))
	c.Abort()
}
