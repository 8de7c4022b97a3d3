package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/logger"
	"github.com/yourusername/quiz-api/internal/permission"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/pkg/auth"
)

// Ключи контекста Gin, которые выставляет AuthMiddleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextIsStaff  = "is_staff"
)

// TokenParser проверяет токен доступа
type TokenParser interface {
	ParseToken(ctx context.Context, tokenString string) (*auth.JWTCustomClaims, error)
}

// AuthMiddleware обеспечивает аутентификацию по заголовку Authorization
type AuthMiddleware struct {
	tokens TokenParser
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// OptionalAuth заполняет контекст, если передан валидный токен, и пропускает анонимов.
// Невалидный токен отклоняется, как и в RequireAuth.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if m.authenticate(c) {
			c.Next()
		}
	}
}

// RequireAuth проверяет, аутентифицирован ли пользователь
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		if m.authenticate(c) {
			c.Next()
		}
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authorization header format must be Bearer {token}"})
		return false
	}

	claims, err := m.tokens.ParseToken(c.Request.Context(), token)
	if err != nil {
		detail := "Invalid token."
		if errors.Is(err, apperrors.ErrExpiredToken) {
			detail = "Token has expired."
		} else if !errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Get().Named("AuthMiddleware").Error("token check failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextIsStaff, claims.IsStaff)
	return true
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
		return "", false
	}
	return parts[1], true
}

// PrincipalFrom возвращает вызывающего пользователя из контекста. Для анонима - нулевой Principal.
func PrincipalFrom(c *gin.Context) permission.Principal {
	return permission.Principal{
		UserID:  c.GetUint(ContextUserID),
		IsStaff: c.GetBool(ContextIsStaff),
	}
}
