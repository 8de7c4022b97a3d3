package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/permission"
)

// Тексты ответов при отказе в доступе
const (
	DetailNotAuthenticated = "Authentication credentials were not provided."
	DetailForbidden        = "You do not have permission to perform this action."
)

// Require проверяет правило доступа на уровне метода.
// Аноним получает 401, аутентифицированный пользователь без прав - 403.
func Require(p permission.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if p.HasPermission(c.Request.Method, principal) {
			c.Next()
			return
		}
		Deny(c, principal)
	}
}

// Deny прерывает запрос с 401 или 403 в зависимости от того, кто вызывает
func Deny(c *gin.Context, principal permission.Principal) {
	if !principal.Authenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": DetailNotAuthenticated})
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": DetailForbidden})
}
