package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/handler/helper"
	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/permission"
	"github.com/yourusername/quiz-api/internal/service"
)

// AccountHandler обрабатывает запросы учётных записей
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler создает новый обработчик учётных записей
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Register регистрирует нового пользователя
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login выдаёт токен доступа
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.accountService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Logout отзывает все токены вызывающего пользователя
func (h *AccountHandler) Logout(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if err := h.accountService.Logout(c.Request.Context(), principal.UserID); err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Logged out successfully."})
}

// Verify возвращает сведения о владельце токена
func (h *AccountHandler) Verify(c *gin.Context) {
	user, err := h.accountService.GetUser(c.Request.Context(), middleware.PrincipalFrom(c).UserID)
	if err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewVerifyResponse(user))
}

// ForgotPassword отправляет ссылку для сброса пароля
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accountService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": service.MsgResetLinkSent})
}

// ResetPassword меняет пароль по токену из ссылки
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accountService.ResetPassword(c.Request.Context(), c.Param("token"), req); err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}

// ListUsers возвращает страницу пользователей (только персонал)
func (h *AccountHandler) ListUsers(c *gin.Context) {
	page, err := helper.UsersPagination.Parse(c)
	if err != nil {
		respondError(c, "AccountHandler", err)
		return
	}

	users, total, err := h.accountService.ListUsers(c.Request.Context(), page.Limit(), page.Offset())
	if err != nil {
		respondError(c, "AccountHandler", err)
		return
	}

	env, err := helper.Paginate(c, page, total, dto.NewUserListResponse(users))
	if err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// GetUser возвращает пользователя по ID
func (h *AccountHandler) GetUser(c *gin.Context) {
	userID, ok := h.authorizeUser(c)
	if !ok {
		return
	}

	user, err := h.accountService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateUser обновляет профиль пользователя
func (h *AccountHandler) UpdateUser(c *gin.Context) {
	userID, ok := h.authorizeUser(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accountService.UpdateUser(c.Request.Context(), userID, req, middleware.PrincipalFrom(c).IsStaff)
	if err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DeleteUser удаляет пользователя
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	userID, ok := h.authorizeUser(c)
	if !ok {
		return
	}

	username, err := h.accountService.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "AccountHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User with name %s has been deleted.", username)})
}

// authorizeUser достаёт ID из URL и проверяет, что вызывающий - персонал или сам пользователь
func (h *AccountHandler) authorizeUser(c *gin.Context) (uint, bool) {
	userID := c.GetUint("userID")
	principal := middleware.PrincipalFrom(c)
	if !(permission.StaffOrSelf{}).HasObjectPermission(c.Request.Method, principal, userID) {
		middleware.Deny(c, principal)
		return 0, false
	}
	return userID, true
}
