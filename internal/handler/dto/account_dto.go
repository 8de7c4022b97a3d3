package dto

import (
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// RegisterRequest - запрос на регистрацию
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse - выданный токен доступа
type TokenResponse struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest - запрос ссылки для сброса пароля
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest - новый пароль по токену сброса
type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// UpdateUserRequest - частичное обновление пользователя. IsStaff и IsActive меняет только персонал.
type UpdateUserRequest struct {
	Username  *string `json:"username" binding:"omitempty,max=150"`
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	IsStaff   *bool   `json:"is_staff"`
	IsActive  *bool   `json:"is_active"`
}

// UserResponse - пользователь в ответах API
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsStaff    bool      `json:"is_staff"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

// NewUserResponse создает DTO пользователя
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsStaff:    u.IsStaff,
		IsActive:   u.IsActive,
		DateJoined: u.CreatedAt,
	}
}

// NewUserListResponse создает список DTO пользователей
func NewUserListResponse(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// VerifiedUser - сведения о владельце токена
type VerifiedUser struct {
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// VerifyResponse - ответ на проверку токена
type VerifyResponse struct {
	User VerifiedUser `json:"user"`
}

// NewVerifyResponse создает ответ проверки токена
func NewVerifyResponse(u *entity.User) VerifyResponse {
	return VerifyResponse{User: VerifiedUser{
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}}
}
