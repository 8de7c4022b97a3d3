package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/logger"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const (
	// PasswordResetTTL - время жизни ссылки для сброса пароля
	PasswordResetTTL = 30 * time.Minute

	passwordResetKeyPrefix = "password_reset:"
	nonFieldErrors         = "non_field_errors"
)

// Сообщения, которые видит клиент
const (
	MsgInvalidCredentials = "Unable to log in with provided credentials."
	MsgResetLinkSent      = "Reset link is sent to your email"
	MsgPasswordsMismatch  = "Passwords do not match."
	MsgResetTokenInvalid  = "Invalid or expired token."
	MsgUnknownEmail       = "User with this email does not exist."
	MsgUsernameTaken      = "A user with that username already exists."
	MsgEmailTaken         = "user with this email already exists."
)

var resetEmailTemplate = template.Must(template.New("reset").Parse(
	`<p>Hello {{.Name}},</p><p>Use the link below to reset your password. It expires in 30 minutes.</p><p><a href="{{.Link}}">{{.Link}}</a></p>`))

// TokenIssuer выпускает и отзывает токены доступа
type TokenIssuer interface {
	GenerateToken(user *entity.User) (string, error)
	InvalidateTokensForUser(ctx context.Context, userID uint) error
}

// AccountService отвечает за регистрацию, вход и управление пользователями
type AccountService struct {
	userRepo    repository.UserRepository
	tokens      TokenIssuer
	cacheRepo   repository.CacheRepository
	email       EmailSender
	frontendURL string
	leaderboard LeaderboardInvalidator
}

// NewAccountService создает новый сервис учётных записей
func NewAccountService(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	cacheRepo repository.CacheRepository,
	email EmailSender,
	frontendURL string,
) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		tokens:      tokens,
		cacheRepo:   cacheRepo,
		email:       email,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// WithLeaderboard включает сброс кеша лидеров при переименовании и удалении пользователей
func (s *AccountService) WithLeaderboard(inv LeaderboardInvalidator) *AccountService {
	s.leaderboard = inv
	return s
}

// Register создает нового пользователя
func (s *AccountService) Register(ctx context.Context, req dto.RegisterRequest) (*entity.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)

	if err := s.checkUnique(ctx, req.Username, req.Email, 0); err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Get().Named("AccountService").Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// checkUnique проверяет занятость имени и email, excludeID - обновляемый пользователь
func (s *AccountService) checkUnique(ctx context.Context, username, email string, excludeID uint) error {
	verr := &apperrors.ValidationError{}

	if username != "" {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != excludeID:
			verr.Add("username", MsgUsernameTaken)
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			return fmt.Errorf("failed to check username existence: %w", err)
		}
	}
	if email != "" {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != excludeID:
			verr.Add("email", MsgEmailTaken)
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			return fmt.Errorf("failed to check email existence: %w", err)
		}
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}

// Login проверяет учётные данные и выдаёт токен
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	log := logger.Get().Named("AccountService")

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("failed to load user: %w", err)
		}
		log.Info("login for unknown user", zap.String("username", username))
		return "", apperrors.NewValidationError(nonFieldErrors, MsgInvalidCredentials)
	}
	if !user.IsActive || !user.CheckPassword(password) {
		log.Info("invalid credentials", zap.Uint("user_id", user.ID))
		return "", apperrors.NewValidationError(nonFieldErrors, MsgInvalidCredentials)
	}

	return s.tokens.GenerateToken(user)
}

// Logout отзывает все ранее выданные токены пользователя
func (s *AccountService) Logout(ctx context.Context, userID uint) error {
	return s.tokens.InvalidateTokensForUser(ctx, userID)
}

// GetUser возвращает пользователя по ID
func (s *AccountService) GetUser(ctx context.Context, userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ForgotPassword сохраняет токен сброса в Redis и отправляет ссылку на почту
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.Get().Named("AccountService")

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("email", MsgUnknownEmail)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	token := uuid.NewString()
	if err := s.cacheRepo.Set(ctx, passwordResetKeyPrefix+token, user.ID, PasswordResetTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	var body bytes.Buffer
	err = resetEmailTemplate.Execute(&body, struct{ Name, Link string }{
		Name: user.FullName(),
		Link: fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token),
	})
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	result := s.email.SendHTML(ctx, user.Email, "Password reset", body.String())
	if !result.Sent {
		log.Warn("reset email not sent", zap.Uint("user_id", user.ID), zap.String("reason", result.Message))
		return errors.New(result.Message)
	}
	return nil
}

// ResetPassword меняет пароль по одноразовому токену
func (s *AccountService) ResetPassword(ctx context.Context, token string, req dto.ResetPasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return apperrors.NewValidationError("confirm_password", MsgPasswordsMismatch)
	}

	key := passwordResetKeyPrefix + token
	raw, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("token", MsgResetTokenInvalid)
		}
		return fmt.Errorf("failed to read reset token: %w", err)
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return apperrors.NewValidationError("token", MsgResetTokenInvalid)
	}

	if err := s.userRepo.UpdatePassword(ctx, uint(userID), req.Password); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.cacheRepo.Delete(ctx, key); err != nil {
		logger.Get().Named("AccountService").Warn("failed to drop reset token", zap.Error(err))
	}
	return s.tokens.InvalidateTokensForUser(ctx, uint(userID))
}

// ListUsers возвращает страницу пользователей
func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateUser частично обновляет пользователя. Флаги прав меняет только персонал.
func (s *AccountService) UpdateUser(ctx context.Context, userID uint, req dto.UpdateUserRequest, actorIsStaff bool) (*entity.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	var username, email string
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
		updates["username"] = username
	}
	if req.Email != nil {
		email = normalizeEmail(*req.Email)
		updates["email"] = email
	}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.IsStaff != nil || req.IsActive != nil {
		if !actorIsStaff {
			return nil, fmt.Errorf("%w: only staff can change permissions", apperrors.ErrForbidden)
		}
		if req.IsStaff != nil {
			updates["is_staff"] = *req.IsStaff
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
	}

	if err := s.checkUnique(ctx, username, email, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if username != "" {
		invalidateLeaderboard(ctx, s.leaderboard, "AccountService")
	}
	return s.userRepo.GetByID(ctx, userID)
}

// DeleteUser удаляет пользователя и возвращает его имя для ответа
func (s *AccountService) DeleteUser(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return "", fmt.Errorf("failed to delete user: %w", err)
	}
	// Попытки пользователя удаляются каскадно
	invalidateLeaderboard(ctx, s.leaderboard, "AccountService")
	return user.Username, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
