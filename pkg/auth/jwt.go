package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/logger"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const issuer = "quiz-api"

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет HS256 токены доступа
type JWTService struct {
	secret        []byte
	expirationHrs int
	// Кеш времени инвалидации по пользователям, источник истины - invalidTokenRepo
	invalidatedUsers map[uint]time.Time
	mu               sync.RWMutex
	invalidTokenRepo repository.InvalidTokenRepository
	now              func() time.Time
}

// NewJWTService создает новый сервис JWT
func NewJWTService(secret string, expirationHrs int, invalidTokenRepo repository.InvalidTokenRepository) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if invalidTokenRepo == nil {
		return nil, errors.New("InvalidTokenRepository is required for JWTService")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &JWTService{
		secret:           []byte(secret),
		expirationHrs:    expirationHrs,
		invalidatedUsers: make(map[uint]time.Time),
		invalidTokenRepo: invalidTokenRepo,
		now:              time.Now,
	}, nil
}

// GenerateToken создает токен доступа для пользователя
func (s *JWTService) GenerateToken(user *entity.User) (string, error) {
	now := s.now()
	claims := &JWTCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour * time.Duration(s.expirationHrs))),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		logger.Get().Named("JWT").Error("token signing failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return "", err
	}
	return token, nil
}

// ParseToken проверяет подпись и срок токена, затем убеждается, что токен не был отозван
func (s *JWTService) ParseToken(ctx context.Context, tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if !token.Valid || claims.IssuedAt == nil {
		return nil, apperrors.ErrUnauthorized
	}

	invalid, err := s.isInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
	if err != nil {
		return nil, err
	}
	if invalid {
		return nil, fmt.Errorf("%w: token has been revoked", apperrors.ErrUnauthorized)
	}
	return claims, nil
}

// InvalidateTokensForUser отзывает все токены пользователя, выпущенные до текущего момента.
// IssuedAt хранится с точностью до секунды, поэтому отсечка округляется вверх.
func (s *JWTService) InvalidateTokensForUser(ctx context.Context, userID uint) error {
	cutoff := s.now().Truncate(time.Second).Add(time.Second)
	if err := s.invalidTokenRepo.AddInvalidToken(ctx, userID, cutoff); err != nil {
		return fmt.Errorf("invalidate tokens for user %d: %w", userID, err)
	}

	s.mu.Lock()
	s.invalidatedUsers[userID] = cutoff
	s.mu.Unlock()

	logger.Get().Named("JWT").Info("tokens invalidated", zap.Uint("user_id", userID), zap.Time("cutoff", cutoff))
	return nil
}

func (s *JWTService) isInvalidated(ctx context.Context, userID uint, issuedAt time.Time) (bool, error) {
	s.mu.RLock()
	cutoff, cached := s.invalidatedUsers[userID]
	s.mu.RUnlock()
	if cached && issuedAt.Before(cutoff) {
		return true, nil
	}

	invalid, err := s.invalidTokenRepo.IsTokenInvalid(ctx, userID, issuedAt)
	if err != nil {
		logger.Get().Named("JWT").Error("invalid token lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		return false, err
	}
	return invalid, nil
}
