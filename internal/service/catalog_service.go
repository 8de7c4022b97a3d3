package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const (
	MsgCategoryExists = "Category with this name is already exist"
	MsgTagExists      = "Tag with this name is already exist"
)

// CatalogService управляет категориями и метками
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	leaderboard  LeaderboardInvalidator
}

// NewCatalogService создает новый сервис каталога
func NewCatalogService(categoryRepo repository.CategoryRepository, tagRepo repository.TagRepository) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo, tagRepo: tagRepo}
}

// WithLeaderboard включает сброс кеша лидеров: фильтры таблицы опираются на имена категорий и меток
func (s *CatalogService) WithLeaderboard(inv LeaderboardInvalidator) *CatalogService {
	s.leaderboard = inv
	return s
}

// ListCategories возвращает все категории
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetCategory возвращает категорию по ID
func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*entity.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// CreateCategory создает категорию с уникальным (без учёта регистра) именем
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if err := s.checkName(ctx, s.categoryRepo.NameTaken, name, 0, MsgCategoryExists); err != nil {
		return nil, err
	}
	category := &entity.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// UpdateCategory переименовывает категорию
func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, name string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := s.checkName(ctx, s.categoryRepo.NameTaken, name, id, MsgCategoryExists); err != nil {
		return nil, err
	}
	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	invalidateLeaderboard(ctx, s.leaderboard, "CatalogService")
	return category, nil
}

// DeleteCategory удаляет категорию
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateLeaderboard(ctx, s.leaderboard, "CatalogService")
	return nil
}

// ListTags возвращает все метки
func (s *CatalogService) ListTags(ctx context.Context) ([]entity.Tag, error) {
	return s.tagRepo.List(ctx)
}

// GetTag возвращает метку по ID
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*entity.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

// CreateTag создает метку с уникальным (без учёта регистра) именем
func (s *CatalogService) CreateTag(ctx context.Context, name string) (*entity.Tag, error) {
	name = strings.TrimSpace(name)
	if err := s.checkName(ctx, s.tagRepo.NameTaken, name, 0, MsgTagExists); err != nil {
		return nil, err
	}
	tag := &entity.Tag{Name: name}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// UpdateTag переименовывает метку
func (s *CatalogService) UpdateTag(ctx context.Context, id uint, name string) (*entity.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := s.checkName(ctx, s.tagRepo.NameTaken, name, id, MsgTagExists); err != nil {
		return nil, err
	}
	tag.Name = name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}
	invalidateLeaderboard(ctx, s.leaderboard, "CatalogService")
	return tag, nil
}

// DeleteTag удаляет метку
func (s *CatalogService) DeleteTag(ctx context.Context, id uint) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateLeaderboard(ctx, s.leaderboard, "CatalogService")
	return nil
}

type nameTakenFunc func(ctx context.Context, name string, excludeID uint) (bool, error)

func (s *CatalogService) checkName(ctx context.Context, taken nameTakenFunc, name string, excludeID uint, msg string) error {
	if name == "" {
		return apperrors.NewValidationError("name", MsgFieldBlank)
	}
	exists, err := taken(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check name: %w", err)
	}
	if exists {
		return apperrors.NewValidationError("name", msg)
	}
	return nil
}
