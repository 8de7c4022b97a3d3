package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// lowerNames нормализует список имён для сравнения без учёта регистра
func lowerNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, strings.ToLower(n))
		}
	}
	return out
}

// nameTaken проверяет занятость имени без учёта регистра
func nameTaken(ctx context.Context, db *gorm.DB, model interface{}, name string, excludeID uint) (bool, error) {
	var count int64
	q := db.WithContext(ctx).Model(model).Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CategoryRepo реализует repository.CategoryRepository
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo создает новый репозиторий категорий
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	return mapError(r.db.WithContext(ctx).Create(category).Error, "category")
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, mapError(err, "category")
	}
	return &category, nil
}

func (r *CategoryRepo) GetByNames(ctx context.Context, names []string) ([]entity.Category, error) {
	var categories []entity.Category
	lowered := lowerNames(names)
	if len(lowered) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).Where("LOWER(name) IN ?", lowered).Order("id").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepo) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	return nameTaken(ctx, r.db, &entity.Category{}, name, excludeID)
}

func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).Model(&entity.Category{}).Where("id = ?", category.ID).Update("name", category.Name)
	return affectedOrNotFound(result, "category")
}

func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	return affectedOrNotFound(r.db.WithContext(ctx).Delete(&entity.Category{}, id), "category")
}

func (r *CategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

// TagRepo реализует repository.TagRepository
type TagRepo struct {
	db *gorm.DB
}

// NewTagRepo создает новый репозиторий меток
func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db: db}
}

func (r *TagRepo) Create(ctx context.Context, tag *entity.Tag) error {
	return mapError(r.db.WithContext(ctx).Create(tag).Error, "tag")
}

func (r *TagRepo) GetByID(ctx context.Context, id uint) (*entity.Tag, error) {
	var tag entity.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, mapError(err, "tag")
	}
	return &tag, nil
}

func (r *TagRepo) GetByNames(ctx context.Context, names []string) ([]entity.Tag, error) {
	var tags []entity.Tag
	lowered := lowerNames(names)
	if len(lowered) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).Where("LOWER(name) IN ?", lowered).Order("id").Find(&tags).Error
	return tags, err
}

func (r *TagRepo) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	return nameTaken(ctx, r.db, &entity.Tag{}, name, excludeID)
}

func (r *TagRepo) Update(ctx context.Context, tag *entity.Tag) error {
	result := r.db.WithContext(ctx).Model(&entity.Tag{}).Where("id = ?", tag.ID).Update("name", tag.Name)
	return affectedOrNotFound(result, "tag")
}

func (r *TagRepo) Delete(ctx context.Context, id uint) error {
	return affectedOrNotFound(r.db.WithContext(ctx).Delete(&entity.Tag{}, id), "tag")
}

func (r *TagRepo) List(ctx context.Context) ([]entity.Tag, error) {
	var tags []entity.Tag
	err := r.db.WithContext(ctx).Order("id").Find(&tags).Error
	return tags, err
}
