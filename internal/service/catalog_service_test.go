package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

func TestCatalogService_CreateCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		taken   bool
		wantMsg string
	}{
		{name: "новая категория", input: " Science "},
		{name: "имя занято", input: "science", taken: true, wantMsg: MsgCategoryExists},
		{name: "пустое имя", input: "  ", wantMsg: MsgFieldBlank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			categoryRepo := new(MockCategoryRepository)
			svc := NewCatalogService(categoryRepo, new(MockTagRepository))
			categoryRepo.On("NameTaken", mock.Anything, mock.Anything, uint(0)).Return(tt.taken, nil)
			categoryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

			// Act
			category, err := svc.CreateCategory(context.Background(), tt.input)

			// Assert
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, "Science", category.Name, "Имя должно обрезаться по краям")
				return
			}
			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsg, verr.Message("name"))
			categoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogService_UpdateCategory_KeepsOwnName(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	svc := NewCatalogService(categoryRepo, new(MockTagRepository))
	categoryRepo.On("GetByID", mock.Anything, uint(4)).Return(&entity.Category{ID: 4, Name: "Science"}, nil)
	categoryRepo.On("NameTaken", mock.Anything, "SCIENCE", uint(4)).Return(false, nil)
	categoryRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	category, err := svc.UpdateCategory(context.Background(), 4, "SCIENCE")

	require.NoError(t, err, "Смена регистра собственного имени допустима")
	assert.Equal(t, "SCIENCE", category.Name)
}

func TestCatalogService_UpdateCategory_NotFound(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	svc := NewCatalogService(categoryRepo, new(MockTagRepository))
	categoryRepo.On("GetByID", mock.Anything, uint(9)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.UpdateCategory(context.Background(), 9, "x")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_CreateTag_Taken(t *testing.T) {
	tagRepo := new(MockTagRepository)
	svc := NewCatalogService(new(MockCategoryRepository), tagRepo)
	tagRepo.On("NameTaken", mock.Anything, "easy", uint(0)).Return(true, nil)

	_, err := svc.CreateTag(context.Background(), "easy")

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgTagExists, verr.Message("name"))
}

func TestCatalogService_DeleteTag_InvalidatesLeaderboard(t *testing.T) {
	tagRepo := new(MockTagRepository)
	leaderboard := new(MockLeaderboardInvalidator)
	svc := NewCatalogService(new(MockCategoryRepository), tagRepo).WithLeaderboard(leaderboard)
	tagRepo.On("Delete", mock.Anything, uint(4)).Return(nil)
	leaderboard.On("Invalidate").Return(nil).Once()

	require.NoError(t, svc.DeleteTag(context.Background(), 4))
	leaderboard.AssertExpectations(t)
}
