package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// newTestDB открывает временную SQLite базу со схемой приложения
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quiz.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.InvalidToken{},
		&entity.Category{},
		&entity.Tag{},
		&entity.Quiz{},
		&entity.Question{},
		&entity.Answer{},
		&entity.Participant{},
		&entity.Feedback{},
	))
	return db
}

type fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func newFixtures(t *testing.T, db *gorm.DB) *fixtures {
	return &fixtures{t: t, db: db}
}

func (f *fixtures) user(username string) *entity.User {
	f.t.Helper()
	u := &entity.User{Username: username, Email: username + "@example.com", Password: "secret", FirstName: username, LastName: "Test"}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *fixtures) category(name string) entity.Category {
	f.t.Helper()
	c := entity.Category{Name: name}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

func (f *fixtures) tag(name string) entity.Tag {
	f.t.Helper()
	tg := entity.Tag{Name: name}
	require.NoError(f.t, f.db.Create(&tg).Error)
	return tg
}

// quiz создает викторину с двумя вопросами по 1 баллу, у каждого один правильный ответ
func (f *fixtures) quiz(owner *entity.User, title string, categories []entity.Category, tags []entity.Tag) *entity.Quiz {
	f.t.Helper()
	q := &entity.Quiz{
		Title:                  title,
		Description:            title + " description",
		TimeLimit:              10,
		PassingMarksPercentage: 50,
		CreatedByID:            owner.ID,
		Categories:             categories,
		Tags:                   tags,
		Questions: []entity.Question{
			{Text: "2+2?", Type: entity.QuestionTypeMultipleChoice, Points: 1, Answers: []entity.Answer{
				{Text: "4", IsCorrect: true}, {Text: "5"},
			}},
			{Text: "Sky is blue?", Type: entity.QuestionTypeTrueFalse, Points: 1, Answers: []entity.Answer{
				{Text: "True", IsCorrect: true}, {Text: "False"},
			}},
		},
	}
	require.NoError(f.t, NewQuizRepo(f.db).Create(context.Background(), q))
	return q
}

// attempt создает отправленную попытку с указанным результатом
func (f *fixtures) attempt(user *entity.User, quiz *entity.Quiz, score int, passed bool, end time.Time) *entity.Participant {
	f.t.Helper()
	p := &entity.Participant{
		UserID:    user.ID,
		QuizID:    quiz.ID,
		StartTime: end.Add(-quiz.Duration()),
		EndTime:   end,
		Score:     &score,
		HasPassed: passed,
	}
	require.NoError(f.t, f.db.Create(p).Error)
	return p
}
