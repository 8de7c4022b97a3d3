package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestPagination_Parse(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    Page
		wantErr bool
	}{
		{name: "по умолчанию", target: "/api/quizzes", want: Page{Number: 1, Size: 10}},
		{name: "свой размер", target: "/api/quizzes?page=2&quizzes=12", want: Page{Number: 2, Size: 12}},
		{name: "размер обрезается до максимума", target: "/api/quizzes?quizzes=100", want: Page{Number: 1, Size: 15}},
		{name: "кривой размер игнорируется", target: "/api/quizzes?quizzes=abc", want: Page{Number: 1, Size: 10}},
		{name: "кривой номер страницы", target: "/api/quizzes?page=x", wantErr: true},
		{name: "нулевая страница", target: "/api/quizzes?page=0", wantErr: true},
		{name: "последняя страница не поддерживается", target: "/api/quizzes?page=last", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := QuizzesPagination.Parse(testContext(tt.target))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page)
		})
	}
}

func TestPaginate_Links(t *testing.T) {
	c := testContext("http://example.com/api/leaderboard?page=2&participants=2&tags=easy")
	page := Page{Number: 2, Size: 2}

	env, err := Paginate(c, page, 5, []int{3, 4})
	require.NoError(t, err)

	assert.Equal(t, int64(5), env.Count)
	require.NotNil(t, env.Next)
	require.NotNil(t, env.Previous)
	assert.Equal(t, "http://example.com/api/leaderboard?page=3&participants=2&tags=easy", *env.Next)
	assert.Equal(t, "http://example.com/api/leaderboard?participants=2&tags=easy", *env.Previous, "Ссылка на первую страницу без page")
	assert.Equal(t, 2, page.Offset())
}

func TestPaginate_OutOfRange(t *testing.T) {
	c := testContext("/api/quizzes?page=3")

	_, err := Paginate(c, Page{Number: 3, Size: 10}, 15, nil)
	assert.ErrorIs(t, err, ErrInvalidPage)

	env, err := Paginate(c, Page{Number: 1, Size: 10}, 0, []int{})
	require.NoError(t, err, "Первая страница пустой выдачи допустима")
	assert.Nil(t, env.Next)
	assert.Nil(t, env.Previous)
}
