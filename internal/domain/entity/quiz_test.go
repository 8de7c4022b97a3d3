package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func twoPointQuiz(pct int) *Quiz {
	return &Quiz{
		TimeLimit:              10,
		PassingMarksPercentage: pct,
		Questions: []Question{
			{ID: 1, Points: 1},
			{ID: 2, Points: 1},
		},
	}
}

func TestQuiz_TotalPoints(t *testing.T) {
	quiz := &Quiz{Questions: []Question{{Points: 1}, {Points: 3}, {Points: 5}}}
	assert.Equal(t, 9, quiz.TotalPoints(), "Сумма баллов должна складываться из всех вопросов")
	assert.Equal(t, 0, (&Quiz{}).TotalPoints(), "Викторина без вопросов даёт 0 баллов")
}

func TestQuiz_Duration(t *testing.T) {
	assert.Equal(t, 10*time.Minute, twoPointQuiz(50).Duration())
}

func TestQuiz_IsPassingScore(t *testing.T) {
	tests := []struct {
		name  string
		pct   int
		score int
		want  bool
	}{
		{name: "все ответы верны", pct: 50, score: 2, want: true},
		{name: "ровно на пороге", pct: 50, score: 1, want: true},
		{name: "ниже порога", pct: 50, score: 0, want: false},
		{name: "без порога никто не проходит", pct: 0, score: 2, want: false},
		{name: "порог 100 процентов", pct: 100, score: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := twoPointQuiz(tt.pct)
			assert.Equal(t, tt.want, quiz.IsPassingScore(tt.score, quiz.TotalPoints()))
		})
	}
}

func TestQuiz_IsPassingScore_FractionalThreshold(t *testing.T) {
	// 3 балла * 50% = 1.5, значит нужно 2
	quiz := &Quiz{PassingMarksPercentage: 50}
	assert.False(t, quiz.IsPassingScore(1, 3))
	assert.True(t, quiz.IsPassingScore(2, 3))
}

func TestQuiz_Names(t *testing.T) {
	quiz := &Quiz{
		Categories: []Category{{Name: "Science"}, {Name: "History"}},
		Tags:       []Tag{{Name: "easy"}},
	}
	assert.Equal(t, []string{"Science", "History"}, quiz.CategoryNames())
	assert.Equal(t, []string{"easy"}, quiz.TagNames())
	assert.Empty(t, (&Quiz{}).TagNames())
}

func TestQuestion_IsCorrectAnswer(t *testing.T) {
	// Arrange
	question := &Question{
		ID: 1,
		Answers: []Answer{
			{ID: 10, QuestionID: 1, IsCorrect: false},
			{ID: 11, QuestionID: 1, IsCorrect: true},
		},
	}

	// Act & Assert
	assert.True(t, question.IsCorrectAnswer(11), "Правильный ответ должен засчитываться")
	assert.False(t, question.IsCorrectAnswer(10), "Неправильный ответ не засчитывается")
	assert.False(t, question.IsCorrectAnswer(99), "Ответ другого вопроса не засчитывается")
}

func TestIsValidQuestionType(t *testing.T) {
	for _, typ := range []string{"MC", "TF", "OE"} {
		assert.True(t, IsValidQuestionType(typ), typ)
	}
	assert.False(t, IsValidQuestionType("XX"))
	assert.False(t, IsValidQuestionType(""))
}

func TestParticipant_AcceptsSubmissionAt(t *testing.T) {
	end := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &Participant{EndTime: end}
	tolerance := 30 * time.Second

	assert.True(t, p.AcceptsSubmissionAt(end.Add(29*time.Second), tolerance), "+29s принимается")
	assert.True(t, p.AcceptsSubmissionAt(end.Add(30*time.Second), tolerance), "Ровно +30s принимается")
	assert.False(t, p.AcceptsSubmissionAt(end.Add(30*time.Second+time.Millisecond), tolerance), "+30s+1ms отклоняется")
	assert.False(t, p.AcceptsSubmissionAt(end.Add(31*time.Second), tolerance), "+31s отклоняется")
}

func TestParticipant_IsSubmitted(t *testing.T) {
	score := 0
	assert.False(t, (&Participant{}).IsSubmitted())
	assert.True(t, (&Participant{Score: &score}).IsSubmitted(), "Нулевой результат тоже результат")
}

func TestIsValidRating(t *testing.T) {
	assert.False(t, IsValidRating(0))
	assert.True(t, IsValidRating(1))
	assert.True(t, IsValidRating(5))
	assert.False(t, IsValidRating(6))
}

func TestInvalidToken_Rejects(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	it := &InvalidToken{UserID: 1, InvalidatedAt: at}
	assert.True(t, it.Rejects(at.Add(-time.Second)))
	assert.False(t, it.Rejects(at.Add(time.Second)))
}
