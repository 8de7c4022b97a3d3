package dto

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// NameRequest - тело запроса для категорий и меток
type NameRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// AnswerInput - вариант ответа при создании и обновлении
type AnswerInput struct {
	Text      string `json:"text" binding:"required,max=255"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionInput - вопрос с вложенными ответами
type QuestionInput struct {
	Text    string        `json:"text" binding:"required"`
	Type    string        `json:"type" binding:"required"`
	Points  *int          `json:"points"`
	Answers []AnswerInput `json:"answers" binding:"dive"`
}

// QuizInput - викторина с вложенными вопросами. Questions учитываются только при создании.
type QuizInput struct {
	Title                  string          `json:"title" binding:"required,max=255"`
	Description            string          `json:"description"`
	TimeLimit              *int            `json:"time_limit"`
	PassingMarksPercentage *int            `json:"passing_marks_percentage"`
	Tags                   []string        `json:"tags"`
	Categories             []string        `json:"categories"`
	Questions              []QuestionInput `json:"questions" binding:"dive"`
}

// QuizResponse - викторина в ответах API
type QuizResponse struct {
	ID                     uint     `json:"id"`
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	TimeLimit              int      `json:"time_limit"`
	PassingMarksPercentage int      `json:"passing_marks_percentage"`
	Tags                   []string `json:"tags"`
	Categories             []string `json:"categories"`
	CreatedBy              uint     `json:"created_by"`
	QuestionsLink          string   `json:"questions_link"`
}

// NewQuizResponse создает DTO викторины. questionsLink - абсолютная ссылка на список вопросов.
func NewQuizResponse(q *entity.Quiz, questionsLink string) QuizResponse {
	return QuizResponse{
		ID:                     q.ID,
		Title:                  q.Title,
		Description:            q.Description,
		TimeLimit:              q.TimeLimit,
		PassingMarksPercentage: q.PassingMarksPercentage,
		Tags:                   q.TagNames(),
		Categories:             q.CategoryNames(),
		CreatedBy:              q.CreatedByID,
		QuestionsLink:          questionsLink,
	}
}

// AnswerResponse - вариант ответа. IsCorrect отдаётся только персоналу.
type AnswerResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

// NewAnswerResponse создает DTO ответа
func NewAnswerResponse(a *entity.Answer, showCorrect bool) AnswerResponse {
	resp := AnswerResponse{ID: a.ID, Text: a.Text}
	if showCorrect {
		correct := a.IsCorrect
		resp.IsCorrect = &correct
	}
	return resp
}

// NewAnswerListResponse создает список DTO ответов
func NewAnswerListResponse(answers []entity.Answer, showCorrect bool) []AnswerResponse {
	out := make([]AnswerResponse, 0, len(answers))
	for i := range answers {
		out = append(out, NewAnswerResponse(&answers[i], showCorrect))
	}
	return out
}

// QuestionResponse - вопрос с ответами
type QuestionResponse struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Type    string           `json:"type"`
	Points  int              `json:"points"`
	Answers []AnswerResponse `json:"answers"`
}

// NewQuestionResponse создает DTO вопроса
func NewQuestionResponse(q *entity.Question, showCorrect bool) QuestionResponse {
	return QuestionResponse{
		ID:      q.ID,
		Text:    q.Text,
		Type:    q.Type,
		Points:  q.Points,
		Answers: NewAnswerListResponse(q.Answers, showCorrect),
	}
}

// NewQuestionListResponse создает список DTO вопросов
func NewQuestionListResponse(questions []entity.Question, showCorrect bool) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, NewQuestionResponse(&questions[i], showCorrect))
	}
	return out
}
