package dto

import (
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// StartQuizRequest - запрос на начало попытки
type StartQuizRequest struct {
	QuizID uint `json:"quiz_id"`
}

// SubmitAnswer - выбранный ответ на вопрос
type SubmitAnswer struct {
	QuestionID     uint `json:"question_id"`
	SelectedAnswer uint `json:"selected_answer"`
}

// SubmitQuizRequest - отправка ответов. Отсутствующие поля отличаются от нулевых.
type SubmitQuizRequest struct {
	QuizID  *uint          `json:"quiz_id"`
	Answers []SubmitAnswer `json:"answers"`
}

// SubmitQuizData - принятые ответы и начисленный результат
type SubmitQuizData struct {
	QuizID  uint           `json:"quiz_id"`
	Answers []SubmitAnswer `json:"answers"`
	Score   int            `json:"score"`
}

// SubmitQuizResponse - ответ на отправку
type SubmitQuizResponse struct {
	Message string         `json:"message"`
	Data    SubmitQuizData `json:"data"`
}

// FeedbackRequest - отзыв о викторине
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" binding:"required"`
}

// FeedbackResponse - отзыв в ответах API
type FeedbackResponse struct {
	ID          uint   `json:"id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
	Participant string `json:"participant"`
}

// NewFeedbackResponse создает DTO отзыва. Participant.User должен быть загружен.
func NewFeedbackResponse(f *entity.Feedback) FeedbackResponse {
	resp := FeedbackResponse{ID: f.ID, Rating: f.Rating, Comment: f.Comment}
	if f.Participant != nil && f.Participant.User != nil {
		resp.Participant = f.Participant.User.Username
	}
	return resp
}

// NewFeedbackListResponse создает список DTO отзывов
func NewFeedbackListResponse(feedbacks []entity.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		out = append(out, NewFeedbackResponse(&feedbacks[i]))
	}
	return out
}

// LeaderboardEntry - строка таблицы лидеров
type LeaderboardEntry struct {
	QuizID    uint      `json:"quiz_id"`
	Quiz      string    `json:"quiz"`
	User      string    `json:"user"`
	Score     *int      `json:"score"`
	StartTime time.Time `json:"start_time"`
}

// NewLeaderboardEntry создает строку таблицы лидеров. User и Quiz должны быть загружены.
func NewLeaderboardEntry(p *entity.Participant) LeaderboardEntry {
	entry := LeaderboardEntry{QuizID: p.QuizID, StartTime: p.StartTime}
	if p.Quiz != nil {
		entry.Quiz = p.Quiz.Title
	}
	if p.User != nil {
		entry.User = p.User.Username
	}
	if p.Score != nil {
		score := *p.Score
		entry.Score = &score
	}
	return entry
}

// LeaderboardPage - страница таблицы лидеров вместе с общим числом строк
type LeaderboardPage struct {
	Entries []LeaderboardEntry `json:"entries"`
	Total   int64              `json:"total"`
}

// StatisticsRow - одна отправленная попытка пользователя
type StatisticsRow struct {
	QuizID         uint      `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	QuizTotalMarks int       `json:"quiz_total_marks"`
	Score          int       `json:"score"`
	Date           time.Time `json:"date"`
	HasPassed      bool      `json:"has_passed"`
}

// NewStatisticsRow создает строку статистики. Quiz.Questions должны быть загружены.
func NewStatisticsRow(p *entity.Participant) StatisticsRow {
	row := StatisticsRow{QuizID: p.QuizID, Date: p.StartTime, HasPassed: p.HasPassed}
	if p.Quiz != nil {
		row.QuizTitle = p.Quiz.Title
		row.QuizTotalMarks = p.Quiz.TotalPoints()
	}
	if p.Score != nil {
		row.Score = *p.Score
	}
	return row
}

// StatisticsResults - сводка и страница попыток пользователя
type StatisticsResults struct {
	PassRate    float64         `json:"pass_rate"`
	TotalPassed int64           `json:"total_passed"`
	TotalFailed int64           `json:"total_failed"`
	Data        []StatisticsRow `json:"data"`
}

// LeaderboardEvent рассылается подписчикам websocket после успешной отправки
type LeaderboardEvent struct {
	Type   string `json:"type"`
	QuizID uint   `json:"quiz_id"`
	User   string `json:"user"`
	Score  int    `json:"score"`
}
