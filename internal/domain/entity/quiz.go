package entity

import (
	"time"
)

// Category - категория викторин
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// TableName определяет имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// Tag - метка викторины
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// TableName определяет имя таблицы для GORM
func (Tag) TableName() string {
	return "tags"
}

// Quiz представляет викторину
type Quiz struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	// TimeLimit в минутах
	TimeLimit              int        `gorm:"not null" json:"time_limit"`
	PassingMarksPercentage int        `gorm:"not null;default:0" json:"passing_marks_percentage"`
	CreatedByID            uint       `gorm:"not null;index" json:"created_by"`
	CreatedBy              *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	Categories             []Category `gorm:"many2many:quiz_categories;" json:"-"`
	Tags                   []Tag      `gorm:"many2many:quiz_tags;" json:"-"`
	Questions              []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// Duration возвращает отведённое на прохождение время
func (q *Quiz) Duration() time.Duration {
	return time.Duration(q.TimeLimit) * time.Minute
}

// TotalPoints возвращает сумму баллов всех вопросов. Questions должны быть загружены.
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// HasPassingThreshold сообщает, настроен ли проходной порог
func (q *Quiz) HasPassingThreshold() bool {
	return q.PassingMarksPercentage > 0
}

// IsPassingScore проверяет, достигает ли результат проходного порога.
// Сравнение нестрогое: score >= total * pct / 100. Без порога викторину не проходит никто.
func (q *Quiz) IsPassingScore(score, totalPoints int) bool {
	if !q.HasPassingThreshold() {
		return false
	}
	passingMarks := float64(totalPoints) * (float64(q.PassingMarksPercentage) / 100)
	return float64(score) >= passingMarks
}

// CategoryNames возвращает имена категорий
func (q *Quiz) CategoryNames() []string {
	names := make([]string, 0, len(q.Categories))
	for _, c := range q.Categories {
		names = append(names, c.Name)
	}
	return names
}

// TagNames возвращает имена меток
func (q *Quiz) TagNames() []string {
	names := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		names = append(names, t.Name)
	}
	return names
}
