package helper

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrInvalidPage возвращается для номера страницы вне диапазона
var ErrInvalidPage = errors.New("invalid page")

// Pagination описывает постраничную выдачу в стиле page-number:
// ?page=N и параметр размера страницы с верхней границей.
type Pagination struct {
	DefaultSize int
	SizeParam   string
	MaxSize     int
}

// Настройки выдачи по ресурсам
var (
	QuizzesPagination     = Pagination{DefaultSize: 10, SizeParam: "quizzes", MaxSize: 15}
	QuestionsPagination   = Pagination{DefaultSize: 10, SizeParam: "qs", MaxSize: 20}
	FeedbackPagination    = Pagination{DefaultSize: 7, SizeParam: "feedbacks", MaxSize: 15}
	LeaderboardPagination = Pagination{DefaultSize: 15, SizeParam: "participants", MaxSize: 50}
	GeneralPagination     = Pagination{DefaultSize: 10, SizeParam: "page_size", MaxSize: 50}
	UsersPagination       = Pagination{DefaultSize: 20, SizeParam: "page_size", MaxSize: 100}
)

// Page - запрошенная страница
type Page struct {
	Number int
	Size   int
}

// Limit возвращает размер страницы для запроса к БД
func (p Page) Limit() int { return p.Size }

// Offset возвращает смещение для запроса к БД
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Parse читает номер и размер страницы из запроса.
// Нечисловой или неположительный номер страницы - ErrInvalidPage, кривой размер заменяется значением по умолчанию.
// page=last не поддерживается.
func (p Pagination) Parse(c *gin.Context) (Page, error) {
	page := Page{Number: 1, Size: p.DefaultSize}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, ErrInvalidPage
		}
		page.Number = n
	}

	if raw := c.Query(p.SizeParam); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Size = n
			if page.Size > p.MaxSize {
				page.Size = p.MaxSize
			}
		}
	}
	return page, nil
}

// Envelope - стандартная обёртка страницы
type Envelope struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NumPages возвращает число страниц, не меньше одной
func NumPages(count int64, size int) int {
	if count <= 0 || size <= 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

// Paginate собирает обёртку и проверяет, что страница в пределах выдачи
func Paginate(c *gin.Context, page Page, count int64, results interface{}) (*Envelope, error) {
	pages := NumPages(count, page.Size)
	if page.Number > pages {
		return nil, ErrInvalidPage
	}

	env := &Envelope{Count: count, Results: results}
	if page.Number < pages {
		next := pageURL(c, page.Number+1)
		env.Next = &next
	}
	if page.Number > 1 {
		prev := pageURL(c, page.Number-1)
		env.Previous = &prev
	}
	return env, nil
}

// pageURL строит абсолютную ссылку на страницу. Для первой страницы параметр page убирается.
func pageURL(c *gin.Context, number int) string {
	query := c.Request.URL.Query()
	if number == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(number))
	}

	u := url.URL{
		Scheme:   RequestScheme(c),
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// RequestScheme определяет схему с учётом прокси
func RequestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// AbsoluteURL строит абсолютную ссылку на путь текущего хоста
func AbsoluteURL(c *gin.Context, path string) string {
	u := url.URL{Scheme: RequestScheme(c), Host: c.Request.Host, Path: path}
	return u.String()
}
