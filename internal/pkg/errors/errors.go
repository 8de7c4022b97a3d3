package errors

import (
	"encoding/json"
	"errors"
	"strings"
)

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверные учётные данные).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда токен истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния (например, нарушение уникальности).
	ErrConflict = errors.New("resource state conflict")
)

// ValidationError содержит ошибки валидации по полям в порядке их добавления.
// Сериализуется в JSON как объект {"поле": "сообщение"}.
type ValidationError struct {
	fields   []string
	messages map[string]string
}

// NewValidationError создает ошибку валидации с одним полем
func NewValidationError(field, message string) *ValidationError {
	return (&ValidationError{}).Add(field, message)
}

// Add добавляет сообщение для поля. Повторное добавление заменяет сообщение.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.messages == nil {
		e.messages = make(map[string]string)
	}
	if _, ok := e.messages[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.messages[field] = message
	return e
}

// Empty возвращает true, если ошибок нет
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.fields) == 0
}

// Fields возвращает копию ошибок по полям
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for _, f := range e.fields {
		out[f] = e.messages[f]
	}
	return out
}

// Message возвращает сообщение для поля
func (e *ValidationError) Message(field string) string {
	return e.messages[field]
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f+": "+e.messages[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// MarshalJSON сохраняет порядок полей
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.messages[f])
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
