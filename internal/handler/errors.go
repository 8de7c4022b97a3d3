package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/handler/helper"
	"github.com/yourusername/quiz-api/internal/logger"
	"github.com/yourusername/quiz-api/internal/middleware"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// Тексты ответов с полем detail
const (
	DetailNotFound     = "Not found."
	DetailInvalidPage  = "Invalid page."
	DetailInternal     = "Internal server error"
	DetailInvalidInput = "Invalid input."
)

func init() {
	// Ошибки валидации называют поля так же, как они приходят в JSON
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondError переводит ошибку сервиса в HTTP-ответ
func respondError(c *gin.Context, component string, err error) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr)
	case errors.Is(err, helper.ErrInvalidPage):
		c.JSON(http.StatusNotFound, gin.H{"detail": DetailInvalidPage})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": DetailNotFound})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": middleware.DetailForbidden})
	default:
		logger.Get().Named(component).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": DetailInternal})
	}
}

// bindJSON разбирает тело запроса и отвечает 400, если оно не проходит проверку
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &verrs):
		out := apperrors.NewValidationError(verrs[0].Field(), fieldMessage(verrs[0]))
		for _, fe := range verrs[1:] {
			out.Add(fe.Field(), fieldMessage(fe))
		}
		c.JSON(http.StatusBadRequest, out)
	case errors.As(err, &typeErr):
		c.JSON(http.StatusBadRequest, apperrors.NewValidationError(typeErr.Field, "Incorrect type. Expected "+typeErr.Type.String()+"."))
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": DetailInvalidInput})
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

// splitList разбирает список через запятую, пустые элементы пропускаются
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
