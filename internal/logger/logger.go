package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yourusername/quiz-api/internal/config"
)

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// Initialize настраивает глобальный логгер по конфигурации
func Initialize(loggerCfg config.LoggerConfig) error {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logLevel := zapcore.InfoLevel
	if err := logLevel.Set(strings.ToLower(loggerCfg.Level)); err != nil && loggerCfg.Level != "" {
		return err
	}

	var encoder zapcore.Encoder
	if loggerCfg.Env == "production" {
		// Production: JSON
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), logLevel)

	mu.Lock()
	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	mu.Unlock()
	return nil
}

// Get возвращает глобальный логгер. До Initialize возвращается no-op логгер.
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Sync сбрасывает буферизованные записи
func Sync() error {
	return Get().Sync()
}
