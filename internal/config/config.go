package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Email    EmailConfig
	Quiz     QuizConfig
	Report   ReportConfig
	Logger   LoggerConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт).
	Addrs []string `mapstructure:"addrs"`

	// Addr: Адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// EmailConfig содержит настройки отправки писем
type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
	// FrontendURL используется для построения ссылки сброса пароля
	FrontendURL string `mapstructure:"frontendURL"`
}

// QuizConfig содержит правила прохождения викторин
type QuizConfig struct {
	SubmissionToleranceSec int `mapstructure:"submissionToleranceSec"`
	MaxTimeLimitMin        int `mapstructure:"maxTimeLimitMin"`
}

// ReportConfig содержит настройки отложенного отчёта участнику
type ReportConfig struct {
	DelayMinutes    int `mapstructure:"delayMinutes"`
	HistoryDays     int `mapstructure:"historyDays"`
	HistoryLimit    int `mapstructure:"historyLimit"`
	PollIntervalSec int `mapstructure:"pollIntervalSec"`
	BatchSize       int `mapstructure:"batchSize"`
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"`
}

// SubmissionTolerance возвращает допустимое опоздание при отправке ответов
func (q QuizConfig) SubmissionTolerance() time.Duration {
	return time.Duration(q.SubmissionToleranceSec) * time.Second
}

// Delay возвращает задержку перед отправкой отчёта
func (r ReportConfig) Delay() time.Duration {
	return time.Duration(r.DelayMinutes) * time.Minute
}

// HistoryWindow возвращает окно истории попыток, попадающих в отчёт
func (r ReportConfig) HistoryWindow() time.Duration {
	return time.Duration(r.HistoryDays) * 24 * time.Hour
}

// PollInterval возвращает интервал опроса очереди отложенных задач
func (r ReportConfig) PollInterval() time.Duration {
	return time.Duration(r.PollIntervalSec) * time.Second
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения для golang-migrate
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readTimeout", 15)
	vip.SetDefault("server.writeTimeout", 15)
	vip.SetDefault("server.allowedOrigins", []string{"http://localhost:3000", "http://localhost:5173"})

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")

	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.addr", "localhost:6379")

	vip.SetDefault("jwt.expirationHrs", 24)

	vip.SetDefault("email.enabled", false)
	vip.SetDefault("email.frontendURL", "http://localhost:3000")

	vip.SetDefault("quiz.submissionToleranceSec", 30)
	vip.SetDefault("quiz.maxTimeLimitMin", 240)

	vip.SetDefault("report.delayMinutes", 120)
	vip.SetDefault("report.historyDays", 7)
	vip.SetDefault("report.historyLimit", 7)
	vip.SetDefault("report.pollIntervalSec", 15)
	vip.SetDefault("report.batchSize", 50)

	vip.SetDefault("logger.level", "info")
	vip.SetDefault("logger.env", "development")
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Отдельный экземпляр, без глобального состояния

	setDefaults(vip)

	// Привязываем переменные окружения явно
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")
	vip.BindEnv("email.frontendURL", "FRONTEND_URL")

	vip.BindEnv("report.delayMinutes", "REPORT_DELAY_MINUTES")
	vip.BindEnv("report.historyDays", "REPORT_HISTORY_DAYS")
	vip.BindEnv("report.historyLimit", "REPORT_HISTORY_LIMIT")

	vip.BindEnv("logger.level", "LOG_LEVEL")
	vip.BindEnv("logger.env", "APP_ENV")

	vip.BindEnv("server.port", "SERVER_PORT")

	// Файл конфигурации не обязателен, значения могут прийти из env
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(os.Getenv("GIN_MODE")); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate проверяет обязательные параметры
func (cfg *Config) validate(ginMode string) error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if ginMode == "release" && cfg.Database.Password == "" {
		return fmt.Errorf("database password is required in production mode (check DATABASE_PASSWORD env var)")
	}
	if cfg.Email.Enabled && (cfg.Email.ResendAPIKey == "" || cfg.Email.From == "") {
		return fmt.Errorf("email is enabled but resend_api_key or from is missing")
	}
	if cfg.Quiz.SubmissionToleranceSec < 0 {
		return fmt.Errorf("quiz.submissionToleranceSec must not be negative")
	}
	if cfg.Report.HistoryLimit < 0 || cfg.Report.HistoryDays < 0 || cfg.Report.DelayMinutes < 0 {
		return fmt.Errorf("report settings must not be negative")
	}
	if cfg.Report.PollIntervalSec <= 0 {
		cfg.Report.PollIntervalSec = 15
	}
	if cfg.Report.BatchSize <= 0 {
		cfg.Report.BatchSize = 50
	}
	return nil
}
