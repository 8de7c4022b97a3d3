package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yourusername/quiz-api/internal/logger"
)

// DefaultMigrationsSource - путь к SQL-миграциям относительно рабочего каталога
const DefaultMigrationsSource = "file://migrations"

// NewPostgresDB создает новое подключение к PostgreSQL.
// verbose включает логирование каждого SQL-запроса.
func NewPostgresDB(dsn string, verbose bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Пул соединений
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// NewMigrator создает экземпляр migrate поверх уже открытого соединения
func NewMigrator(sqlDB *sql.DB, source string) (*migrateV4.Migrate, error) {
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("не удалось проверить подключение к БД перед миграцией: %w", err)
	}

	driver, err := migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать драйвер postgres для migrate: %w", err)
	}

	m, err := migrateV4.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать экземпляр migrate: %w", err)
	}
	return m, nil
}

// MigrateDB применяет SQL-миграции "вверх"
func MigrateDB(db *gorm.DB, source string) error {
	log := logger.Get().Named("Migrate")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("не удалось получить *sql.DB из *gorm.DB: %w", err)
	}

	m, err := NewMigrator(sqlDB, source)
	if err != nil {
		return err
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrateV4.ErrNoChange):
		log.Info("no new migrations, schema is up to date")
	case err != nil:
		return fmt.Errorf("ошибка применения миграций 'up': %w", err)
	default:
		version, dirty, _ := m.Version()
		log.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	}
	return nil
}
