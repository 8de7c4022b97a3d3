package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"

	"github.com/yourusername/quiz-api/internal/config"
	"github.com/yourusername/quiz-api/pkg/database"
)

const usage = `usage: migrate <command>

commands:
  up         apply all pending migrations
  down       roll back the last migration
  force N    set version N and clear the dirty flag
  version    print the current version`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	source := os.Getenv("MIGRATIONS_SOURCE")
	if source == "" {
		source = database.DefaultMigrationsSource
	}
	m, err := database.NewMigrator(db, source)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(m, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(m *migrateV4.Migrate, args []string) error {
	switch args[0] {
	case "up":
		return ignoreNoChange(m.Up())
	case "down":
		return ignoreNoChange(m.Steps(-1))
	case "force":
		if len(args) < 2 {
			return errors.New("force requires a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
		fmt.Printf("Forced version %d, dirty state cleaned\n", version)
		return nil
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrateV4.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrateV4.ErrNoChange) {
		fmt.Println("no change")
		return nil
	}
	return err
}
