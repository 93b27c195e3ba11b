package db

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"
	"yatube/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store and migrates the schema.
// driver is "postgres" (production) or "sqlite" (local dev and tests).
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger(os.Stdout),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if driver == "sqlite" {
		// A shared in-memory database only tolerates one writer.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	slog.Info("database connection established", "driver", driver)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	slog.Info("database migration completed")
	return db, nil
}

// newLogger reports slow queries and real errors. Missing rows are an
// expected outcome of lookups and are not logged.
func newLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
}

// OpenMemory opens a private in-memory SQLite database named name.
func OpenMemory(name string) (*gorm.DB, error) {
	return Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}
