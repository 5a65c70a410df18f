package database

import (
	"context"
	"fmt"
	"log/slog" // use slog for structured logging
	"strings"
	"time"

	"animeshow/internal/microservices/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by dsn, verifies the connection and
// migrates the characters table. A postgres URL or key/value DSN uses
// the postgres driver; "sqlite:<path>", "file:<path>" and ":memory:"
// use sqlite.
func Connect(dsn string, log *slog.Logger) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}

	dialector, memory := dialectorFor(dsn)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(slogWriter{log}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if memory {
		// every new connection to :memory: is a separate empty database
		sqlDB.SetMaxOpenConns(1)
	}

	// Verify the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		// close the db handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db, log); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database_connected", "driver", dialector.Name())
	return db, nil
}

// Close releases the pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database is reachable
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func runMigrations(db *gorm.DB, log *slog.Logger) error {
	if err := db.AutoMigrate(&models.Character{}); err != nil {
		return err
	}
	log.Info("database_migrations_applied")
	return nil
}

func dialectorFor(dsn string) (gorm.Dialector, bool) {
	switch {
	case dsn == ":memory:":
		return sqlite.Open(dsn), true
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(dsn, "sqlite:")
		return sqlite.Open(path), path == ":memory:"
	case strings.HasPrefix(dsn, "file:"):
		return sqlite.Open(dsn), strings.Contains(dsn, "mode=memory")
	default:
		return postgres.Open(dsn), false
	}
}

// slogWriter routes gorm's log lines through slog
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.log.Warn("gorm", "message", fmt.Sprintf(format, args...))
}
