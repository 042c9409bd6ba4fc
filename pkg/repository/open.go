package repository

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenOptions configures Open.
type OpenOptions struct {
	Logger        *log.Logger
	SlowThreshold time.Duration
	// MaxOpenConns caps the connection pool; zero keeps the driver default.
	MaxOpenConns int
}

// Open connects to driver ("postgres" or "sqlite") with dsn.
func Open(driver, dsn string, opts OpenOptions) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pg":
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("repository: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(opts.Logger, opts.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("repository: open %s: %w", driver, err)
	}

	if opts.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("repository: pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	return db, nil
}
