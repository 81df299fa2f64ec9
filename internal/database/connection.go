package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var log = logrus.WithField("component", "database")

const defaultMaxRetries = 5

// retryDelays is indexed by attempt; the last entry repeats
var retryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}

// InitDatabase opens the session store database. PostgreSQL connections are retried
// with exponential backoff; SQLite is opened once with a single connection so that
// in-memory databases are shared by every query.
func InitDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Driver)

	log.WithFields(logrus.Fields{
		"db_driver": driver,
		"db_host":   cfg.Host,
		"db_name":   cfg.Name,
		"db_path":   cfg.Path,
	}).Info("Initializing session store")

	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch driver {
	case "sqlite", "":
		db, err := gorm.Open(sqlite.Open(cfg.DSN()), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil

	case "postgres", "postgresql":
		return openWithRetry(cfg, gormConfig)

	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite)", cfg.Driver)
	}
}

func openWithRetry(cfg DatabaseConfig, gormConfig *gorm.Config) (*gorm.DB, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		var db *gorm.DB
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			var sqlDB *sql.DB
			if sqlDB, err = db.DB(); err == nil {
				if err = sqlDB.Ping(); err == nil {
					configureConnectionPool(sqlDB)
					log.WithField("attempt", attempt).Info("Session store initialized")
					return db, nil
				}
			}
		}

		log.WithFields(logrus.Fields{
			"attempt":     attempt,
			"max_retries": maxRetries,
		}).WithError(err).Warn("Database connection attempt failed")

		if attempt < maxRetries {
			delay := retryDelays[min(attempt-1, len(retryDelays)-1)]
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// configureConnectionPool sizes the pool for a single console process
func configureConnectionPool(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
}
