package database

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/h4ks-com/cashbook/internal/logging"
	"github.com/h4ks-com/cashbook/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Connect opens the database named by databaseURL.
//
// An empty URL or ":memory:" opens a private in-memory SQLite database,
// "sqlite:<path>" opens a SQLite file and anything else is handed to the
// PostgreSQL driver.
func Connect(databaseURL string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	inMemory := false
	switch {
	case databaseURL == "" || databaseURL == ":memory:" || databaseURL == sqlitePrefix+":memory:":
		inMemory = true
		db, err = gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), config)
	case strings.HasPrefix(databaseURL, sqlitePrefix):
		dbPath := strings.TrimPrefix(databaseURL, sqlitePrefix)
		dbPath = dbPath + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
		db, err = gorm.Open(sqlite.Open(dbPath), config)
	default:
		db, err = gorm.Open(postgres.Open(databaseURL), config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if inMemory {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the schema. It is idempotent and is meant to
// run once before the server starts taking requests.
func Migrate(db *gorm.DB, logger *slog.Logger) error {
	logger = logging.Component(logger, logging.ComponentStorage)
	logger.Info("running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.APIToken{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("database migrations completed")
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TableCounts returns the number of rows in each application table.
func TableCounts(db *gorm.DB) (map[string]int64, error) {
	counts := make(map[string]int64)
	for name, model := range map[string]any{
		"users":        &models.User{},
		"transactions": &models.Transaction{},
		"api_tokens":   &models.APIToken{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}
