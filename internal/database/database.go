// Package database opens the gorm connection for the configured driver and
// applies the versioned schema migrations.
//
//   - database.go   : Connect / Open / Close
//   - migrations.go : ordered migration list recorded in schema_migrations
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakhi-app/core/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database and optionally runs migrations.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	db, err := Open(cfg.Database, resolveLogLevel(cfg))
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			_ = Close(db)
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return db, nil
}

// Open opens a connection without touching the schema.
func Open(dbCfg config.DatabaseConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	switch dbCfg.Driver {
	case config.DriverMySQL:
		db, err := gorm.Open(mysql.New(mysql.Config{
			DSN:               dbCfg.MySQLDSN(),
			DefaultStringSize: 191,
		}), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return db, nil

	case config.DriverSQLite, "":
		path := dbCfg.SQLitePath()
		if err := ensureSQLiteDir(path); err != nil {
			return nil, err
		}
		db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("resolve sql db: %w", err)
		}
		// sqlite serializes writers; one connection also keeps :memory: databases shared.
		sqlDB.SetMaxOpenConns(1)
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	if cfg.IsDev() && strings.EqualFold(cfg.Log.Level, "debug") {
		return logger.Info
	}
	if cfg.IsDev() {
		return logger.Silent
	}
	return logger.Warn
}

func ensureSQLiteDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create sqlite directory: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}
