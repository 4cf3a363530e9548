package config

import (
	"fmt"
	"time"

	"github.com/anonto42/socially/backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connection and the store built on it.
type DB struct {
	Gorm  *gorm.DB
	Store repositories.Store
	log   *logrus.Logger
}

// InitDB opens the backend selected by DB_DRIVER.
func InitDB(cfg *Config, log *logrus.Logger) (*DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case DriverSQLite:
		db, err = initSQLite(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
	default:
		db, err = initPostgres(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
	}
	return &DB{Gorm: db, Store: repositories.NewGormStore(db), log: log}, nil
}

func gormLogger(log *logrus.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return gormlogger.New(log, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(cfg *Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresUrl), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger(log),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	log.Info("connected to PostgreSQL")
	return db, nil
}

func initSQLite(cfg *Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := repositories.OpenSQLite(cfg.SQLitePath, gormLogger(log))
	if err != nil {
		return nil, err
	}
	entry := log.WithField("path", cfg.SQLitePath)
	if cfg.SQLitePath == repositories.SQLiteInMemory {
		entry.Warn("using in-memory SQLite, data is lost on exit")
	} else {
		entry.Info("opened SQLite database")
	}
	return db, nil
}

// Migrate creates or updates the schema.
func (db *DB) Migrate() error {
	if err := repositories.AutoMigrate(db.Gorm); err != nil {
		return err
	}
	db.log.Info("auto-migrations completed")
	return nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	sqlDB, err := db.Gorm.DB()
	if err != nil {
		db.log.WithError(err).Error("getting SQL DB from GORM")
		return
	}
	if err := sqlDB.Close(); err != nil {
		db.log.WithError(err).Error("closing database connection")
		return
	}
	db.log.WithField("driver", db.Store.Name()).Info("database connection closed")
}
