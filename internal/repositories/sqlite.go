package repositories

import (
	"fmt"

	"github.com/anonto42/socially/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLiteInMemory is the path of a private in-memory SQLite database.
const SQLiteInMemory = ":memory:"

// OpenSQLite opens an SQLite database at path with foreign keys enforced, so
// deletes cascade the same way they do on PostgreSQL.
func OpenSQLite(path string, log gormlogger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 log,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// An in-memory database lives and dies with its connection, and SQLite
	// allows one writer at a time anyway.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

// AutoMigrate creates or updates the tables of every model.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
