package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("record not found")

// Repositories is the set of entity accessors bound to one transaction.
type Repositories struct {
	Users         UserRepository
	Posts         PostRepository
	Notifications NotificationRepository
}

// Store runs request work inside a single transaction.
//
// WithTx commits when fn returns nil and rolls back otherwise, returning fn's
// error unchanged. A panic inside fn rolls back and is re-raised.
type Store interface {
	WithTx(ctx context.Context, fn func(r *Repositories) error) error
	Name() string
}

// GormStore implements Store on a GORM connection pool.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Name reports the dialect the store talks to.
func (s *GormStore) Name() string {
	return s.db.Dialector.Name()
}

// WithTx begins a transaction, runs fn against repositories bound to it and
// commits or rolls back.
func (s *GormStore) WithTx(ctx context.Context, fn func(r *Repositories) error) (err error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(bind(tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err = tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func bind(tx *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewGormUserRepository(tx),
		Posts:         NewGormPostRepository(tx),
		Notifications: NewGormNotificationRepository(tx),
	}
}

// notFound maps GORM's missing-row error onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
