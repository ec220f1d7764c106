// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Application model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an application is not found, functions return ErrNotFound.
//   - A duplicate token insert returns ErrDuplicate.
//   - On other DB errors, the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-chat-system/internal/domain"
)

// CreateApplication inserts a new Application row with the given name and
// pre-issued token. CreatedAt is set to UTC. Called from the asynchronous
// creation task, so a unique-constraint violation on token means the task
// was replayed after a successful insert; callers treat ErrDuplicate as an
// idempotent no-op.
func CreateApplication(ctx context.Context, db *gorm.DB, name, token string) (*domain.Application, error) {
	app := &domain.Application{
		Name:      name,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplications returns all registered applications in creation order.
func ListApplications(ctx context.Context, db *gorm.DB) ([]domain.Application, error) {
	var out []domain.Application
	err := db.WithContext(ctx).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// GetApplicationByToken fetches a single application by its external token.
// Returns ErrNotFound when the token is unknown.
func GetApplicationByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Application, error) {
	var app domain.Application
	err := db.WithContext(ctx).
		Where("token = ?", token).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}
