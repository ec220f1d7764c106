// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Chat model.
//
// Writes run inside a transaction that locks the parent application row,
// inserts the chat, and increments the denormalized chats_count. The lock
// serializes sibling creation under the same application and prevents
// lost-update races on the counter; different applications proceed fully in
// parallel.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-chat-system/internal/domain"
)

// lockForUpdate appends a row-level exclusive lock on drivers that support
// it. SQLite has no SELECT ... FOR UPDATE; its single-writer model already
// serializes the transaction, so the clause is skipped there.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateChat persists a chat with a pre-allocated number under the given
// application, incrementing the application's chats_count in the same
// transaction. Either both the row and the counter commit, or neither does.
//
// Error semantics:
//   - ErrNotFound: the application no longer exists.
//   - ErrDuplicate: (application_id, number) already persisted, an
//     at-least-once replay; the caller must treat it as success without
//     re-incrementing anything (the rollback discards this tx entirely).
func CreateChat(ctx context.Context, db *gorm.DB, applicationID uint, number int64) (*domain.Chat, error) {
	chat := &domain.Chat{
		ApplicationID: applicationID,
		Number:        number,
		CreatedAt:     time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app domain.Application
		if err := lockForUpdate(tx).First(&app, applicationID).Error; err != nil {
			return err
		}
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Application{}).
			Where("id = ?", applicationID).
			UpdateColumn("chats_count", gorm.Expr("chats_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// ListChats returns all chats under an application ordered by number
// ascending. It returns an empty slice when the application has no chats.
func ListChats(ctx context.Context, db *gorm.DB, applicationID uint) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("number asc").
		Find(&out).Error
	return out, err
}

// GetChatByNumber fetches a chat by its per-application number.
// Returns ErrNotFound when no such chat exists.
func GetChatByNumber(ctx context.Context, db *gorm.DB, applicationID uint, number int64) (*domain.Chat, error) {
	var chat domain.Chat
	err := db.WithContext(ctx).
		Where("application_id = ? AND number = ?", applicationID, number).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}
