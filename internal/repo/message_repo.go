// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// model. The write path mirrors chat_repo.go one level down: the parent chat
// row is locked while the message and the messages_count increment commit
// atomically.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-chat-system/internal/domain"
)

// CreateMessage persists a message with a pre-allocated number under the
// given chat, incrementing the chat's messages_count in the same
// transaction.
//
// Error semantics match CreateChat: ErrNotFound for a vanished parent,
// ErrDuplicate for an at-least-once replay of an already persisted
// (chat_id, number) pair.
func CreateMessage(ctx context.Context, db *gorm.DB, chatID uint, number int64, body string) (*domain.Message, error) {
	msg := &domain.Message{
		ChatID:    chatID,
		Number:    number,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat domain.Chat
		if err := lockForUpdate(tx).First(&chat, chatID).Error; err != nil {
			return err
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Chat{}).
			Where("id = ?", chatID).
			UpdateColumn("messages_count", gorm.Expr("messages_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// CountMessages returns the total number of messages in a chat.
func CountMessages(ctx context.Context, db *gorm.DB, chatID uint) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("chat_id = ?", chatID).
		Count(&total).Error
	return total, err
}

// ListMessagesPage returns a page of messages in a chat ordered by number
// ascending. The (chat_id, number) unique index drives the scan, so paging
// by offset stays cheap. Use CountMessages for pagination metadata.
func ListMessagesPage(ctx context.Context, db *gorm.DB, chatID uint, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("number asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
