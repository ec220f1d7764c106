// Package domain defines the persistence models for applications, chats, and
// messages. These types are mapped with GORM and form the core data layer of
// the messaging backend.
//
// Numbering model: chats are numbered 1..N within their application and
// messages 1..N within their chat. Numbers are allocated up front by the
// sequence allocator (internal/seq); the composite unique indexes below are
// the backstop that makes asynchronous task replay idempotent: a second
// insert of the same (parent, number) fails closed on the constraint instead
// of double-inserting.
//
// Internal numeric IDs are never serialized; an application is addressed by
// its opaque token and children by their per-parent number.
package domain

import (
	"time"
)

// MaxMessageBodyBytes is the upper bound on a message body, matching the
// TEXT column capacity. Enforced at the service layer before a sequence
// number is allocated.
const MaxMessageBodyBytes = 65535

// Application is a registered tenant. It owns zero or more chats and carries
// a denormalized chats_count that is incremented in the same transaction as
// each chat insert (see repo.CreateChat).
//
// Fields:
//   - ID: internal auto-increment primary key, never exposed over the API.
//   - Name: human-readable application name (1–255 chars).
//   - Token: opaque, immutable, globally unique external identifier.
//   - ChatsCount: eventually consistent count of persisted chats; may
//     transiently under-count while creation tasks are in flight.
type Application struct {
	ID         uint      `json:"-"           gorm:"primaryKey"`
	Name       string    `json:"name"        gorm:"type:varchar(255);not null"`
	Token      string    `json:"token"       gorm:"type:varchar(64);not null;uniqueIndex:ux_applications_token"`
	ChatsCount int64     `json:"chats_count" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

// TableName returns the database table name for Application.
func (Application) TableName() string { return "applications" }

// Chat is a numbered conversation owned by exactly one application.
// (application_id, number) is unique; numbers start at 1 and are strictly
// increasing in allocation order. MessagesCount mirrors ChatsCount on the
// parent: incremented transactionally with each message insert.
type Chat struct {
	ID            uint      `json:"-"              gorm:"primaryKey"`
	ApplicationID uint      `json:"-"              gorm:"not null;uniqueIndex:ux_chats_app_number,priority:1"`
	Number        int64     `json:"number"         gorm:"not null;uniqueIndex:ux_chats_app_number,priority:2"`
	MessagesCount int64     `json:"messages_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`

	// Application is the owning tenant. Chats are cascade-deleted if the
	// application is removed.
	Application Application `json:"-" gorm:"foreignKey:ApplicationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// Message is a numbered utterance within a chat. (chat_id, number) is unique
// and doubles as the index used for ordered retrieval.
type Message struct {
	ID        uint      `json:"-"          gorm:"primaryKey"`
	ChatID    uint      `json:"-"          gorm:"not null;uniqueIndex:ux_messages_chat_number,priority:1"`
	Number    int64     `json:"number"     gorm:"not null;uniqueIndex:ux_messages_chat_number,priority:2"`
	Body      string    `json:"body"       gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	// Chat is the parent conversation. Messages are cascade-deleted if their
	// chat is removed.
	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }
