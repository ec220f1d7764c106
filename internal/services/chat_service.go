// Package services – ChatService
//
// Owns chat creation and listing within one application. Creation resolves
// the parent synchronously, allocates the next chat number, and defers the
// insert to the task queue; the number returned to the caller is a
// provisional commitment fixed by allocation order, not by persistence
// order.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-chat-system/internal/domain"
	"github.com/tbourn/go-chat-system/internal/jobs"
	"github.com/tbourn/go-chat-system/internal/repo"
	"github.com/tbourn/go-chat-system/internal/seq"
)

// Sequencer allocates and compensates per-scope sequence numbers.
// Satisfied by *seq.Allocator.
type Sequencer interface {
	Allocate(ctx context.Context, scope seq.Scope) (int64, error)
	Release(ctx context.Context, scope seq.Scope, n int64) (bool, error)
}

// ChatEnqueuer schedules the durable chat insert. Satisfied by *jobs.Client.
type ChatEnqueuer interface {
	EnqueueCreateChat(ctx context.Context, p jobs.CreateChatPayload) error
}

// ChatService coordinates chat numbering and deferred persistence.
type ChatService struct {
	DB    *gorm.DB
	Seq   Sequencer
	Queue ChatEnqueuer
}

// Create resolves the application by token, allocates the next chat number
// in that scope, and enqueues the insert. If the enqueue fails the number
// is handed back to the allocator before the error is returned, unless a
// concurrent allocation superseded it, in which case the number becomes a
// documented permanent gap.
func (s *ChatService) Create(ctx context.Context, token string) (int64, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("application.token", token)))
	defer span.End()

	app, err := repo.GetApplicationByToken(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrApplicationNotFound
		}
		return 0, err
	}

	scope := seq.ChatScope(app.ID)
	number, err := s.Seq.Allocate(ctx, scope)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("chat.number", number))

	if err := s.Queue.EnqueueCreateChat(ctx, jobs.CreateChatPayload{
		ApplicationID:    app.ID,
		ApplicationToken: app.Token,
		Number:           number,
	}); err != nil {
		_, _ = s.Seq.Release(ctx, scope, number)
		return 0, wrapQueueErr(err)
	}
	return number, nil
}

// List returns all chats under the application identified by token, ordered
// by number ascending.
func (s *ChatService) List(ctx context.Context, token string) ([]domain.Chat, error) {
	app, err := repo.GetApplicationByToken(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return repo.ListChats(ctx, s.DB, app.ID)
}
