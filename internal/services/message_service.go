// Package services – MessageService
//
// Owns message creation, paginated listing, and scoped full-text search.
// Creation validates the body before any number is allocated, so a rejected
// request consumes nothing; listing reads the system of record; search reads
// the eventually consistent Elasticsearch projection.
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
	"github.com/tbourn/go-chat-system/internal/search"
	"github.com/tbourn/go-chat-system/internal/seq"
)

// MessagesPerPage is the fixed page size for message listings.
const MessagesPerPage = 20

// MessageEnqueuer schedules the durable message insert. Satisfied by
// *jobs.Client.
type MessageEnqueuer interface {
	EnqueueSendMessage(ctx context.Context, p jobs.SendMessagePayload) error
}

// Searcher answers tenant- and chat-scoped full-text queries. Satisfied by
// *search.Client.
type Searcher interface {
	Search(ctx context.Context, token string, chatNumber int64, query string) ([]search.Result, error)
}

// MessageService coordinates message numbering, deferred persistence,
// listing, and search.
type MessageService struct {
	DB       *gorm.DB
	Seq      Sequencer
	Queue    MessageEnqueuer
	Searcher Searcher
}

// resolveChat maps external (token, chat number) coordinates to the chat
// row, hiding internal ids from callers further up.
func (s *MessageService) resolveChat(ctx context.Context, token string, chatNumber int64) (*domain.Chat, error) {
	app, err := repo.GetApplicationByToken(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	chat, err := repo.GetChatByNumber(ctx, s.DB, app.ID, chatNumber)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return chat, nil
}

// Create validates the body, resolves the chat, allocates the next message
// number, and enqueues the insert. Validation precedes allocation: an
// invalid body can never consume or gap a number. An enqueue failure
// triggers the compensating release before the error surfaces.
func (s *MessageService) Create(ctx context.Context, token string, chatNumber int64, body string) (int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Create", trace.WithAttributes(
		attribute.String("application.token", token),
		attribute.Int64("chat.number", chatNumber),
	))
	defer span.End()

	if body == "" {
		return 0, ErrEmptyBody
	}
	if len(body) > domain.MaxMessageBodyBytes {
		return 0, ErrBodyTooLarge
	}

	chat, err := s.resolveChat(ctx, token, chatNumber)
	if err != nil {
		return 0, err
	}

	scope := seq.MessageScope(chat.ID)
	number, err := s.Seq.Allocate(ctx, scope)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("message.number", number))

	if err := s.Queue.EnqueueSendMessage(ctx, jobs.SendMessagePayload{
		ApplicationToken: token,
		ChatID:           chat.ID,
		ChatNumber:       chat.Number,
		Number:           number,
		Body:             body,
	}); err != nil {
		_, _ = s.Seq.Release(ctx, scope, number)
		return 0, wrapQueueErr(err)
	}
	return number, nil
}

// ListPage returns one page of messages ordered by number ascending plus
// the total count for pagination metadata. Page size is fixed at
// MessagesPerPage.
func (s *MessageService) ListPage(ctx context.Context, token string, chatNumber int64, page int) ([]domain.Message, int64, error) {
	if page < 1 {
		page = 1
	}

	chat, err := s.resolveChat(ctx, token, chatNumber)
	if err != nil {
		return nil, 0, err
	}

	total, err := repo.CountMessages(ctx, s.DB, chat.ID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	offset := (page - 1) * MessagesPerPage
	items, err := repo.ListMessagesPage(ctx, s.DB, chat.ID, offset, MessagesPerPage)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Search validates the query, verifies the chat exists under this tenant,
// and delegates to the search projection. Results may lag the system of
// record; that eventual consistency is part of the API contract.
func (s *MessageService) Search(ctx context.Context, token string, chatNumber int64, query string) ([]search.Result, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Search", trace.WithAttributes(
		attribute.String("application.token", token),
		attribute.Int64("chat.number", chatNumber),
	))
	defer span.End()

	if query == "" {
		return nil, ErrEmptyQuery
	}
	if _, err := s.resolveChat(ctx, token, chatNumber); err != nil {
		return nil, err
	}
	return s.Searcher.Search(ctx, token, chatNumber, query)
}
