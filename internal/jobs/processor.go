package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-chat-system/internal/repo"
	"github.com/tbourn/go-chat-system/internal/search"
	"github.com/tbourn/go-chat-system/internal/seq"
)

// Releaser is the compensating side of the sequence allocator: hand a number
// back when its durable write failed. Satisfied by *seq.Allocator.
type Releaser interface {
	Release(ctx context.Context, scope seq.Scope, n int64) (bool, error)
}

// Indexer pushes message documents into the search projection.
// Satisfied by *search.Client.
type Indexer interface {
	IndexMessage(ctx context.Context, doc search.Document) error
}

// Processor owns the task handlers. All relational writes go through the
// repo layer's locking transactions; search indexing is strictly
// fire-and-forget after commit.
type Processor struct {
	DB      *gorm.DB
	Seq     Releaser
	Indexer Indexer
}

// NewProcessor wires a processor from its collaborators.
func NewProcessor(db *gorm.DB, alloc Releaser, idx Indexer) *Processor {
	return &Processor{DB: db, Seq: alloc, Indexer: idx}
}

// Mux returns the task router for the worker server.
func (p *Processor) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCreateApplication, p.HandleCreateApplication)
	mux.HandleFunc(TypeCreateChat, p.HandleCreateChat)
	mux.HandleFunc(TypeSendMessage, p.HandleSendMessage)
	return mux
}

// HandleCreateApplication persists an application. The token was issued and
// dedup-tracked synchronously; a duplicate here means the task was
// redelivered after a successful insert and is swallowed as a no-op.
func (p *Processor) HandleCreateApplication(ctx context.Context, t *asynq.Task) error {
	var payload CreateApplicationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}

	_, err := repo.CreateApplication(ctx, p.DB, payload.Name, payload.Token)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		log.Info().Str("token", payload.Token).Msg("application already persisted, replay ignored")
		return nil
	case err != nil:
		log.Error().Err(err).Str("token", payload.Token).Msg("application creation failed")
		return err
	}

	log.Info().Str("name", payload.Name).Str("token", payload.Token).Msg("application created")
	return nil
}

// HandleCreateChat persists a chat under its application and increments
// chats_count transactionally. On failure the pre-allocated number is
// handed back to the allocator (best effort, CAS-guarded) before the error
// is returned to asynq for retry.
func (p *Processor) HandleCreateChat(ctx context.Context, t *asynq.Task) error {
	var payload CreateChatPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}

	_, err := repo.CreateChat(ctx, p.DB, payload.ApplicationID, payload.Number)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		log.Info().
			Str("application_token", payload.ApplicationToken).
			Int64("chat_number", payload.Number).
			Msg("chat already persisted, replay ignored")
		return nil
	case err != nil:
		p.release(ctx, seq.ChatScope(payload.ApplicationID), payload.Number)
		log.Error().Err(err).
			Str("application_token", payload.ApplicationToken).
			Int64("chat_number", payload.Number).
			Msg("chat creation failed")
		return err
	}

	log.Info().
		Str("application_token", payload.ApplicationToken).
		Int64("chat_number", payload.Number).
		Msg("chat created")
	return nil
}

// HandleSendMessage persists a message, increments messages_count, and then
// pushes the search projection. Indexing failures are logged and swallowed:
// the relational write is authoritative and has already committed.
func (p *Processor) HandleSendMessage(ctx context.Context, t *asynq.Task) error {
	var payload SendMessagePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}

	msg, err := repo.CreateMessage(ctx, p.DB, payload.ChatID, payload.Number, payload.Body)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		log.Info().
			Str("application_token", payload.ApplicationToken).
			Int64("chat_number", payload.ChatNumber).
			Int64("message_number", payload.Number).
			Msg("message already persisted, replay ignored")
		return nil
	case err != nil:
		p.release(ctx, seq.MessageScope(payload.ChatID), payload.Number)
		log.Error().Err(err).
			Str("application_token", payload.ApplicationToken).
			Int64("chat_number", payload.ChatNumber).
			Int64("message_number", payload.Number).
			Msg("message creation failed")
		return err
	}

	log.Info().
		Str("application_token", payload.ApplicationToken).
		Int64("chat_number", payload.ChatNumber).
		Int64("message_number", payload.Number).
		Msg("message created")

	if err := p.Indexer.IndexMessage(ctx, search.Document{
		ApplicationToken: payload.ApplicationToken,
		ChatNumber:       payload.ChatNumber,
		MessageNumber:    payload.Number,
		Body:             payload.Body,
		Timestamp:        msg.CreatedAt,
	}); err != nil {
		log.Error().Err(err).
			Str("application_token", payload.ApplicationToken).
			Int64("chat_number", payload.ChatNumber).
			Int64("message_number", payload.Number).
			Msg("failed to index message")
	}
	return nil
}

// release compensates a failed write. A refused release means a newer
// allocation exists in the scope; the number becomes a permanent gap, which
// is the accepted trade-off of the CAS-guarded decrement.
func (p *Processor) release(ctx context.Context, scope seq.Scope, n int64) {
	ok, err := p.Seq.Release(ctx, scope, n)
	if err != nil {
		log.Error().Err(err).Str("scope", string(scope)).Int64("number", n).
			Msg("compensating release failed")
		return
	}
	if !ok {
		log.Warn().Str("scope", string(scope)).Int64("number", n).
			Msg("number already superseded, leaving gap")
	}
}
