// Package services – ApplicationService
//
// Owns the application lifecycle: issuing tokens, deferring the durable
// insert to the task queue, and listing registered applications. Creation is
// optimistic: the caller receives the token before the row exists, and
// durability is observable through the list endpoint.
package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-chat-system/internal/domain"
	"github.com/tbourn/go-chat-system/internal/jobs"
	"github.com/tbourn/go-chat-system/internal/repo"
)

// TokenIssuer mints unique application tokens. Satisfied by
// *token.Generator.
type TokenIssuer interface {
	Generate(ctx context.Context) (string, error)
}

// ApplicationEnqueuer schedules the durable application insert.
// Satisfied by *jobs.Client.
type ApplicationEnqueuer interface {
	EnqueueCreateApplication(ctx context.Context, p jobs.CreateApplicationPayload) error
}

// NewApplication is the provisional creation acknowledgement: the issued
// token plus the request data, returned before persistence completes.
type NewApplication struct {
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// ApplicationService coordinates token issuance, deferred persistence, and
// listing of applications.
type ApplicationService struct {
	DB     *gorm.DB
	Tokens TokenIssuer
	Queue  ApplicationEnqueuer
}

// Create validates the name, issues a unique token, and enqueues the
// durable insert. The returned NewApplication is a provisional commitment:
// the row materializes asynchronously.
func (s *ApplicationService) Create(ctx context.Context, name string) (*NewApplication, error) {
	tr := otel.Tracer("services/ApplicationService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > 255 {
		return nil, ErrNameTooLong
	}

	tok, err := s.Tokens.Generate(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("application.token", tok))

	if err := s.Queue.EnqueueCreateApplication(ctx, jobs.CreateApplicationPayload{
		Name:  name,
		Token: tok,
	}); err != nil {
		return nil, wrapQueueErr(err)
	}

	return &NewApplication{
		Name:      name,
		Token:     tok,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// List returns every persisted application in creation order.
func (s *ApplicationService) List(ctx context.Context) ([]domain.Application, error) {
	tr := otel.Tracer("services/ApplicationService")
	ctx, span := tr.Start(ctx, "List", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	return repo.ListApplications(ctx, s.DB)
}
