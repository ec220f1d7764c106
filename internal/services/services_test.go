package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-chat-system/internal/config"
	"github.com/tbourn/go-chat-system/internal/jobs"
	"github.com/tbourn/go-chat-system/internal/repo"
	"github.com/tbourn/go-chat-system/internal/search"
	"github.com/tbourn/go-chat-system/internal/seq"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_%d.db", time.Now().UnixNano()))
	db, err := repo.Open(config.DBConfig{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// stubSequencer hands out consecutive numbers per scope and records every
// compensating release.
type stubSequencer struct {
	next     map[seq.Scope]int64
	released []struct {
		Scope  seq.Scope
		Number int64
	}
	allocErr error
}

func newStubSequencer() *stubSequencer {
	return &stubSequencer{next: make(map[seq.Scope]int64)}
}

func (s *stubSequencer) Allocate(ctx context.Context, scope seq.Scope) (int64, error) {
	if s.allocErr != nil {
		return 0, s.allocErr
	}
	s.next[scope]++
	return s.next[scope], nil
}

func (s *stubSequencer) Release(ctx context.Context, scope seq.Scope, n int64) (bool, error) {
	s.released = append(s.released, struct {
		Scope  seq.Scope
		Number int64
	}{scope, n})
	return true, nil
}

type stubTokenIssuer struct {
	token string
	err   error
}

func (s *stubTokenIssuer) Generate(ctx context.Context) (string, error) {
	return s.token, s.err
}

// stubQueue records enqueued payloads and can fail on demand.
type stubQueue struct {
	apps     []jobs.CreateApplicationPayload
	chats    []jobs.CreateChatPayload
	messages []jobs.SendMessagePayload
	err      error
}

func (q *stubQueue) EnqueueCreateApplication(ctx context.Context, p jobs.CreateApplicationPayload) error {
	if q.err != nil {
		return q.err
	}
	q.apps = append(q.apps, p)
	return nil
}

func (q *stubQueue) EnqueueCreateChat(ctx context.Context, p jobs.CreateChatPayload) error {
	if q.err != nil {
		return q.err
	}
	q.chats = append(q.chats, p)
	return nil
}

func (q *stubQueue) EnqueueSendMessage(ctx context.Context, p jobs.SendMessagePayload) error {
	if q.err != nil {
		return q.err
	}
	q.messages = append(q.messages, p)
	return nil
}

type stubSearcher struct {
	results []search.Result
	err     error

	gotToken string
	gotChat  int64
	gotQuery string
}

func (s *stubSearcher) Search(ctx context.Context, token string, chatNumber int64, query string) ([]search.Result, error) {
	s.gotToken = token
	s.gotChat = chatNumber
	s.gotQuery = query
	return s.results, s.err
}
