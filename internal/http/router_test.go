package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-chat-system/internal/config"
	"github.com/tbourn/go-chat-system/internal/jobs"
	"github.com/tbourn/go-chat-system/internal/repo"
	"github.com/tbourn/go-chat-system/internal/search"
	"github.com/tbourn/go-chat-system/internal/seq"
)

func init() { gin.SetMode(gin.TestMode) }

type stubSequencer struct{ n int64 }

func (s *stubSequencer) Allocate(ctx context.Context, scope seq.Scope) (int64, error) {
	s.n++
	return s.n, nil
}

func (s *stubSequencer) Release(ctx context.Context, scope seq.Scope, n int64) (bool, error) {
	return true, nil
}

type stubTokens struct{}

func (stubTokens) Generate(ctx context.Context) (string, error) { return "tok-test", nil }

type stubEnqueuer struct{ enqueued int }

func (s *stubEnqueuer) EnqueueCreateApplication(ctx context.Context, p jobs.CreateApplicationPayload) error {
	s.enqueued++
	return nil
}

func (s *stubEnqueuer) EnqueueCreateChat(ctx context.Context, p jobs.CreateChatPayload) error {
	s.enqueued++
	return nil
}

func (s *stubEnqueuer) EnqueueSendMessage(ctx context.Context, p jobs.SendMessagePayload) error {
	s.enqueued++
	return nil
}

type stubSearcher struct{}

func (stubSearcher) Search(ctx context.Context, token string, chatNumber int64, query string) ([]search.Result, error) {
	return []search.Result{}, nil
}

func newTestEngine(t *testing.T) (*gin.Engine, *stubEnqueuer, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("router_%d.db", time.Now().UnixNano()))
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

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	queue := &stubEnqueuer{}
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:       db,
		Seq:      &stubSequencer{},
		Tokens:   stubTokens{},
		Queue:    queue,
		Searcher: stubSearcher{},
	}, cfg)
	return r, queue, db
}

func TestHealthEndpoint(t *testing.T) {
	r, _, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r, _, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestNoRoute_JSONEnvelope(t *testing.T) {
	r, _, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if body["code"] != "not_found" {
		t.Fatalf("code = %q", body["code"])
	}
}

func TestNoMethod_JSONEnvelope(t *testing.T) {
	r, _, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/applications", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCreateApplication_EndToEnd(t *testing.T) {
	r, queue, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(`{"name":"Demo"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if queue.enqueued != 1 {
		t.Fatalf("enqueued = %d, want 1", queue.enqueued)
	}
	if got := w.Header().Get("X-Request-ID"); got == "" {
		t.Fatal("X-Request-ID missing")
	}
	if !strings.Contains(w.Body.String(), `"token":"tok-test"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestCreateChat_EndToEnd(t *testing.T) {
	r, queue, db := newTestEngine(t)
	if _, err := repo.CreateApplication(context.Background(), db, "Demo", "tok-1"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/applications/tok-1/chats", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if queue.enqueued != 1 {
		t.Fatalf("enqueued = %d, want 1", queue.enqueued)
	}
	if !strings.Contains(w.Body.String(), `"chat_number":1`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestCreateChat_UnknownToken404(t *testing.T) {
	r, queue, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/applications/ghost/chats", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if queue.enqueued != 0 {
		t.Fatalf("enqueued = %d, want 0", queue.enqueued)
	}
}

func TestGroupWithPrefix(t *testing.T) {
	r := gin.New()
	if g := groupWithPrefix(r, "/"); g.BasePath() != "/" {
		t.Fatalf("BasePath = %q", g.BasePath())
	}
	if g := groupWithPrefix(r, "/v1"); g.BasePath() != "/v1" {
		t.Fatalf("BasePath = %q", g.BasePath())
	}
}
