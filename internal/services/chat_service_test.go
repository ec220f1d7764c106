package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-chat-system/internal/repo"
	"github.com/tbourn/go-chat-system/internal/seq"
)

func TestChatService_Create_AllocatesAndEnqueues(t *testing.T) {
	db := newTestDB(t)
	app, err := repo.CreateApplication(context.Background(), db, "Demo", "tok-1")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	sequencer := newStubSequencer()
	queue := &stubQueue{}
	svc := &ChatService{DB: db, Seq: sequencer, Queue: queue}

	for want := int64(1); want <= 3; want++ {
		number, err := svc.Create(context.Background(), "tok-1")
		if err != nil {
			t.Fatalf("Create #%d: %v", want, err)
		}
		if number != want {
			t.Fatalf("number = %d, want %d", number, want)
		}
	}
	if len(queue.chats) != 3 {
		t.Fatalf("enqueued %d chats, want 3", len(queue.chats))
	}
	p := queue.chats[0]
	if p.ApplicationID != app.ID || p.ApplicationToken != "tok-1" || p.Number != 1 {
		t.Fatalf("payload mismatch: %+v", p)
	}
}

func TestChatService_Create_UnknownToken(t *testing.T) {
	sequencer := newStubSequencer()
	svc := &ChatService{DB: newTestDB(t), Seq: sequencer, Queue: &stubQueue{}}

	if _, err := svc.Create(context.Background(), "nope"); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("err = %v, want ErrApplicationNotFound", err)
	}
	if len(sequencer.next) != 0 {
		t.Fatal("no number should be allocated for an unknown token")
	}
}

func TestChatService_Create_EnqueueFailureReleasesNumber(t *testing.T) {
	db := newTestDB(t)
	app, err := repo.CreateApplication(context.Background(), db, "Demo", "tok-1")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	sequencer := newStubSequencer()
	svc := &ChatService{DB: db, Seq: sequencer, Queue: &stubQueue{err: errors.New("broker down")}}

	_, err = svc.Create(context.Background(), "tok-1")
	if !errors.Is(err, ErrQueueUnavailable) {
		t.Fatalf("err = %v, want ErrQueueUnavailable", err)
	}
	if len(sequencer.released) != 1 {
		t.Fatalf("released %d numbers, want 1", len(sequencer.released))
	}
	rel := sequencer.released[0]
	if rel.Scope != seq.ChatScope(app.ID) || rel.Number != 1 {
		t.Fatalf("released %+v, want scope %q number 1", rel, seq.ChatScope(app.ID))
	}
}

func TestChatService_List(t *testing.T) {
	db := newTestDB(t)
	app, err := repo.CreateApplication(context.Background(), db, "Demo", "tok-1")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	for n := int64(1); n <= 2; n++ {
		if _, err := repo.CreateChat(context.Background(), db, app.ID, n); err != nil {
			t.Fatalf("seed chat %d: %v", n, err)
		}
	}

	svc := &ChatService{DB: db}
	chats, err := svc.List(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(chats) != 2 || chats[0].Number != 1 || chats[1].Number != 2 {
		t.Fatalf("unexpected chats: %+v", chats)
	}

	if _, err := svc.List(context.Background(), "other"); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("err = %v, want ErrApplicationNotFound", err)
	}
}
