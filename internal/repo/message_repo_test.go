package repo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/go-chat-system/internal/domain"
)

func TestCreateMessage_InsertsAndIncrementsCounter(t *testing.T) {
	db := newTestDB(t)
	app := seedApplication(t, db, "Demo", "tok-msg")
	chat, err := CreateChat(context.Background(), db, app.ID, 1)
	if err != nil {
		t.Fatalf("seed chat: %v", err)
	}

	msg, err := CreateMessage(context.Background(), db, chat.ID, 1, "Hi there!")
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if msg.ID == 0 || msg.Number != 1 || msg.Body != "Hi there!" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	got, err := GetChatByNumber(context.Background(), db, app.ID, 1)
	if err != nil {
		t.Fatalf("reload chat: %v", err)
	}
	if got.MessagesCount != 1 {
		t.Fatalf("messages_count = %d, want 1", got.MessagesCount)
	}
}

func TestCreateMessage_ReplayIsDetectable(t *testing.T) {
	db := newTestDB(t)
	app := seedApplication(t, db, "Demo", "tok-msg-replay")
	chat, _ := CreateChat(context.Background(), db, app.ID, 1)

	if _, err := CreateMessage(context.Background(), db, chat.ID, 1, "first"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateMessage(context.Background(), db, chat.ID, 1, "first"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("replay err = %v, want ErrDuplicate", err)
	}

	got, _ := GetChatByNumber(context.Background(), db, app.ID, 1)
	if got.MessagesCount != 1 {
		t.Fatalf("messages_count after replay = %d, want 1", got.MessagesCount)
	}
	var rows int64
	db.Model(&domain.Message{}).Where("chat_id = ?", chat.ID).Count(&rows)
	if rows != 1 {
		t.Fatalf("message rows after replay = %d, want 1", rows)
	}
}

func TestCreateMessage_MissingParent(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateMessage(context.Background(), db, 4242, 1, "orphan")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateMessage_RoundTripsLargeBody(t *testing.T) {
	db := newTestDB(t)
	app := seedApplication(t, db, "Demo", "tok-large")
	chat, _ := CreateChat(context.Background(), db, app.ID, 1)

	body := strings.Repeat("x", domain.MaxMessageBodyBytes)
	if _, err := CreateMessage(context.Background(), db, chat.ID, 1, body); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	page, err := ListMessagesPage(context.Background(), db, chat.ID, 0, 20)
	if err != nil {
		t.Fatalf("ListMessagesPage: %v", err)
	}
	if len(page) != 1 || page[0].Body != body {
		t.Fatal("body did not round-trip byte-identically")
	}
}

func TestListMessagesPage_OrderAndPaging(t *testing.T) {
	db := newTestDB(t)
	app := seedApplication(t, db, "Demo", "tok-page")
	chat, _ := CreateChat(context.Background(), db, app.ID, 1)

	// Insert out of order on purpose; listing must follow number.
	for _, n := range []int64{2, 5, 1, 4, 3} {
		if _, err := CreateMessage(context.Background(), db, chat.ID, n, "m"); err != nil {
			t.Fatalf("create %d: %v", n, err)
		}
	}

	total, err := CountMessages(context.Background(), db, chat.ID)
	if err != nil || total != 5 {
		t.Fatalf("CountMessages = %d, %v", total, err)
	}

	page, err := ListMessagesPage(context.Background(), db, chat.ID, 0, 2)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page) != 2 || page[0].Number != 1 || page[1].Number != 2 {
		t.Fatalf("page 1 = %+v", page)
	}
	page, err = ListMessagesPage(context.Background(), db, chat.ID, 4, 2)
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	if len(page) != 1 || page[0].Number != 5 {
		t.Fatalf("last page = %+v", page)
	}
}
