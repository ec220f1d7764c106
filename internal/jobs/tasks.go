// Package jobs defines the asynchronous tasks that perform all durable
// writes, and the asynq plumbing that executes them. The API layer only
// validates, allocates sequence numbers, and enqueues; everything that
// touches the relational store or the search index happens here, off the
// request path, with at-least-once delivery.
//
// Each payload carries exactly the data needed to replay its write. Replays
// are detected by the store's unique (parent, number) constraints and
// swallowed as no-ops, so redelivery never double-inserts or
// double-increments.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names, namespaced by entity.
const (
	TypeCreateApplication = "application:create"
	TypeCreateChat        = "chat:create"
	TypeSendMessage       = "message:send"
)

// CreateApplicationPayload replays an application insert.
type CreateApplicationPayload struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

// CreateChatPayload replays a chat insert. ApplicationID is the internal
// parent id resolved synchronously at enqueue time; the token rides along
// for log and failure-report context only.
type CreateChatPayload struct {
	ApplicationID    uint   `json:"application_id"`
	ApplicationToken string `json:"application_token"`
	Number           int64  `json:"number"`
}

// SendMessagePayload replays a message insert plus its search projection.
type SendMessagePayload struct {
	ApplicationToken string `json:"application_token"`
	ChatID           uint   `json:"chat_id"`
	ChatNumber       int64  `json:"chat_number"`
	Number           int64  `json:"number"`
	Body             string `json:"body"`
}

// NewCreateApplicationTask builds the asynq task for an application insert.
func NewCreateApplicationTask(p CreateApplicationPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("jobs: encode %s: %w", TypeCreateApplication, err)
	}
	return asynq.NewTask(TypeCreateApplication, b), nil
}

// NewCreateChatTask builds the asynq task for a chat insert.
func NewCreateChatTask(p CreateChatPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("jobs: encode %s: %w", TypeCreateChat, err)
	}
	return asynq.NewTask(TypeCreateChat, b), nil
}

// NewSendMessageTask builds the asynq task for a message insert.
func NewSendMessageTask(p SendMessagePayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("jobs: encode %s: %w", TypeSendMessage, err)
	}
	return asynq.NewTask(TypeSendMessage, b), nil
}
