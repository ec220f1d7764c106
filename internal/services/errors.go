// Package services defines the business logic for applications, chats, and
// messages. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages and HTTP status codes is performed
// at the handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrApplicationNotFound indicates that no application matches the
	// supplied token.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrChatNotFound indicates that the requested chat number does not
	// exist under the resolved application.
	ErrChatNotFound = errors.New("chat not found")

	// ErrEmptyName is returned when an application is created without a name.
	ErrEmptyName = errors.New("name is required")

	// ErrNameTooLong is returned when an application name exceeds 255 chars.
	ErrNameTooLong = errors.New("name exceeds 255 characters")

	// ErrEmptyBody is returned when a message is created without a body.
	ErrEmptyBody = errors.New("body is required")

	// ErrBodyTooLarge is returned when a message body exceeds the 65535-byte
	// storage cap. Checked before a sequence number is allocated, so an
	// oversized request consumes nothing.
	ErrBodyTooLarge = errors.New("body exceeds 65535 bytes")

	// ErrEmptyQuery is returned when a search request has no query string.
	ErrEmptyQuery = errors.New("search query is required")

	// ErrQueueUnavailable wraps enqueue failures: the write was accepted
	// nowhere and any allocated number has been compensated.
	ErrQueueUnavailable = errors.New("task queue unavailable")
)

// wrapQueueErr tags an enqueue failure so handlers can map it to a 500
// while keeping the cause in the log line.
func wrapQueueErr(err error) error {
	return fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
}
