// Application HTTP handlers.
//
// This file exposes REST endpoints for application resources:
//   - POST /applications  (create: issues a token, defers the insert)
//   - GET  /applications  (list persisted applications)
//
// It also defines the Handlers aggregate and the service contracts consumed
// by the whole handler set. Handlers are transport-thin: they validate
// input, call application services, and translate results into HTTP
// responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-chat-system/internal/domain"
	"github.com/tbourn/go-chat-system/internal/search"
	"github.com/tbourn/go-chat-system/internal/services"
)

//
// Service contracts (context-aware)
//

// ApplicationService defines application lifecycle operations consumed by
// HTTP handlers. Implementations must be safe for concurrent use and honor
// the provided context.
type ApplicationService interface {
	// Create issues a token and schedules the durable insert.
	Create(ctx context.Context, name string) (*services.NewApplication, error)
	// List returns every persisted application in creation order.
	List(ctx context.Context) ([]domain.Application, error)
}

// ChatService defines chat operations within one application.
type ChatService interface {
	// Create allocates the next chat number and schedules the insert.
	Create(ctx context.Context, token string) (int64, error)
	// List returns the application's chats ordered by number.
	List(ctx context.Context, token string) ([]domain.Chat, error)
}

// MessageService defines message operations within one chat.
type MessageService interface {
	// Create allocates the next message number and schedules the insert.
	Create(ctx context.Context, token string, chatNumber int64, body string) (int64, error)
	// ListPage returns one page of messages plus the total count.
	ListPage(ctx context.Context, token string, chatNumber int64, page int) ([]domain.Message, int64, error)
	// Search runs a full-text query scoped to the chat.
	Search(ctx context.Context, token string, chatNumber int64, query string) ([]search.Result, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for applications, chats, and messages.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	appSvc  ApplicationService
	chatSvc ChatService
	msgSvc  MessageService
}

// New constructs a Handlers instance bound to the given services.
func New(appSvc ApplicationService, chatSvc ChatService, msgSvc MessageService) *Handlers {
	return &Handlers{appSvc: appSvc, chatSvc: chatSvc, msgSvc: msgSvc}
}

// failFromService maps service sentinel errors onto HTTP responses:
// not-found sentinels → 404, validation sentinels → 422, everything else →
// 500 with the supplied domain code.
func failFromService(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, services.ErrApplicationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "application not found")
	case errors.Is(err, services.ErrChatNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
	case errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrNameTooLong),
		errors.Is(err, services.ErrEmptyBody),
		errors.Is(err, services.ErrBodyTooLarge),
		errors.Is(err, services.ErrEmptyQuery):
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
	default:
		fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}

//
// DTOs
//

// CreateApplicationRequest is the JSON payload for creating an application.
type CreateApplicationRequest struct {
	// Name identifies the application (1–255 chars).
	Name string `json:"name" example:"My Mobile App"`
}

// CreateApplicationResponse acknowledges a creation request. The token is
// usable immediately; the row materializes asynchronously.
type CreateApplicationResponse struct {
	Message string                   `json:"message" example:"Application created successfully"`
	Data    *services.NewApplication `json:"data"`
}

//
// Handlers
//

// CreateApplication godoc
// @ID          createApplication
// @Summary     Create a new application
// @Description Issues an identification token and schedules the application for persistence. The token is valid immediately even though the row is written asynchronously.
// @Tags        Applications
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateApplicationRequest  true  "Create application payload"
//
// @Success     201  {object}  handlers.CreateApplicationResponse
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /applications [post]
func (h *Handlers) CreateApplication(c *gin.Context) {
	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid JSON body")
		return
	}

	app, err := h.appSvc.Create(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		failFromService(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, CreateApplicationResponse{
		Message: "Application created successfully",
		Data:    app,
	})
}

// ListApplications godoc
// @ID          listApplications
// @Summary     List applications
// @Description Returns every persisted application. Recently created applications appear once their queued insert lands.
// @Tags        Applications
// @Produce     json
//
// @Success     200  {array}   domain.Application
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /applications [get]
func (h *Handlers) ListApplications(c *gin.Context) {
	apps, err := h.appSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, apps)
}
