// Message HTTP handlers.
//
// REST endpoints for message resources, addressed by application token and
// chat number:
//   - POST /applications/{token}/chats/{chat_number}/messages
//   - GET  /applications/{token}/chats/{chat_number}/messages
//   - GET  /applications/{token}/chats/{chat_number}/messages/search
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-chat-system/internal/domain"
	"github.com/tbourn/go-chat-system/internal/services"
	"github.com/tbourn/go-chat-system/internal/utils"
)

// CreateMessageRequest is the JSON payload for posting a message.
type CreateMessageRequest struct {
	// Body is the message text (1–65535 bytes).
	Body string `json:"body" example:"Hello, how can I help?"`
}

// CreateMessageResponse acknowledges a message creation request with the
// number assigned to the message.
type CreateMessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Message created successfully"`
	Data    struct {
		MessageNumber int64 `json:"message_number" example:"1"`
	} `json:"data"`
}

// PageMeta carries pagination metadata for message listings.
type PageMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
}

// ListMessagesResponse wraps one page of messages and pagination metadata.
type ListMessagesResponse struct {
	Data []domain.Message `json:"data"`
	Meta PageMeta         `json:"meta"`
}

// chatNumber parses the chat number path parameter. A non-numeric or
// non-positive value can never address a chat, so it maps to 404.
func chatNumber(c *gin.Context) (int64, bool) {
	n, err := strconv.ParseInt(c.Param("chat_number"), 10, 64)
	if err != nil || n < 1 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
		return 0, false
	}
	return n, true
}

// CreateMessage godoc
// @ID          createMessage
// @Summary     Create a message
// @Description Allocates the next message number within the chat and schedules the insert. The body is validated before any number is consumed.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       token        path  string  true  "Application token"
// @Param       chat_number  path  int     true  "Chat number"  minimum(1)
// @Param       body         body  handlers.CreateMessageRequest  true  "Message payload"
//
// @Success     201  {object}  handlers.CreateMessageResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Application or chat not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /applications/{token}/chats/{chat_number}/messages [post]
func (h *Handlers) CreateMessage(c *gin.Context) {
	chatNum, okNum := chatNumber(c)
	if !okNum {
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "invalid JSON body")
		return
	}

	number, err := h.msgSvc.Create(c.Request.Context(), c.Param("token"), chatNum, req.Body)
	if err != nil {
		failFromService(c, err, ErrCodeCreateFailed)
		return
	}

	var resp CreateMessageResponse
	resp.Status = "success"
	resp.Message = "Message created successfully"
	resp.Data.MessageNumber = number
	ok(c, http.StatusCreated, resp)
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages (paginated)
// @Description Returns one page of the chat's messages ordered by number, 20 per page.
// @Tags        Messages
// @Produce     json
//
// @Param       token        path   string  true  "Application token"
// @Param       chat_number  path   int     true  "Chat number"  minimum(1)
// @Param       page         query  int     false "Page number"  minimum(1) default(1)
//
// @Success     200  {object}  handlers.ListMessagesResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Application or chat not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /applications/{token}/chats/{chat_number}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	chatNum, okNum := chatNumber(c)
	if !okNum {
		return
	}

	page := utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}

	items, total, err := h.msgSvc.ListPage(c.Request.Context(), c.Param("token"), chatNum, page)
	if err != nil {
		failFromService(c, err, ErrCodeListFailed)
		return
	}

	ok(c, http.StatusOK, ListMessagesResponse{
		Data: items,
		Meta: PageMeta{
			Total:       total,
			CurrentPage: page,
			LastPage:    utils.LastPage(total, services.MessagesPerPage),
			PerPage:     services.MessagesPerPage,
		},
	})
}

// SearchMessages godoc
// @ID          searchMessages
// @Summary     Search messages
// @Description Runs a full-text prefix search over the chat's message bodies. Results reflect the search projection and may lag very recent writes.
// @Tags        Messages
// @Produce     json
//
// @Param       token        path   string  true  "Application token"
// @Param       chat_number  path   int     true  "Chat number"  minimum(1)
// @Param       query        query  string  true  "Search terms"
//
// @Success     200  {array}   search.Result
// @Failure     404  {object}  handlers.ErrorResponse  "Application or chat not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Missing query"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /applications/{token}/chats/{chat_number}/messages/search [get]
func (h *Handlers) SearchMessages(c *gin.Context) {
	chatNum, okNum := chatNumber(c)
	if !okNum {
		return
	}

	results, err := h.msgSvc.Search(c.Request.Context(), c.Param("token"), chatNum, c.Query("query"))
	if err != nil {
		failFromService(c, err, ErrCodeSearchFailed)
		return
	}
	ok(c, http.StatusOK, results)
}
