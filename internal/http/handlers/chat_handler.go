// Chat HTTP handlers.
//
// REST endpoints for chat resources, addressed by application token:
//   - POST /applications/{token}/chats  (create)
//   - GET  /applications/{token}/chats  (list)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateChatResponse acknowledges a chat creation request with the number
// assigned to the chat.
type CreateChatResponse struct {
	Message string `json:"message" example:"Chat created successfully"`
	Data    struct {
		ChatNumber int64 `json:"chat_number" example:"1"`
	} `json:"data"`
}

// CreateChat godoc
// @ID          createChat
// @Summary     Create a chat
// @Description Allocates the next chat number under the application and schedules the insert. The number is final even though the row is written asynchronously.
// @Tags        Chats
// @Produce     json
//
// @Param       token  path  string  true  "Application token"
//
// @Success     201  {object}  handlers.CreateChatResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Application not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /applications/{token}/chats [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	number, err := h.chatSvc.Create(c.Request.Context(), c.Param("token"))
	if err != nil {
		failFromService(c, err, ErrCodeCreateFailed)
		return
	}

	var resp CreateChatResponse
	resp.Message = "Chat created successfully"
	resp.Data.ChatNumber = number
	ok(c, http.StatusCreated, resp)
}

// ListChats godoc
// @ID          listChats
// @Summary     List chats
// @Description Returns the application's chats ordered by number. An empty result yields a message body instead of an empty array.
// @Tags        Chats
// @Produce     json
//
// @Param       token  path  string  true  "Application token"
//
// @Success     200  {array}   domain.Chat
// @Failure     404  {object}  handlers.ErrorResponse  "Application not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /applications/{token}/chats [get]
func (h *Handlers) ListChats(c *gin.Context) {
	chats, err := h.chatSvc.List(c.Request.Context(), c.Param("token"))
	if err != nil {
		failFromService(c, err, ErrCodeListFailed)
		return
	}
	if len(chats) == 0 {
		ok(c, http.StatusOK, gin.H{"message": "No chats found"})
		return
	}
	ok(c, http.StatusOK, chats)
}
