package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"thyroscan/internal/service"
)

// ChatHandler relays chat questions as a streamed plain-text response.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest is a chat question.
type ChatRequest struct {
	Message string `json:"message"`
}

// Chat godoc
// @Summary Ask the thyroid health assistant
// @Tags chat
// @Accept json
// @Produce plain
// @Param request body ChatRequest true "Question"
// @Success 200 {string} string "Streamed reply terminated by [END]"
// @Failure 400 {object} errors.ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res := c.Response()

	// The service validates the message before the first sink call, so the
	// plain-text header goes on only once a chunk is about to stream; a
	// blank question still gets a clean JSON 400.
	err := h.chatService.Relay(c.Request().Context(), req.Message, func(chunk string) error {
		if !res.Committed {
			res.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
		}
		if _, err := res.Write([]byte(chunk)); err != nil {
			return err
		}
		res.Flush()
		return nil
	})
	if err != nil {
		if !res.Committed {
			return httpError(err)
		}
		// The stream already started; nothing meaningful left to send.
		return nil
	}
	return nil
}
