package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	apperrors "thyroscan/internal/errors"
)

// scriptedChatService replays fixed chunks or fails before streaming starts.
type scriptedChatService struct {
	chunks []string
	err    error
}

func (s scriptedChatService) Relay(_ context.Context, _ string, sink func(string) error) error {
	if s.err != nil {
		return s.err
	}
	for _, chunk := range s.chunks {
		if err := sink(chunk); err != nil {
			return err
		}
	}
	return nil
}

func postChat(t *testing.T, svc scriptedChatService, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.POST("/chat", NewChatHandler(svc).Chat)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChatHandler_StreamsPlainText(t *testing.T) {
	svc := scriptedChatService{chunks: []string{"Your thyroid ", "regulates metabolism.", "[END]"}}

	rec := postChat(t, svc, `{"message":"What does the thyroid do?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echo.MIMETextPlainCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "Your thyroid regulates metabolism.[END]", rec.Body.String())
}

func TestChatHandler_EmptyQuestionIsJSONError(t *testing.T) {
	svc := scriptedChatService{err: apperrors.ErrEmptyQuestion}

	rec := postChat(t, svc, `{"message":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The failure precedes any streamed chunk, so the error body keeps its
	// JSON content type instead of the stream's plain text.
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON))
	assert.Contains(t, rec.Body.String(), "EMPTY_QUESTION")
	assert.Contains(t, rec.Body.String(), apperrors.ErrEmptyQuestion.Error())
}
