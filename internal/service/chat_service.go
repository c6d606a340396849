package service

import (
	"bufio"
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"

	apperrors "thyroscan/internal/errors"
)

// EndOfStreamMarker terminates every relayed chat stream.
const EndOfStreamMarker = "[END]"

// RefusalMessage is returned verbatim when a question is off-topic.
const RefusalMessage = "I'm your Thyroid Health Assistant. I can only help with thyroid-related conditions like hypothyroidism, hyperthyroidism, thyroiditis, nodules, and thyroid cancer."

// Allow-list vocabulary, matched at a leading word boundary so derived forms
// such as "hypothyroidism" still pass.
var thyroidKeywords = regexp.MustCompile(`(?i)\b(?:thyroid|hypothyroid|hyperthyroid|thyroiditis|nodules|thyroxine|t3|t4)`)

// ChatService relays thyroid-related questions to a local text-generation
// service and streams the reply back chunk by chunk.
type ChatService interface {
	Relay(ctx context.Context, message string, sink func(chunk string) error) error
}

type chatService struct {
	client      *resty.Client
	upstreamURL string
	model       string
}

// NewChatService creates a chat relay for an Ollama-style generate endpoint.
func NewChatService(upstreamURL, model string) ChatService {
	return &chatService{
		client:      resty.New(),
		upstreamURL: upstreamURL,
		model:       model,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Relay streams the generated answer through sink, terminated by the
// end-of-stream marker. Off-topic questions get the fixed refusal without
// contacting the upstream. Upstream failures degrade to early termination;
// they are never surfaced as a hard error.
func (s *chatService) Relay(ctx context.Context, message string, sink func(chunk string) error) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return apperrors.ErrEmptyQuestion
	}

	if !thyroidKeywords.MatchString(message) {
		return sink(RefusalMessage)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Content-Type", "application/json").
		SetBody(generateRequest{Model: s.model, Prompt: message, Stream: true}).
		Post(s.upstreamURL)
	if err != nil {
		return sink(EndOfStreamMarker)
	}
	defer resp.RawBody().Close()

	scanner := bufio.NewScanner(resp.RawBody())
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			continue
		}
		if chunk.Response != "" {
			if err := sink(chunk.Response); err != nil {
				return err
			}
		}
		if chunk.Done {
			break
		}
	}

	return sink(EndOfStreamMarker)
}
