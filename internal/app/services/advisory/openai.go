package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/profitlens/profitlens/pkg/logger"
)

// Client calls an OpenAI-compatible chat-completions endpoint. One request
// per Generate call, no retries; the caller decides how to degrade.
type Client struct {
	client   *http.Client
	endpoint *url.URL
	apiKey   string
	model    string
	log      *logger.Logger
}

var _ Generator = (*Client)(nil)

// NewClient constructs a client for the given endpoint and model.
func NewClient(client *http.Client, endpoint, apiKey, model string, log *logger.Logger) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("advisory endpoint required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse advisory endpoint: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if log == nil {
		log = logger.NewDefault("advisory-client")
	}
	return &Client{
		client:   client,
		endpoint: parsed,
		apiKey:   strings.TrimSpace(apiKey),
		model:    model,
		log:      log,
	}, nil
}

type completionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate performs one chat-completion call and returns the generated text.
// Transport failures, non-200 statuses, malformed bodies, and empty
// completions all surface as errors.
func (c *Client) Generate(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion status %d", resp.StatusCode)
	}

	var payload completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if payload.Error != nil {
		return "", fmt.Errorf("completion error: %s", payload.Error.Message)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	text := strings.TrimSpace(payload.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("completion returned empty text")
	}
	return text, nil
}
