// Package openrouter provides the HTTP client for the OpenRouter API: account
// credits, the model catalog, and chat completions.
//
// The client is constructed with an explicit API key and base URL; nothing is
// read from (or written to) the process environment. Completions go through
// the go-openai client pointed at the OpenRouter base URL, since the
// completion surface is OpenAI-compatible. Credits and model listing are
// OpenRouter-specific endpoints and use a plain HTTP client.
//
// Outbound completion calls pass through a token-bucket rate limiter, and
// every request is logged with a correlation ID so a slow or failing exchange
// can be traced in the structured logs.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Config carries the parameters needed to construct a Client.
type Config struct {
	// APIKey authenticates every request (bearer token). May be empty for a
	// client used only to probe a key's validity via Credits.
	APIKey string
	// BaseURL overrides DefaultBaseURL (useful for tests).
	BaseURL string
	// Timeout bounds credits/models requests. Defaults to 10s.
	Timeout time.Duration
	// RPS and Burst configure the completion rate limiter. Zero RPS means
	// no limiting.
	RPS   float64
	Burst int
}

// Client talks to the OpenRouter API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	api     *openai.Client
	limiter *rate.Limiter
}

// Credits is the decoded payload of GET /credits.
type Credits struct {
	TotalCredits float64 `json:"total_credits"`
	TotalUsage   float64 `json:"total_usage"`
}

// Balance is the remaining prepaid usage on the account.
func (c Credits) Balance() float64 { return c.TotalCredits - c.TotalUsage }

// Model describes one entry of the model catalog.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Completion is the result of a chat completion call.
type Completion struct {
	Content    string
	TokensUsed int
}

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openrouter: unexpected status %d", e.StatusCode)
}

// ErrMissingData is returned when a 200 response parses as JSON but lacks the
// expected data object. Such a body does not prove the key is usable.
var ErrMissingData = errors.New("openrouter: response missing data object")

// defaultModels is served when the catalog cannot be fetched, so the caller
// always has something to offer.
var defaultModels = []Model{
	{ID: "deepseek-coder", Name: "DeepSeek"},
	{ID: "claude-3-sonnet", Name: "Claude 3.5 Sonnet"},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo"},
}

// New constructs a Client from cfg, applying defaults for unset fields.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = base

	var lim *rate.Limiter
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		api:     openai.NewClientWithConfig(oc),
		limiter: lim,
	}
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Credits fetches the account's credit totals. Non-200 responses surface as
// *APIError, a 200 body without a data object as ErrMissingData, and transport
// failures and malformed payloads as plain errors.
func (c *Client) Credits(ctx context.Context) (Credits, error) {
	var payload struct {
		Data *Credits `json:"data"`
	}
	if err := c.getJSON(ctx, "/credits", &payload); err != nil {
		return Credits{}, err
	}
	if payload.Data == nil {
		return Credits{}, ErrMissingData
	}
	return *payload.Data, nil
}

// Models fetches the model catalog. On any failure it logs the error and
// returns a built-in default list, so the UI always has models to show.
func (c *Client) Models(ctx context.Context) []Model {
	var payload struct {
		Data []Model `json:"data"`
	}
	if err := c.getJSON(ctx, "/models", &payload); err != nil || len(payload.Data) == 0 {
		log.Warn().Err(err).Msg("model catalog unavailable, using defaults")
		return defaultModels
	}
	return payload.Data
}

// SendMessage runs one chat completion: a single user message against the
// given model. It honors the configured rate limiter and has no timeout of
// its own beyond the caller's context.
func (c *Client) SendMessage(ctx context.Context, model, content string) (Completion, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Completion{}, err
		}
	}

	reqID := uuid.NewString()
	start := time.Now()
	log.Debug().Str("request_id", reqID).Str("model", model).Msg("sending chat completion")

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		log.Error().Str("request_id", reqID).Err(err).Msg("chat completion failed")
		return Completion{}, err
	}
	if len(resp.Choices) == 0 {
		log.Error().Str("request_id", reqID).Msg("chat completion returned no choices")
		return Completion{}, fmt.Errorf("openrouter: empty completion response")
	}

	log.Info().
		Str("request_id", reqID).
		Str("model", model).
		Int("tokens", resp.Usage.TotalTokens).
		Dur("latency", time.Since(start)).
		Msg("chat completion ok")

	return Completion{
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// getJSON performs an authenticated GET against path and decodes the body
// into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	reqID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Str("request_id", reqID).Str("path", path).Err(err).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Debug().Str("request_id", reqID).Str("path", path).Int("status", resp.StatusCode).Msg("unexpected status")
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("openrouter: decode %s: %w", path, err)
	}
	return nil
}
