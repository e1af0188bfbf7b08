// Package llmprovider is the LLM provider seam: a plain REST/JSON client
// over net/http, the same idiom the teacher uses in pkg/runbook/github.go
// for outbound calls it doesn't want a wrapper SDK for. pkg/llmorch
// depends on the Provider interface, never on this package's HTTP
// details, so a fixture test double can stand in during tests.
package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one turn in a prompt. Role is "system", "user", or
// "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single generation call. ThinkingBudget is a pointer so
// "model default" (field omitted) is distinguishable from an explicit
// zero (reasoning disabled): -1 means unbounded, 0 means disabled, nil
// means let the provider choose.
type Request struct {
	Model           string    `json:"model"`
	Messages        []Message `json:"messages"`
	ThinkingBudget  *int      `json:"thinking_budget,omitempty"`
	MaxOutputTokens int       `json:"max_output_tokens,omitempty"`
	// CachedContextHandle references a provider-side context cache
	// created for a batch run's shared packet text, instead of resending
	// it on every chunk.
	CachedContextHandle string `json:"cached_context_handle,omitempty"`
}

// Usage reports token accounting for cost tracking.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	CachedTokens int `json:"cached_tokens,omitempty"`
}

// Response is a successful generation result.
type Response struct {
	Text       string `json:"text"`
	Usage      Usage  `json:"usage"`
	Truncated  bool   `json:"truncated"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// RateLimitError is returned for an HTTP 429. RetryDelay is the
// provider-supplied hint, if any — spec.md notes it can arrive "in one
// of several formats" (seconds as a bare number, or a quoted duration
// string), so the client normalizes both into a time.Duration here and
// the orchestrator never touches the raw body.
type RateLimitError struct {
	RetryDelay time.Duration
	HasDelay   bool
}

func (e *RateLimitError) Error() string {
	if e.HasDelay {
		return fmt.Sprintf("llm provider rate limited: retry after %s", e.RetryDelay)
	}
	return "llm provider rate limited: no retry delay supplied"
}

// StatusError is any non-200, non-429 HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm provider returned HTTP %d: %s", e.StatusCode, e.Body)
}

// ContextCacheHandle identifies a provider-side cached context created
// for batch mode.
type ContextCacheHandle struct {
	ID        string
	ExpiresAt time.Time
}

// Provider is the seam pkg/llmorch depends on.
type Provider interface {
	Generate(ctx context.Context, req Request) (Response, error)
	CreateContextCache(ctx context.Context, model, content string, ttl time.Duration) (ContextCacheHandle, error)
	DeleteContextCache(ctx context.Context, handle ContextCacheHandle) error
}

// Client is the default Provider, a plain REST/JSON caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New builds a Client. baseURL is overridable so tests and the fixture
// server can point it at a local httptest.Server.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type generateRequestBody struct {
	Model           string    `json:"model"`
	Messages        []Message `json:"messages"`
	ThinkingBudget  *int      `json:"thinking_budget,omitempty"`
	MaxOutputTokens int       `json:"max_output_tokens,omitempty"`
	CachedContext   string    `json:"cached_context,omitempty"`
}

type generateResponseBody struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason"`
	Truncated    bool   `json:"truncated"`
	Usage        Usage  `json:"usage"`
}

type rateLimitErrorBody struct {
	Error struct {
		Message    string      `json:"message"`
		RetryDelay interface{} `json:"retryDelay"`
	} `json:"error"`
}

// Generate implements Provider.
func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(generateRequestBody{
		Model:           req.Model,
		Messages:        req.Messages,
		ThinkingBudget:  req.ThinkingBudget,
		MaxOutputTokens: req.MaxOutputTokens,
		CachedContext:   req.CachedContextHandle,
	})
	if err != nil {
		return Response{}, fmt.Errorf("marshal llm request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create llm request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("call llm provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read llm response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return Response{}, parseRateLimitError(respBody)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed generateResponseBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Response{}, fmt.Errorf("decode llm response: %w", err)
	}

	return Response{
		Text:         parsed.Text,
		Usage:        parsed.Usage,
		Truncated:    parsed.Truncated,
		FinishReason: parsed.FinishReason,
	}, nil
}

// CreateContextCache implements Provider for batch mode's shared packet
// context.
func (c *Client) CreateContextCache(ctx context.Context, model, content string, ttl time.Duration) (ContextCacheHandle, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model":       model,
		"content":     content,
		"ttl_seconds": int(ttl.Seconds()),
	})
	if err != nil {
		return ContextCacheHandle{}, fmt.Errorf("marshal context cache request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/contextCaches", bytes.NewReader(body))
	if err != nil {
		return ContextCacheHandle{}, fmt.Errorf("create context cache request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ContextCacheHandle{}, fmt.Errorf("call llm provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return ContextCacheHandle{}, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed struct {
		Name      string    `json:"name"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ContextCacheHandle{}, fmt.Errorf("decode context cache response: %w", err)
	}

	return ContextCacheHandle{ID: parsed.Name, ExpiresAt: parsed.ExpiresAt}, nil
}

// DeleteContextCache implements Provider's guaranteed-release step for
// a batch run's context cache.
func (c *Client) DeleteContextCache(ctx context.Context, handle ContextCacheHandle) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/contextCaches/"+handle.ID, nil)
	if err != nil {
		return fmt.Errorf("create delete context cache request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call llm provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

// parseRateLimitError normalizes the provider's retryDelay field, which
// arrives as either a bare number of seconds or a quoted duration
// string like "30s".
func parseRateLimitError(body []byte) *RateLimitError {
	var parsed rateLimitErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &RateLimitError{HasDelay: false}
	}

	switch v := parsed.Error.RetryDelay.(type) {
	case float64:
		return &RateLimitError{RetryDelay: time.Duration(v) * time.Second, HasDelay: true}
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return &RateLimitError{RetryDelay: d, HasDelay: true}
		}
	}
	return &RateLimitError{HasDelay: false}
}
