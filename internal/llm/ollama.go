package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nguyentantai21042004/actaudit/internal/logger"
)

const (
	defaultOllamaURL      = "http://localhost:11434"
	defaultHTTPTimeout    = 10 * time.Minute
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
)

// OllamaConfig captures the settings for a local Ollama server.
type OllamaConfig struct {
	BaseURL       string
	Model         string
	Timeout       time.Duration
	RetryAttempts int
}

// Ollama is a Client for the Ollama /api/chat endpoint.
type Ollama struct {
	cfg        OllamaConfig
	httpClient *http.Client
	logger     logger.Logger

	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
	sleeper        func(time.Duration)
}

// OllamaOption customizes the client.
type OllamaOption func(*Ollama)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) OllamaOption {
	return func(o *Ollama) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) OllamaOption {
	return func(o *Ollama) {
		o.retryBaseDelay = baseDelay
		o.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) OllamaOption {
	return func(o *Ollama) {
		o.sleeper = sleeper
	}
}

// NewOllama constructs an Ollama client.
func NewOllama(cfg OllamaConfig, log logger.Logger, opts ...OllamaOption) *Ollama {
	if log == nil {
		log = logger.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaURL
	}
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}

	o := &Ollama{
		cfg:            cfg,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		logger:         log,
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Ollama) Name() string {
	return "ollama/" + o.cfg.Model
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Chat sends prompt as a single user message with streaming disabled.
func (o *Ollama) Chat(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("llm chat: prompt required")
	}
	payload := ollamaChatRequest{
		Model:    o.cfg.Model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llm chat: encode body: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= o.cfg.RetryAttempts; attempt++ {
		body, err := o.do(ctx, http.MethodPost, "/api/chat", encoded)
		if err == nil {
			var resp ollamaChatResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return "", fmt.Errorf("llm chat: decode response: %w", err)
			}
			if resp.Error != "" {
				return "", fmt.Errorf("llm chat: api error: %s", resp.Error)
			}
			content := strings.TrimSpace(resp.Message.Content)
			if content == "" {
				err = errors.New("llm chat: empty content")
			} else {
				return content, nil
			}
		}

		lastErr = err
		if !o.retryable(ctx, err) || attempt == o.cfg.RetryAttempts {
			break
		}
		delay := o.backoffDelay(attempt)
		o.logger.Warn(ctx, "LLM request failed (attempt %d/%d), retrying in %s: %v", attempt, o.cfg.RetryAttempts, delay, err)
		if err := o.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

// Ping lists installed models and checks the configured one is present.
func (o *Ollama) Ping(ctx context.Context) error {
	body, err := o.do(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return fmt.Errorf("%w: %s: %w", ErrUnavailable, o.cfg.BaseURL, err)
		}
		return err
	}
	var tags ollamaTagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return fmt.Errorf("llm ping: decode response: %w", err)
	}
	if o.cfg.Model == "" {
		return nil
	}
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name == o.cfg.Model || strings.HasPrefix(name, o.cfg.Model+":") {
			return nil
		}
	}
	return fmt.Errorf("%w: model %q is not installed (run: ollama pull %s)", ErrUnavailable, o.cfg.Model, o.cfg.Model)
}

func (o *Ollama) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	endpoint, err := url.JoinPath(o.cfg.BaseURL, path)
	if err != nil {
		return nil, fmt.Errorf("llm request: build url: %w", err)
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("llm request: new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, o.cfg.BaseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llm request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return body, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (o *Ollama) retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusRequestTimeout ||
			statusErr.StatusCode == http.StatusTooManyRequests ||
			statusErr.StatusCode >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Empty replies are occasionally transient while a model is loading.
	return strings.Contains(err.Error(), "empty content")
}

// backoffDelay doubles from the base delay: attempt 1 -> base, 2 -> base*2, ...
func (o *Ollama) backoffDelay(attempt int) time.Duration {
	delay := o.retryBaseDelay
	if delay <= 0 {
		return 0
	}
	for i := 1; i < attempt; i++ {
		if delay > o.retryMaxDelay/2 {
			return o.retryMaxDelay
		}
		delay *= 2
	}
	if o.retryMaxDelay > 0 && delay > o.retryMaxDelay {
		return o.retryMaxDelay
	}
	return delay
}

func (o *Ollama) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if o.sleeper != nil {
		o.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
