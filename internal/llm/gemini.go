package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/actaudit/internal/logger"
)

type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)
type getModelFunc func(ctx context.Context, apiKey, model string) error

// Gemini is a Client for the Gemini API that rotates through API keys when a
// key is rate limited.
type Gemini struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int

	generate generateFunc
	getModel getModelFunc
}

// NewGemini creates a Gemini client using the supplied API keys in order.
func NewGemini(apiKeys []string, model string, log logger.Logger) (*Gemini, error) {
	var keys []string
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, errors.New("gemini: at least one API key is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Gemini{
		apiKeys:  keys,
		model:    model,
		logger:   log,
		generate: genaiGenerate,
		getModel: genaiGetModel,
	}, nil
}

func (g *Gemini) Name() string {
	return "gemini/" + g.model
}

// Chat sends the prompt to Gemini, rotating keys on 429 / quota errors.
func (g *Gemini) Chat(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("llm chat: prompt required")
	}

	var lastErr error
	for range len(g.apiKeys) {
		idx, key := g.key()
		text, err := g.generate(ctx, key, g.model, prompt)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				return "", errors.New("llm chat: empty response from Gemini")
			}
			return strings.TrimSpace(text), nil
		}
		if isRateLimited(err) {
			g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
			g.rotateKey()
			lastErr = err
			continue
		}
		return "", fmt.Errorf("generate content: %w", err)
	}

	return "", fmt.Errorf("%w: all API keys exhausted: %w", ErrUnavailable, lastErr)
}

// Ping fetches the model metadata with the current key.
func (g *Gemini) Ping(ctx context.Context) error {
	_, key := g.key()
	if err := g.getModel(ctx, key, g.model); err != nil {
		return fmt.Errorf("%w: gemini model %s: %w", ErrUnavailable, g.model, err)
	}
	return nil
}

func (g *Gemini) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

func (g *Gemini) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func newGenaiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func genaiGenerate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := newGenaiClient(ctx, apiKey)
	if err != nil {
		return "", err
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var b strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		return b.String(), nil
	}
	return "", nil
}

func genaiGetModel(ctx context.Context, apiKey, model string) error {
	client, err := newGenaiClient(ctx, apiKey)
	if err != nil {
		return err
	}
	_, err = client.Models.Get(ctx, model, nil)
	return err
}
