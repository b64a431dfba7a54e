package llm

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/actaudit/internal/config"
	"github.com/nguyentantai21042004/actaudit/internal/logger"
)

// New builds the Client selected by cfg.Provider.
func New(cfg config.LLMConfig, log logger.Logger) (Client, error) {
	switch cfg.Provider {
	case "ollama", "":
		return NewOllama(OllamaConfig{
			BaseURL:       cfg.BaseURL,
			Model:         cfg.Model,
			Timeout:       time.Duration(cfg.TimeoutSeconds) * time.Second,
			RetryAttempts: cfg.RetryAttempts,
		}, log), nil
	case "gemini":
		return NewGemini(cfg.APIKeys, cfg.Model, log)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
