package analysis

import (
	"github.com/nguyentantai21042004/actaudit/internal/llm"
	"github.com/nguyentantai21042004/actaudit/internal/logger"
)

type implAnalyzer struct {
	client  llm.Client
	prompts prompts
	logger  logger.Logger
}

// New creates an Analyzer that prompts client in the given language ("es" or "en").
func New(client llm.Client, language string, log logger.Logger) Analyzer {
	if log == nil {
		log = logger.NewNop()
	}
	return &implAnalyzer{
		client:  client,
		prompts: promptsFor(language),
		logger:  log,
	}
}
