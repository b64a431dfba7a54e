package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/actaudit/internal/analysis"
	"github.com/nguyentantai21042004/actaudit/internal/cache"
	"github.com/nguyentantai21042004/actaudit/internal/config"
	"github.com/nguyentantai21042004/actaudit/internal/llm"
	"github.com/nguyentantai21042004/actaudit/internal/logger"
	"github.com/nguyentantai21042004/actaudit/internal/pdftext"
	"github.com/nguyentantai21042004/actaudit/internal/pipeline"
	"github.com/nguyentantai21042004/actaudit/internal/transcriber"
	"github.com/nguyentantai21042004/actaudit/pkg/executor"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logOnce sync.Once
	log     logger.Logger
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

// ensureConfig loads the config once. A missing file falls back to defaults
// unless the path was given explicitly.
func (c *commandContext) ensureConfig(explicit bool) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadOrDefault(path, explicit)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Level = "debug"
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() logger.Logger {
	c.logOnce.Do(func() {
		if c.config == nil {
			c.log = logger.NewNop()
			return
		}
		c.log = logger.NewWithFormat(c.config.Logging.Level, c.config.Logging.Format)
	})
	return c.log
}

func (c *commandContext) cacheStore() *cache.Store {
	return cache.New(c.config.Cache.Path, c.logger())
}

func (c *commandContext) llmClient() (llm.Client, error) {
	client, err := llm.New(c.config.LLM, c.logger())
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	return client, nil
}

// newProcessor wires every stage of the audit pipeline.
func (c *commandContext) newProcessor() (pipeline.Processor, error) {
	cfg := c.config
	log := c.logger()

	if err := os.MkdirAll(cfg.Paths.Temp, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	exec := executor.New()
	client, err := c.llmClient()
	if err != nil {
		return nil, err
	}
	extractor, err := pdftext.New(cfg.PDF, exec, log)
	if err != nil {
		return nil, fmt.Errorf("create pdf extractor: %w", err)
	}

	return pipeline.New(cfg, pipeline.Deps{
		Transcriber: transcriber.NewCached(transcriber.NewWhisper(cfg, exec, log), c.cacheStore(), log),
		Analyzer:    analysis.New(client, cfg.Whisper.Language, log),
		Extractor:   extractor,
		Client:      client,
	}, log), nil
}
