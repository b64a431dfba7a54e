package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvGeminiAPIKeys = "ACTAUDIT_GEMINI_API_KEYS"
	EnvOllamaURL     = "ACTAUDIT_OLLAMA_URL"
)

// WhisperModels lists the accepted whisper.cpp model sizes.
var WhisperModels = []string{"tiny", "base", "small", "medium", "large"}

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	LLM         LLMConfig         `yaml:"llm"`
	PDF         PDFConfig         `yaml:"pdf"`
	Cache       CacheConfig       `yaml:"cache"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Model      string `yaml:"model"`
	ModelDir   string `yaml:"model_dir"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type LLMConfig struct {
	Provider       string   `yaml:"provider"`
	Model          string   `yaml:"model"`
	BaseURL        string   `yaml:"base_url"`
	APIKeys        []string `yaml:"api_keys"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	RetryAttempts  int      `yaml:"retry_attempts"`
}

type PDFConfig struct {
	Extractor     string `yaml:"extractor"`
	PdftotextPath string `yaml:"pdftotext_path"`
}

type CacheConfig struct {
	Path string `yaml:"path"`
}

type PathsConfig struct {
	Inbox  string `yaml:"inbox"`
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// Load reads a YAML config file, applies env overrides and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it exists. A missing file is only an error
// when required is set.
func LoadOrDefault(path string, required bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !required && errors.Is(err, fs.ErrNotExist) {
		cfg = &Config{}
		cfg.applyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, err
}

func (c *Config) applyEnv() {
	if raw := strings.TrimSpace(os.Getenv(EnvGeminiAPIKeys)); raw != "" {
		var keys []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		c.LLM.APIKeys = keys
	}
	if url := strings.TrimSpace(os.Getenv(EnvOllamaURL)); url != "" {
		c.LLM.BaseURL = url
	}
}

func (c *Config) Validate() error {
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "small"
	}
	c.Whisper.Model = strings.ToLower(strings.TrimSpace(c.Whisper.Model))
	if !slices.Contains(WhisperModels, c.Whisper.Model) {
		return fmt.Errorf("whisper.model %q is not one of %s", c.Whisper.Model, strings.Join(WhisperModels, ", "))
	}
	if c.Whisper.ModelDir == "" {
		c.Whisper.ModelDir = "models"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "es"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case "":
		c.LLM.Provider = "ollama"
	case "ollama", "gemini":
	default:
		return fmt.Errorf("llm.provider %q is not supported (ollama, gemini)", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		if c.LLM.Provider == "gemini" {
			c.LLM.Model = "gemini-2.5-flash"
		} else {
			c.LLM.Model = "mistral"
		}
	}
	if c.LLM.Provider == "ollama" && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "http://localhost:11434"
	}
	if c.LLM.Provider == "gemini" && len(c.LLM.APIKeys) == 0 {
		return fmt.Errorf("llm.api_keys is required for gemini (or set %s)", EnvGeminiAPIKeys)
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 600
	}
	if c.LLM.RetryAttempts == 0 {
		c.LLM.RetryAttempts = 3
	}

	c.PDF.Extractor = strings.ToLower(strings.TrimSpace(c.PDF.Extractor))
	switch c.PDF.Extractor {
	case "":
		c.PDF.Extractor = "native"
	case "native", "pdftotext":
	default:
		return fmt.Errorf("pdf.extractor %q is not supported (native, pdftotext)", c.PDF.Extractor)
	}
	if c.PDF.PdftotextPath == "" {
		c.PDF.PdftotextPath = "pdftotext"
	}

	if c.Cache.Path == "" {
		c.Cache.Path = "cache_transcripciones.json"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}

	return nil
}

// modelFiles maps model sizes whose whisper.cpp release file carries a
// version suffix.
var modelFiles = map[string]string{
	"large": "large-v3",
}

// ModelPath returns the ggml model file for the given whisper model size.
func (w WhisperConfig) ModelPath(model string) string {
	if name, ok := modelFiles[model]; ok {
		model = name
	}
	return filepath.Join(w.ModelDir, "ggml-"+model+".bin")
}
