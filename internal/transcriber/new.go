package transcriber

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/nguyentantai21042004/actaudit/internal/cache"
	"github.com/nguyentantai21042004/actaudit/internal/config"
	"github.com/nguyentantai21042004/actaudit/internal/logger"
	"github.com/nguyentantai21042004/actaudit/pkg/executor"
)

// AudioExtensions lists the audio containers accepted as meeting recordings.
var AudioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm", ".mp4"}

// IsAudioFile reports whether path has a supported audio extension.
func IsAudioFile(path string) bool {
	return slices.Contains(AudioExtensions, strings.ToLower(filepath.Ext(path)))
}

type implWhisper struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisper creates a Transcriber backed by the whisper.cpp CLI.
func NewWhisper(cfg *config.Config, exec executor.Executor, log logger.Logger) Transcriber {
	return &implWhisper{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

type implCached struct {
	next   Transcriber
	store  *cache.Store
	logger logger.Logger
}

// NewCached wraps next with the content-addressed transcript cache.
func NewCached(next Transcriber, store *cache.Store, log logger.Logger) Transcriber {
	return &implCached{
		next:   next,
		store:  store,
		logger: log,
	}
}
