package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/actaudit/internal/logger"
)

// defaultSettle is the quiet period between size checks of a new pair.
const defaultSettle = 500 * time.Millisecond

// New creates a Watcher on inputDir that runs handler at most maxConcurrent at a time.
func New(inputDir string, handler PairHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	w := newWatcher(inputDir, handler, log, maxConcurrent)
	w.watcher = watcher
	return w, nil
}

func newWatcher(inputDir string, handler PairHandler, log logger.Logger, maxConcurrent int) *implWatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log,
		maxConcurrent: maxConcurrent,
		sem:           newSemaphore(maxConcurrent),
		settle:        defaultSettle,
		pending:       make(map[string]*time.Timer),
		last:          make(map[string]pairState),
		ready:         make(chan string),
		seen:          make(map[string]bool),
	}
}
