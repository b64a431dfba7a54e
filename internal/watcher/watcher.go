package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/actaudit/internal/logger"
	"github.com/nguyentantai21042004/actaudit/internal/transcriber"
)

type implWatcher struct {
	inputDir      string
	handler       PairHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	sem           *semaphore
	settle        time.Duration
	wg            sync.WaitGroup

	// Owned by the Start loop.
	pending map[string]*time.Timer
	last    map[string]pairState
	ready   chan string

	mu   sync.Mutex
	seen map[string]bool
}

// pairState is the size and mtime of both files of a pair.
type pairState struct {
	audioSize   int64
	audioMod    time.Time
	minutesSize int64
	minutesMod  time.Time
}

func (a pairState) equal(b pairState) bool {
	return a.audioSize == b.audioSize && a.audioMod.Equal(b.audioMod) &&
		a.minutesSize == b.minutesSize && a.minutesMod.Equal(b.minutesMod)
}

// Start processes pairs already in the inbox, then waits for new files
// until ctx is canceled.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Drop <name>%s together with <name>.pdf", strings.Join(transcriber.AudioExtensions, "|"))

	if err := w.scan(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			w.logger.Info(ctx, "Waiting for ongoing audits to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !isCandidate(event.Name) {
				w.logger.Debug(ctx, "Ignoring file: %s", event.Name)
				continue
			}
			w.schedule(ctx, baseName(event.Name))

		case name := <-w.ready:
			delete(w.pending, name)
			if err := w.checkStable(ctx, name); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher.
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) scan(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return fmt.Errorf("read inbox: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !isCandidate(e.Name()) {
			continue
		}
		w.schedule(ctx, baseName(e.Name()))
	}
	return nil
}

// schedule (re)arms the settle timer for name. Every new event for the
// same name pushes the check back.
func (w *implWatcher) schedule(ctx context.Context, name string) {
	if w.isSeen(name) {
		return
	}
	if t, ok := w.pending[name]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[name] = time.AfterFunc(w.settle, func() {
		select {
		case w.ready <- name:
		case <-ctx.Done():
		}
	})
}

func (w *implWatcher) stopTimers() {
	for name, t := range w.pending {
		t.Stop()
		delete(w.pending, name)
	}
}

// checkStable dispatches the pair for name once both files report the same
// size and mtime on two consecutive checks. Otherwise it polls again.
func (w *implWatcher) checkStable(ctx context.Context, name string) error {
	if w.isSeen(name) {
		return nil
	}
	pair, ok := FindPair(w.inputDir, name)
	if !ok {
		delete(w.last, name)
		return nil
	}
	state, err := statPair(pair)
	if err != nil {
		delete(w.last, name)
		return nil
	}

	prev, had := w.last[name]
	if !had || !prev.equal(state) {
		w.last[name] = state
		w.logger.Debug(ctx, "Waiting for %s to finish copying", name)
		w.schedule(ctx, name)
		return nil
	}
	delete(w.last, name)
	return w.dispatch(ctx, pair)
}

// dispatch runs the handler for pair unless it was already claimed.
// It only returns an error when ctx ends while waiting for a slot.
func (w *implWatcher) dispatch(ctx context.Context, pair Pair) error {
	if !w.claim(pair.Name) {
		return nil
	}

	w.logger.Info(ctx, "New pair detected: %s (%s + %s)", pair.Name, filepath.Base(pair.AudioPath), filepath.Base(pair.MinutesPath))

	if err := w.sem.acquire(ctx); err != nil {
		return err
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.sem.release()

		if err := w.handler(ctx, pair); err != nil {
			w.logger.Error(ctx, "Failed to audit %s: %v", pair.Name, err)
		}
	}()
	return nil
}

func (w *implWatcher) isSeen(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seen[name]
}

// claim marks name as processed for this session; false if it already was.
func (w *implWatcher) claim(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seen[name] {
		return false
	}
	w.seen[name] = true
	return true
}

func statPair(pair Pair) (pairState, error) {
	audio, err := os.Stat(pair.AudioPath)
	if err != nil {
		return pairState{}, err
	}
	minutes, err := os.Stat(pair.MinutesPath)
	if err != nil {
		return pairState{}, err
	}
	return pairState{
		audioSize:   audio.Size(),
		audioMod:    audio.ModTime(),
		minutesSize: minutes.Size(),
		minutesMod:  minutes.ModTime(),
	}, nil
}

// FindPair reports the audio and PDF files in dir whose base name is name.
func FindPair(dir, name string) (Pair, bool) {
	minutes := filepath.Join(dir, name+".pdf")
	if !isFile(minutes) {
		return Pair{}, false
	}
	for _, ext := range transcriber.AudioExtensions {
		audio := filepath.Join(dir, name+ext)
		if isFile(audio) {
			return Pair{Name: name, AudioPath: audio, MinutesPath: minutes}, true
		}
	}
	return Pair{}, false
}

func isCandidate(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(path), ".pdf") || transcriber.IsAudioFile(path)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
