package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/nguyentantai21042004/actaudit/internal/logger"
)

// Entry summarises one cached transcript.
type Entry struct {
	Key   string
	Hash  string
	Model string
	Chars int
}

// Store is the file-backed transcript cache. A Store with an empty path is
// disabled and every operation is a no-op.
type Store struct {
	path   string
	logger logger.Logger

	// mu serialises writers in this process; lock covers other processes.
	mu   sync.Mutex
	lock *flock.Flock
}

// New opens the cache at path. The file is created lazily on the first Put.
func New(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Store{path: strings.TrimSpace(path), logger: log}
	if s.path != "" {
		s.lock = flock.New(s.path + ".lock")
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Key builds the flat-file key for a content hash and model identifier.
func Key(hash, model string) string {
	return hash + "_" + model
}

// HashFile returns the lowercase hex MD5 digest of the file contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Lookup returns the cached transcript for (hash, model). The file is read on
// every call so entries written by other processes are visible.
func (s *Store) Lookup(ctx context.Context, hash, model string) (string, bool) {
	if s.path == "" || hash == "" {
		return "", false
	}
	entries := s.read(ctx)
	text, ok := entries[Key(hash, model)]
	return text, ok
}

// Put stores text for (hash, model). Empty text is ignored.
func (s *Store) Put(ctx context.Context, hash, model, text string) error {
	if s.path == "" || hash == "" || text == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock cache: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn(ctx, "Failed to unlock cache %s: %v", s.path, err)
		}
	}()

	entries := s.read(ctx)
	entries[Key(hash, model)] = text

	if err := s.write(entries); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	s.logger.Debug(ctx, "Cached transcript %s (%d chars)", Key(hash, model), len(text))
	return nil
}

// Entries lists the cached transcripts sorted by key.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	if s.path == "" {
		return nil, nil
	}
	raw, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(raw))
	for key, text := range raw {
		hash, model := splitKey(key)
		out = append(out, Entry{Key: key, Hash: hash, Model: model, Chars: len([]rune(text))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Clear deletes the cache file. It reports whether a file existed.
func (s *Store) Clear(ctx context.Context) (bool, error) {
	if s.path == "" {
		return false, nil
	}
	err := os.Remove(s.path)
	switch {
	case err == nil:
		s.logger.Info(ctx, "Removed transcript cache %s", s.path)
		_ = os.Remove(s.path + ".lock")
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("remove cache: %w", err)
	}
}

// read loads the cache, treating a missing or corrupt file as empty.
func (s *Store) read(ctx context.Context) map[string]string {
	entries, err := s.load()
	if err != nil {
		s.logger.Warn(ctx, "Ignoring unreadable transcript cache %s: %v", s.path, err)
		return map[string]string{}
	}
	return entries
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]string{}, nil
	}

	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}
	return entries, nil
}

func (s *Store) write(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// splitKey separates "<hash>_<model>". Hashes are hex so the first underscore
// is the separator.
func splitKey(key string) (string, string) {
	hash, model, ok := strings.Cut(key, "_")
	if !ok {
		return key, ""
	}
	return hash, model
}
