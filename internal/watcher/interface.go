package watcher

import "context"

// Pair is a recording and its minutes sharing a base name in the inbox.
type Pair struct {
	Name        string
	AudioPath   string
	MinutesPath string
}

// Watcher monitors the inbox directory for complete pairs.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// PairHandler processes one complete pair.
type PairHandler func(ctx context.Context, pair Pair) error
