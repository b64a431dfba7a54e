package transcriber

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/actaudit/internal/cache"
)

// Transcribe returns the cached transcript for the file content and model
// when present, otherwise delegates and caches a non-empty result.
func (c *implCached) Transcribe(ctx context.Context, audioPath, model string, progress ProgressFunc) (Result, error) {
	hash, err := cache.HashFile(audioPath)
	if err != nil {
		// Unreadable for hashing: skip the cache and let the backend report the failure.
		c.logger.Warn(ctx, "Transcript cache bypassed: %v", err)
	}

	if hash != "" {
		if text, ok := c.store.Lookup(ctx, hash, model); ok {
			c.logger.Info(ctx, "Transcript cache hit: %s", cache.Key(hash, model))
			notify(progress, "Transcript found in cache")
			return Result{Text: text, Model: model, FromCache: true}, nil
		}
	}

	notify(progress, fmt.Sprintf("Transcribing with Whisper (model: %s)...", model))
	res, err := c.next.Transcribe(ctx, audioPath, model, progress)
	if err != nil {
		return Result{}, err
	}

	if hash != "" && res.Text != "" {
		if err := c.store.Put(ctx, hash, model, res.Text); err != nil {
			c.logger.Warn(ctx, "Failed to cache transcript: %v", err)
		}
	}
	return res, nil
}

func notify(progress ProgressFunc, msg string) {
	if progress != nil {
		progress(msg)
	}
}
