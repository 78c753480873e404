package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// A reload runs once writes have been quiet for watchDebounce, and at the latest
// watchMaxDelay after the first unhandled write.
var (
	watchDebounce = 200 * time.Millisecond
	watchMaxDelay = time.Second
)

// Watch reloads the catalog file at path whenever it changes and hands every valid result
// to onChange. Invalid files are logged and skipped. It blocks until ctx is done.
//
// The parent directory is watched so editors that replace the file on save are handled.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func(*Catalog)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("catalog: resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", filepath.Dir(abs), err)
	}

	var (
		timer        *time.Timer
		fire         <-chan time.Time
		pendingSince time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if fire == nil {
				pendingSince = time.Now()
			}
			delay := watchDebounce
			if left := watchMaxDelay - time.Since(pendingSince); left < delay {
				delay = max(left, 0)
			}
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			c, err := LoadFile(abs)
			if err != nil {
				logger.Warn("catalog reload failed, keeping previous catalog", zap.String("path", abs), zap.Error(err))
				continue
			}
			logger.Info("catalog reloaded", zap.String("path", abs), zap.Int("posts", c.Len()))
			onChange(c)
		}
	}
}
