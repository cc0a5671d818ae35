// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/yekta/folio/internal/store"
)

// Watch invalidates cached content whenever a data file in the data
// directory changes, so hand edits show up without a restart. It blocks
// until ctx is done. ready, if non-nil, is closed once the watch is active.
func (s *ContentService) Watch(ctx context.Context, ready chan<- struct{}) error {
	dir := s.repos.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	s.logger.Info("watching data directory", "dir", dir)
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				s.logger.Warn("watcher overflow, clearing content cache")
				if cerr := s.clearAll(ctx); cerr != nil {
					s.logger.Warn("cache clear failed", "error", cerr)
				}
				continue
			}
			s.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (s *ContentService) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if store.IsTempFile(name) || event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	if s.InvalidateFile(ctx, name) {
		s.logger.Debug("content file changed", "file", name, "op", event.Op.String())
	}
}
