package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-urlform/pkg/schema"
)

// ReloadDebounce coalesces editor save bursts into one reload.
const ReloadDebounce = 150 * time.Millisecond

// SchemaLoader reloads the schema after its file changed.
type SchemaLoader func(ctx context.Context) (*schema.Schema, error)

// Watch reloads the schema whenever the file at path changes, until ctx
// ends. A reload that fails keeps the previous schema.
func (s *Server) Watch(ctx context.Context, path string, load SchemaLoader) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("server: watch %s: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server: watch: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("server: watch %s: %w", filepath.Dir(abs), err)
	}
	s.watching.Store(true)
	defer s.watching.Store(false)
	s.logger.Info("watching schema", "path", abs)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
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
			if timer == nil {
				timer = time.NewTimer(ReloadDebounce)
			} else {
				timer.Reset(ReloadDebounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("schema watch error", "error", err)
		case <-fire:
			fire = nil
			s.reload(ctx, load)
		}
	}
}

func (s *Server) reload(ctx context.Context, load SchemaLoader) {
	sch, err := load(ctx)
	if err != nil {
		s.logger.Warn("schema reload failed, keeping previous schema", "error", err)
		return
	}
	s.SetSchema(sch)
}
