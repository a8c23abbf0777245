// Package watcher ingests contract text files dropped into watched
// directories. It is the hands-off alternative to 'contralens add': point
// it at a folder and every .txt or .md file that lands there becomes an
// ingested contract.
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

	"github.com/custodia-labs/contralens/internal/core/ports/driving"
	"github.com/custodia-labs/contralens/internal/logger"
)

// debounceDelay is how long a file must stay quiet before ingestion.
// Editors and copies emit bursts of write events; ingesting on the first
// one reads half a file.
const debounceDelay = 500 * time.Millisecond

// watchedExtensions are the file types the watcher ingests.
var watchedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// Watcher monitors directories and ingests dropped contract files.
type Watcher struct {
	contracts driving.ContractService
	dirs      []string

	mu       sync.Mutex
	pending  map[string]*time.Timer
	ingested map[string]time.Time
}

// New creates a watcher over the given directories.
func New(contracts driving.ContractService, dirs []string) *Watcher {
	return &Watcher{
		contracts: contracts,
		dirs:      dirs,
		pending:   make(map[string]*time.Timer),
		ingested:  make(map[string]time.Time),
	}
}

// Run ingests files already present in the watched directories, then
// blocks processing filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.dirs) == 0 {
		return fmt.Errorf("no directories to watch")
	}

	if err := w.IngestExisting(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Info("Watching %s", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !watchable(event.Name) {
				continue
			}
			w.debounce(ctx, event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// IngestExisting walks the watched directories once and ingests every
// watchable file that is new or modified since the last ingestion.
func (w *Watcher) IngestExisting(ctx context.Context) error {
	for _, dir := range w.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if !watchable(path) {
				continue
			}
			if err := w.ingest(ctx, path); err != nil {
				logger.Warn("Ingest %s failed: %v", path, err)
			}
		}
	}
	return nil
}

// debounce schedules ingestion after the file has been quiet for a while,
// resetting the timer on every new event for the same path.
func (w *Watcher) debounce(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(debounceDelay)
		return
	}

	w.pending[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if err := w.ingest(ctx, path); err != nil {
			logger.Warn("Ingest %s failed: %v", path, err)
		}
	})
}

// ingest reads the file and adds it as a contract, skipping files whose
// content has not changed since the last ingestion.
func (w *Watcher) ingest(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	last, seen := w.ingested[path]
	w.mu.Unlock()
	if seen && !info.ModTime().After(last) {
		return nil
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	filename := filepath.Base(path)
	contract, err := w.contracts.Add(ctx, "", filename, "en", string(text))
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.ingested[path] = info.ModTime()
	w.mu.Unlock()

	logger.Info("Ingested %s as contract %s", filename, contract.ID)
	return nil
}

// watchable reports whether the path has an ingestable extension.
func watchable(path string) bool {
	return watchedExtensions[strings.ToLower(filepath.Ext(path))]
}
