// Package watcher reloads the documentation model when source files change.
// It wraps fsnotify with a debouncer so editor save bursts collapse into a
// single rebuild.
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

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// EventType classifies a file change.
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
	EventRenamed
)

// String renders the label attached to log entries.
func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	case EventRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent is one debounced file change.
type ChangeEvent struct {
	Type EventType
	Path string
}

// Filter decides whether a path is interesting enough to report.
type Filter func(path string) bool

// Handler receives batched change events after the debounce window closes.
type Handler func(events []ChangeEvent)

// Config controls watcher construction.
type Config struct {
	// Root is the directory watched recursively.
	Root string
	// Debounce is the quiet window that closes a batch.
	Debounce time.Duration
	Filters  []Filter
	Handler  Handler
	Logger   interfaces.Logger
}

// Watcher observes a documentation directory for changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration
	filters  []Filter
	handler  Handler
	logger   interfaces.Logger

	mu      sync.Mutex
	pending map[string]ChangeEvent
	timer   *time.Timer
}

// New constructs a watcher rooted at cfg.Root. Start must be called before
// events flow.
func New(cfg Config) (*Watcher, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, fmt.Errorf("watcher: root directory is required")
	}
	root := filepath.Clean(strings.TrimSpace(cfg.Root))
	if cfg.Handler == nil {
		return nil, fmt.Errorf("watcher: handler is required")
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	return &Watcher{
		fsw:      fsw,
		root:     root,
		debounce: debounce,
		filters:  append([]Filter(nil), cfg.Filters...),
		handler:  cfg.Handler,
		logger:   logger,
		pending:  map[string]ChangeEvent{},
	}, nil
}

// Start registers the directory tree and begins dispatching events until the
// context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.loop(ctx)
	return nil
}

// Stop tears down the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := filepath.Base(path)
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher.error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories join the watch set so nested additions keep working.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn("watcher.add_dir_failed", "dir", event.Name, "error", err)
			}
		}
	}

	for _, filter := range w.filters {
		if !filter(event.Name) {
			return
		}
	}

	var eventType EventType
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = EventCreated
	case event.Op&fsnotify.Write != 0:
		eventType = EventModified
	case event.Op&fsnotify.Remove != 0:
		eventType = EventDeleted
	case event.Op&fsnotify.Rename != 0:
		eventType = EventRenamed
	default:
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Last event per path wins within a batch.
	w.pending[event.Name] = ChangeEvent{Type: eventType, Path: event.Name}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	events := make([]ChangeEvent, 0, len(w.pending))
	for _, event := range w.pending {
		events = append(events, event)
	}
	w.pending = map[string]ChangeEvent{}
	w.mu.Unlock()

	w.logger.Debug("watcher.flush", "events", len(events))
	w.handler(events)
}

// MarkdownFilter keeps markdown sources.
func MarkdownFilter(path string) bool {
	return filepath.Ext(path) == ".md"
}

// NoHiddenFilter drops paths under dot or underscore directories, matching
// the tree scanner's skip rules.
func NoHiddenFilter(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return false
		}
		if strings.HasPrefix(part, "_") {
			return false
		}
	}
	return true
}
