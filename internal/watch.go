package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/coda/internal/types"
)

// ReportFunc receives the blocks of a file extracted again after it
// changed.
type ReportFunc func(filename string, blocks []tt.Block)

// Watcher extracts files again when they change on disk.
type Watcher struct {
	engine   *Engine
	logger   *zap.Logger
	report   ReportFunc
	watcher  *fsnotify.Watcher
	dirs     []string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher watches dirs and their subdirectories. A nil report logs
// the number of blocks found.
func NewWatcher(engine *Engine, logger *zap.Logger, report ReportFunc, dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}

	w := &Watcher{
		engine:   engine,
		logger:   logger,
		report:   report,
		watcher:  fw,
		dirs:     dirs,
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
	}
	if w.report == nil {
		w.report = w.logBlocks
	}

	for _, dir := range dirs {
		if err := w.addTree(dir, nil); err != nil {
			fw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	return w, nil
}

// addTree watches dir and every directory below it. Files found on the
// way are passed to visit when it is not nil.
func (w *Watcher) addTree(dir string, visit func(path string)) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return w.watcher.Add(path)
		}
		if visit != nil {
			visit(path)
		}
		return nil
	})
}

// SetDebounce sets how long a file must stay unchanged before it is
// extracted again. Several writes in a row are handled once.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Run handles file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	w.logger.Info("watching for changes", zap.Strings("dirs", w.dirs))
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for name, timer := range w.pending {
		timer.Stop()
		delete(w.pending, name)
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("error closing watcher", zap.Error(err))
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// files may land in the directory before it is watched
			if err := w.addTree(event.Name, w.schedule); err != nil {
				w.logger.Error("error adding directory to watcher", zap.String("dir", event.Name), zap.Error(err))
				return
			}
			w.logger.Debug("watching new directory", zap.String("dir", event.Name))
			return
		}
	}
	w.schedule(event.Name)
}

// schedule extracts filename once it has been quiet for the debounce
// period.
func (w *Watcher) schedule(filename string) {
	if !w.engine.Supports(filename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[filename]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[filename] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, filename)
		w.mu.Unlock()
		w.process(filename)
	})
}

func (w *Watcher) process(filename string) {
	blocks, err := w.engine.Run(filename)
	if err != nil {
		w.logger.Error("error extracting file", zap.String("file", filename), zap.Error(err))
		return
	}
	w.report(filename, blocks)
}

func (w *Watcher) logBlocks(filename string, blocks []tt.Block) {
	if len(blocks) == 0 {
		w.logger.Info("no blocks found", zap.String("file", filename))
		return
	}
	w.logger.Info("blocks found", zap.String("file", filename), zap.Int("count", len(blocks)))
	for _, b := range blocks {
		w.logger.Debug("block",
			zap.String("kind", b.Kind),
			zap.Int("line", b.Start.Line),
			zap.String("meta", b.Meta),
		)
	}
}
