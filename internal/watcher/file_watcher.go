package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a file watcher.
type Options struct {
	// Extensions limits events to these file extensions. Matching ignores
	// case. Empty means every file.
	Extensions []string

	// Debounce is the quiet period before a batch fires. Zero means
	// DefaultDebounce.
	Debounce time.Duration

	// Skip reports whether a path relative to the root (slash separated)
	// must not be watched, for example build output directories.
	Skip func(relPath string, isDir bool) bool
}

type fileWatcher struct {
	root       string
	opts       Options
	extensions map[string]bool
	fsw        *fsnotify.Watcher

	onChange func(paths []string)
	cancel   context.CancelFunc

	mu      sync.Mutex
	pending map[string]struct{}
	paused  bool
	timer   *time.Timer

	fireCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// New creates a recursive watcher rooted at root.
func New(root string, opts Options) (Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &fileWatcher{
		root:       root,
		opts:       opts,
		extensions: make(map[string]bool, len(opts.Extensions)),
		fsw:        fsw,
		pending:    make(map[string]struct{}),
		fireCh:     make(chan struct{}, 1),
		doneCh:     make(chan struct{}),
	}
	for _, ext := range opts.Extensions {
		fw.extensions[strings.ToLower(ext)] = true
	}

	if err := fw.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return fw, nil
}

// Start implements Watcher.
func (fw *fileWatcher) Start(ctx context.Context, onChange func(paths []string)) error {
	if onChange == nil {
		return errors.New("watcher: nil change callback")
	}

	fw.onChange = onChange
	ctx, fw.cancel = context.WithCancel(ctx)

	go fw.loop(ctx)
	return nil
}

// Stop implements Watcher.
func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.doneCh
		} else {
			close(fw.doneCh)
		}
		err = fw.fsw.Close()
	})
	return err
}

// Pause implements Watcher.
func (fw *fileWatcher) Pause() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.paused = true
}

// Resume implements Watcher.
func (fw *fileWatcher) Resume() {
	fw.mu.Lock()
	wasPaused := fw.paused
	fw.paused = false
	fw.mu.Unlock()

	if wasPaused {
		fw.signal()
	}
}

func (fw *fileWatcher) loop(ctx context.Context) {
	defer close(fw.doneCh)

	for {
		select {
		case <-ctx.Done():
			fw.stopTimer()
			return

		case event, ok := <-fw.fsw.Events:
			if !ok {
				return
			}
			fw.handle(event)

		case <-fw.fireCh:
			fw.flush()

		case err, ok := <-fw.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

func (fw *fileWatcher) handle(event fsnotify.Event) {
	// New directories are watched too; files already inside them are
	// reported through their own create events or the next rebuild.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.addTree(event.Name); err != nil {
				log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !fw.relevant(event) {
		return
	}

	fw.mu.Lock()
	fw.pending[event.Name] = struct{}{}
	fw.mu.Unlock()

	fw.resetTimer()
}

// relevant reports whether the event changes a watched file.
func (fw *fileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if len(fw.extensions) > 0 && !fw.extensions[strings.ToLower(filepath.Ext(event.Name))] {
		return false
	}

	return !fw.skip(event.Name, false)
}

// flush delivers the pending batch unless paused.
func (fw *fileWatcher) flush() {
	fw.mu.Lock()
	if fw.paused || len(fw.pending) == 0 {
		fw.mu.Unlock()
		return
	}

	paths := make([]string, 0, len(fw.pending))
	for p := range fw.pending {
		paths = append(paths, p)
	}
	fw.pending = make(map[string]struct{})
	fw.mu.Unlock()

	sort.Strings(paths)
	fw.onChange(paths)
}

func (fw *fileWatcher) resetTimer() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.opts.Debounce, fw.signal)
}

// signal asks the event loop to flush. Batches are only delivered from the
// loop, so callbacks never overlap.
func (fw *fileWatcher) signal() {
	select {
	case fw.fireCh <- struct{}{}:
	default:
	}
}

func (fw *fileWatcher) stopTimer() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
		fw.timer = nil
	}
}

func (fw *fileWatcher) skip(path string, isDir bool) bool {
	if fw.opts.Skip == nil {
		return false
	}
	rel, err := filepath.Rel(fw.root, path)
	if err != nil || rel == "." {
		return false
	}
	return fw.opts.Skip(filepath.ToSlash(rel), isDir)
}

// addTree watches dir and every directory below it that is not skipped.
func (fw *fileWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// If it's the root path, fail immediately
			if path == dir {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !d.IsDir() {
			return nil
		}
		if path != fw.root && fw.skip(path, true) {
			return filepath.SkipDir
		}

		if err := fw.fsw.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
