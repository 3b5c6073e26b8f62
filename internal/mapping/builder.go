package mapping

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/solution-insight/internal/discovery"
	"github.com/mvp-joe/solution-insight/internal/extractor"
	"github.com/mvp-joe/solution-insight/internal/output"
)

// Options controls a mapping build.
type Options struct {
	IncludeTypeComments   bool
	IncludeMemberComments bool
	StrictSyntax          bool

	// SourceExtensions are parsed; every other candidate is listed with no
	// members. Defaults to ".cs".
	SourceExtensions []string

	// Workers bounds concurrent extractions. Zero or less means NumCPU.
	Workers int

	// ForwardSlashes rewrites every emitted path with forward slashes.
	ForwardSlashes bool

	// Now stamps generatedAtUtc. Defaults to time.Now.
	Now func() time.Time
}

// Builder assembles mapping documents.
type Builder struct {
	opts       Options
	reader     discovery.Reader
	progress   ProgressReporter
	extractor  *extractor.Extractor
	sourceExts map[string]bool
	cache      *Cache

	progressMu sync.Mutex
}

// NewBuilder creates a builder. A nil reader reads from disk and a nil
// progress reporter stays silent.
func NewBuilder(opts Options, reader discovery.Reader, progress ProgressReporter) *Builder {
	if reader == nil {
		reader = discovery.OSReader{}
	}
	if progress == nil {
		progress = NoOpProgressReporter{}
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.SourceExtensions) == 0 {
		opts.SourceExtensions = []string{".cs"}
	}

	exts := make(map[string]bool, len(opts.SourceExtensions))
	for _, ext := range opts.SourceExtensions {
		exts[strings.ToLower(ext)] = true
	}

	return &Builder{
		opts:     opts,
		reader:   reader,
		progress: progress,
		extractor: extractor.New(extractor.Options{
			IncludeTypeComments:   opts.IncludeTypeComments,
			IncludeMemberComments: opts.IncludeMemberComments,
			StrictSyntax:          opts.StrictSyntax,
		}),
		sourceExts: exts,
	}
}

// SetCache makes repeated builds skip files whose content is unchanged.
// A nil cache disables caching.
func (b *Builder) SetCache(cache *Cache) {
	b.cache = cache
}

// Build maps every candidate under root. Files are processed concurrently
// but listed in case-insensitive path order. The first failure in that
// order aborts the build and no document is returned.
func (b *Builder) Build(ctx context.Context, root string, files []discovery.File) (*Document, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", discovery.ErrRootNotFound, absRoot)
		}
		return nil, &output.IOError{Op: "stat", Path: absRoot, Err: err}
	}

	sorted := make([]discovery.File, len(files))
	copy(sorted, files)
	discovery.SortFiles(sorted)

	b.report(func(p ProgressReporter) { p.OnFilesDiscovered(len(sorted)) })

	results := make([]FileResult, len(sorted))
	errs := make([]error, len(sorted))
	var cacheHits atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	for i, file := range sorted {
		if gctx.Err() != nil {
			break
		}
		// Started files run to completion under the caller's context so the
		// failure reported is the one a sequential build would hit first.
		g.Go(func() error {
			res, hit, err := b.processFile(ctx, file)
			if err != nil {
				errs[i] = err
				return err
			}
			if hit {
				cacheHits.Add(1)
			}
			results[i] = res
			b.report(func(p ProgressReporter) { p.OnFileProcessed(file.Path) })
			return nil
		})
	}

	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, firstError(errs, waitErr)
	}

	doc := &Document{
		Schema:         SchemaName,
		SchemaVersion:  SchemaVersion,
		GeneratedAtUTC: b.opts.Now().UTC(),
		Root:           b.path(absRoot),
		Files:          results,
	}

	stats := collectStats(sorted, results, b.sourceExts)
	stats.CacheHits = int(cacheHits.Load())
	stats.Duration = time.Since(start)
	b.report(func(p ProgressReporter) { p.OnComplete(stats) })

	return doc, nil
}

// firstError returns the failure of the lowest-index file. Files that only
// failed because a later failure cancelled the group are skipped.
func firstError(errs []error, fallback error) error {
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return fallback
}

func (b *Builder) processFile(ctx context.Context, file discovery.File) (FileResult, bool, error) {
	result := FileResult{FilePath: b.path(file.Path), Members: []Member{}}
	if !b.sourceExts[strings.ToLower(file.Ext)] {
		return result, false, nil
	}

	source, err := b.reader.ReadFile(file.Path)
	if err != nil {
		return FileResult{}, false, &output.IOError{Op: "read", Path: file.Path, Err: err}
	}

	types, hit, err := b.extract(ctx, file.Path, source)
	if err != nil {
		return FileResult{}, false, err
	}

	result.Members = Flatten(types)
	return result, hit, nil
}

func (b *Builder) extract(ctx context.Context, path string, source []byte) ([]extractor.TypeRecord, bool, error) {
	if b.cache == nil {
		types, err := b.extractor.Extract(ctx, path, source)
		return types, false, err
	}

	key := b.cache.key(source, b.extractor.Options())
	if types, ok := b.cache.get(key); ok {
		return types, true, nil
	}

	types, err := b.extractor.Extract(ctx, path, source)
	if err != nil {
		return nil, false, err
	}
	b.cache.add(key, types)
	return types, false, nil
}

func (b *Builder) path(p string) string {
	if b.opts.ForwardSlashes {
		return output.ToForwardSlashes(p)
	}
	return p
}

func (b *Builder) report(fn func(ProgressReporter)) {
	b.progressMu.Lock()
	defer b.progressMu.Unlock()
	fn(b.progress)
}

func collectStats(files []discovery.File, results []FileResult, sourceExts map[string]bool) *Stats {
	stats := &Stats{Files: len(files)}
	for i, file := range files {
		if sourceExts[strings.ToLower(file.Ext)] {
			stats.SourceFiles++
		}
		for _, m := range results[i].Members {
			if m.Kind == MethodKind {
				stats.Methods++
			} else {
				stats.Types++
			}
		}
	}
	return stats
}
