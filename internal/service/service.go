// Package service runs the two jobs of the tool, project mapping and full
// code extract, from a loaded configuration. The CLI and the MCP server
// both go through it.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mvp-joe/solution-insight/internal/config"
	"github.com/mvp-joe/solution-insight/internal/discovery"
	"github.com/mvp-joe/solution-insight/internal/dump"
	"github.com/mvp-joe/solution-insight/internal/mapping"
	"github.com/mvp-joe/solution-insight/internal/output"
)

// MapOptions carries the per-run collaborators of a mapping build.
type MapOptions struct {
	Progress mapping.ProgressReporter
	Cache    *mapping.Cache
	Reader   discovery.Reader
	Now      func() time.Time
}

// MapProject discovers the candidates under root and builds their mapping.
func MapProject(ctx context.Context, cfg *config.Config, root string, opts MapOptions) (*mapping.Document, error) {
	fd, err := discovery.New(cfg.MappingDiscovery())
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}

	files, err := fd.Discover(root)
	if err != nil {
		return nil, err
	}

	mopts := cfg.MappingOptions()
	mopts.Now = opts.Now

	builder := mapping.NewBuilder(mopts, opts.Reader, opts.Progress)
	builder.SetCache(opts.Cache)

	return builder.Build(ctx, root, files)
}

// WriteMapping writes doc as ProjectMapping_YYYYMMDD.json under the output
// root and returns the written path.
func WriteMapping(w *output.Writer, doc *mapping.Document, now time.Time) (string, error) {
	data, err := mapping.Marshal(doc)
	if err != nil {
		return "", err
	}
	return w.WriteFile(output.DatedFileName(mapping.FilePrefix, "json", now), data)
}

// ExtractCode discovers the extract candidates under root and concatenates
// them verbatim.
func ExtractCode(cfg *config.Config, root string, reader discovery.Reader) ([]byte, error) {
	fd, err := discovery.New(cfg.ExtractDiscovery())
	if err != nil {
		return nil, fmt.Errorf("failed to create file discovery: %w", err)
	}

	files, err := fd.Discover(root)
	if err != nil {
		return nil, err
	}

	return dump.Build(root, files, reader, cfg.DumpOptions())
}

// WriteExtract writes an extract of root under the output root, named after
// the root path, and returns the written path.
func WriteExtract(w *output.Writer, root string, data []byte) (string, error) {
	return w.WriteFile(output.FileNameFromInputPath(root), data)
}
