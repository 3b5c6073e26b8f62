package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mvp-joe/solution-insight/internal/config"
	"github.com/mvp-joe/solution-insight/internal/discovery"
	"github.com/mvp-joe/solution-insight/internal/mapping"
	"github.com/mvp-joe/solution-insight/internal/output"
	"github.com/mvp-joe/solution-insight/internal/service"
	"github.com/mvp-joe/solution-insight/internal/watcher"
)

var (
	mapTypeComments   bool
	mapMemberComments bool
	mapOutput         string
	mapWorkers        int
	mapStrict         bool
	mapWatch          bool
	mapQuiet          bool
)

var mapCmd = &cobra.Command{
	Use:   "map [path]",
	Short: "Write a JSON map of the types and methods in a solution",
	Long: `Map walks a solution, parses every C# file and writes
ProjectMapping_YYYYMMDD.json to the output root. Each file is listed with its
types and methods; other web assets are listed without members.

The path defaults to paths.solution_root from the configuration, then to the
working directory.

Examples:
  # Map the current directory
  insight map

  # Map a solution with member doc comments
  insight map ./src --member-comments

  # Keep the mapping up to date while editing
  insight map --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)
	mapCmd.Flags().BoolVar(&mapTypeComments, "type-comments", true, "Include type summary comments")
	mapCmd.Flags().BoolVar(&mapMemberComments, "member-comments", false, "Include method summary comments")
	mapCmd.Flags().StringVarP(&mapOutput, "output", "o", "", "Output directory (default paths.output_root or working directory)")
	mapCmd.Flags().IntVar(&mapWorkers, "workers", 0, "Parallel extractions (0 = number of CPUs)")
	mapCmd.Flags().BoolVar(&mapStrict, "strict", false, "Fail on C# syntax errors instead of mapping what parses")
	mapCmd.Flags().BoolVarP(&mapWatch, "watch", "w", false, "Watch for file changes and rewrite the mapping")
	mapCmd.Flags().BoolVarP(&mapQuiet, "quiet", "q", false, "Disable progress bars and non-error output")
}

func runMap(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyMapFlags(cmd.Flags(), cfg)

	root, err := resolveRoot(args, cfg.Paths.SolutionRoot)
	if err != nil {
		return err
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	writer, err := output.NewWriter(cfg.Paths.OutputRoot)
	if err != nil {
		return err
	}

	job := &mapJob{
		cfg:    cfg,
		root:   root,
		writer: writer,
		quiet:  mapQuiet,
		out:    cmd.OutOrStdout(),
	}

	if !mapWatch {
		return job.run(ctx)
	}

	job.cache, err = mapping.NewCache(cfg.Mapping.CacheSize)
	if err != nil {
		return err
	}
	if err := job.run(ctx); err != nil {
		return err
	}
	return job.watch(ctx)
}

// applyMapFlags overrides configuration with the flags given explicitly.
func applyMapFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("type-comments") {
		cfg.Mapping.IncludeTypeComments = mapTypeComments
	}
	if flags.Changed("member-comments") {
		cfg.Mapping.IncludeMemberComments = mapMemberComments
	}
	if flags.Changed("output") {
		cfg.Paths.OutputRoot = mapOutput
	}
	if flags.Changed("workers") {
		cfg.Mapping.Workers = mapWorkers
	}
	if flags.Changed("strict") {
		cfg.Mapping.StrictSyntax = mapStrict
	}
}

// mapJob builds and writes the mapping of one root.
type mapJob struct {
	cfg    *config.Config
	root   string
	writer *output.Writer
	cache  *mapping.Cache
	quiet  bool
	out    io.Writer
}

func (j *mapJob) run(ctx context.Context) error {
	doc, err := service.MapProject(ctx, j.cfg, j.root, service.MapOptions{
		Progress: NewCLIProgressReporter(j.quiet),
		Cache:    j.cache,
	})
	if err != nil {
		return err
	}

	path, err := service.WriteMapping(j.writer, doc, doc.GeneratedAtUTC)
	if err != nil {
		return err
	}

	fmt.Fprintln(j.out, path)
	return nil
}

// watch rewrites the mapping after every debounced batch of changes until
// ctx is cancelled.
func (j *mapJob) watch(ctx context.Context) error {
	fd, err := discovery.New(j.cfg.MappingDiscovery())
	if err != nil {
		return fmt.Errorf("failed to create file discovery: %w", err)
	}

	w, err := watcher.New(j.root, watcher.Options{
		Extensions: j.cfg.Mapping.Extensions,
		Skip:       fd.Ignored,
	})
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Stop()

	err = w.Start(ctx, func(paths []string) {
		w.Pause()
		defer w.Resume()

		if !j.quiet {
			log.Printf("Detected %d changed files, rebuilding mapping...", len(paths))
		}
		if err := j.run(ctx); err != nil {
			log.Printf("Mapping failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	if !j.quiet {
		log.Printf("Watching %s for changes (Ctrl+C to stop)", j.root)
	}
	<-ctx.Done()
	return nil
}
