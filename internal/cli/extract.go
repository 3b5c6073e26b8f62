package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mvp-joe/solution-insight/internal/config"
	"github.com/mvp-joe/solution-insight/internal/output"
	"github.com/mvp-joe/solution-insight/internal/service"
)

var (
	extractSubdirs bool
	extractOutput  string
	extractQuiet   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [path]",
	Short: "Concatenate source files verbatim into one text file",
	Long: `Extract copies every .cs and .cshtml file under a folder, unchanged, into a
single text file. Each file is wrapped in FILE START / FILE END markers
carrying its absolute path. The output is named after the folder, for example
src/Darwin.Web/Areas/Admin becomes Darwin.Web.Areas.Admin.txt.

The path defaults to paths.domain_root from the configuration, then to the
working directory.

Examples:
  # Extract a feature folder without its subfolders
  insight extract ./src/Darwin.Domain/Orders --subdirs=false
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractSubdirs, "subdirs", true, "Include subfolders")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output directory (default paths.output_root or working directory)")
	extractCmd.Flags().BoolVarP(&extractQuiet, "quiet", "q", false, "Disable non-error output")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyExtractFlags(cmd.Flags(), cfg)

	root, err := resolveRoot(args, cfg.Paths.DomainRoot)
	if err != nil {
		return err
	}

	writer, err := output.NewWriter(cfg.Paths.OutputRoot)
	if err != nil {
		return err
	}

	if !extractQuiet {
		log.Printf("Extracting %s (include subfolders: %t)", root, cfg.Extract.IncludeSubdirectories)
	}

	data, err := service.ExtractCode(cfg, root, nil)
	if err != nil {
		return err
	}

	path, err := service.WriteExtract(writer, root, data)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// applyExtractFlags overrides configuration with the flags given explicitly.
func applyExtractFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("subdirs") {
		cfg.Extract.IncludeSubdirectories = extractSubdirs
	}
	if flags.Changed("output") {
		cfg.Paths.OutputRoot = extractOutput
	}
}
