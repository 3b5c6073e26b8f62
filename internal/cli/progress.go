package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/solution-insight/internal/mapping"
)

// CLIProgressReporter reports mapping progress with a progress bar.
type CLIProgressReporter struct {
	quiet   bool
	out     io.Writer
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a reporter writing to stderr.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, out: os.Stderr}
}

func (c *CLIProgressReporter) OnFilesDiscovered(total int) {
	if c.quiet {
		return
	}
	log.Printf("Mapping %s files", formatNumber(total))

	c.fileBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Mapping files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(path string) {
	if c.quiet || c.fileBar == nil {
		return
	}
	c.fileBar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(stats *mapping.Stats) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}

	fmt.Fprintf(c.out, "✓ Mapping complete: %s files in %.1fs\n",
		formatNumber(stats.Files), stats.Duration.Seconds())
	fmt.Fprintf(c.out, "  Parsed:  %s\n", formatNumber(stats.SourceFiles))
	fmt.Fprintf(c.out, "  Types:   %s\n", formatNumber(stats.Types))
	fmt.Fprintf(c.out, "  Methods: %s\n", formatNumber(stats.Methods))
	if stats.CacheHits > 0 {
		fmt.Fprintf(c.out, "  Cached:  %s\n", formatNumber(stats.CacheHits))
	}
}

// formatNumber groups thousands with commas.
func formatNumber(n int) string {
	str := strconv.Itoa(n)
	if n < 1000 && n > -1000 {
		return str
	}

	sign := ""
	if str[0] == '-' {
		sign, str = "-", str[1:]
	}

	var result []byte
	for i := range len(str) {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, str[i])
	}
	return sign + string(result)
}
