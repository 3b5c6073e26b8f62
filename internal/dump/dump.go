package dump

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvp-joe/solution-insight/internal/discovery"
	"github.com/mvp-joe/solution-insight/internal/output"
)

const (
	startMarker = "-----8<----- [FILE START] %s -----\n"
	endMarker   = "-----8<----- [FILE END]   %s -----\n"
)

// Options controls the full code extract.
type Options struct {
	IncludeSubdirectories bool
	// Extensions are listed in the header. Defaults to .cs and .cshtml.
	Extensions []string
	// ForwardSlashes rewrites every emitted path with forward slashes.
	ForwardSlashes bool
}

// Build concatenates the raw content of files under root. Each file is
// wrapped in START/END markers carrying its absolute path; content is
// copied byte for byte. Files are emitted in case-insensitive path order.
func Build(root string, files []discovery.File, reader discovery.Reader, opts Options) ([]byte, error) {
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

	if reader == nil {
		reader = discovery.OSReader{}
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".cs", ".cshtml"}
	}

	sorted := make([]discovery.File, len(files))
	copy(sorted, files)
	discovery.SortFiles(sorted)

	var buf bytes.Buffer
	writeHeader(&buf, absRoot, opts)

	for _, file := range sorted {
		content, err := reader.ReadFile(file.Path)
		if err != nil {
			return nil, &output.IOError{Op: "read", Path: file.Path, Err: err}
		}

		path := file.Path
		if opts.ForwardSlashes {
			path = output.ToForwardSlashes(path)
		}

		fmt.Fprintf(&buf, startMarker, path)
		buf.Write(content)
		if !bytes.HasSuffix(content, []byte("\n")) && !bytes.HasSuffix(content, []byte("\r")) {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, endMarker, path)
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, root string, opts Options) {
	if opts.ForwardSlashes {
		root = output.ToForwardSlashes(root)
	}

	buf.WriteString("### Solution Insight for AI – Full Code Extract\n")
	buf.WriteString("\n")
	buf.WriteString("Format:\n")
	buf.WriteString("Each file is wrapped by two markers, and the content between them is the verbatim file content:\n")
	fmt.Fprintf(buf, startMarker, "<FULL_PATH>")
	fmt.Fprintf(buf, endMarker, "<FULL_PATH>")
	buf.WriteString("Notes:\n")
	buf.WriteString("- FULL_PATH is the absolute path of the file.\n")
	buf.WriteString("- The code is copied exactly as-is (no normalization or reformatting).\n")
	fmt.Fprintf(buf, "- File types included: %s\n", strings.Join(opts.Extensions, ", "))
	buf.WriteString("\n")
	fmt.Fprintf(buf, "Root: %s\n", root)
	fmt.Fprintf(buf, "Include subfolders: %s\n", strconv.FormatBool(opts.IncludeSubdirectories))
	buf.WriteString("\n")
}
