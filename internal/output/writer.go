package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// IOError reports a failed read or write with the path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Writer places generated artifacts under an output root. Files are
// written atomically using the temp → rename pattern.
type Writer struct {
	root string
}

// NewWriter creates the output root if needed. An empty root means the
// current working directory.
func NewWriter(root string) (*Writer, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output root %s: %w", root, err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, &IOError{Op: "create", Path: abs, Err: err}
	}

	return &Writer{root: abs}, nil
}

// Root returns the absolute output root.
func (w *Writer) Root() string {
	return w.root
}

// DatedFileName builds "<prefix>_YYYYMMDD.<ext>" from the local date of t.
func DatedFileName(prefix, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102"), ext)
}

// WriteFile writes data to name under the output root and returns the
// absolute path written. Readers never observe a partially written file.
func (w *Writer) WriteFile(name string, data []byte) (string, error) {
	finalPath := filepath.Join(w.root, name)

	tmp, err := os.CreateTemp(w.root, ".insight-*.tmp")
	if err != nil {
		return "", &IOError{Op: "write", Path: finalPath, Err: err}
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return "", &IOError{Op: "write", Path: finalPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return "", &IOError{Op: "write", Path: finalPath, Err: err}
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return "", &IOError{Op: "write", Path: finalPath, Err: err}
	}

	// Rename to final location (atomic operation)
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", &IOError{Op: "write", Path: finalPath, Err: err}
	}

	return finalPath, nil
}
