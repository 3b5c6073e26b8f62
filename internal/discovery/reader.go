package discovery

import "os"

// Reader loads the full content of a discovered file.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads files from the local filesystem.
type OSReader struct{}

// ReadFile implements Reader.
func (OSReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
