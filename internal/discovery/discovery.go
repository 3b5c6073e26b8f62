package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"
)

// ErrRootNotFound is returned when the root directory does not exist.
var ErrRootNotFound = errors.New("root path not found")

// File is one discovered candidate.
type File struct {
	// Path is the absolute path of the file.
	Path string
	// RelPath is the path relative to the root, always with forward slashes.
	RelPath string
	// Ext is the lowercase extension including the leading dot.
	Ext string
}

// Options controls which files are discovered.
type Options struct {
	// Extensions lists the allowed extensions (".cs"). Matching ignores case.
	Extensions []string
	// Ignore holds glob patterns matched against slash-separated relative paths.
	Ignore []string
	// Recursive descends into subdirectories. When false only the top
	// directory is listed.
	Recursive bool
	// RespectGitignore also skips paths excluded by the root's .gitignore.
	RespectGitignore bool
}

// compiledPattern holds a compiled glob and, for patterns starting with
// "**/", the glob without that prefix.
type compiledPattern struct {
	glob       glob.Glob
	simplified glob.Glob
}

// FileDiscovery walks a directory tree and returns the files a run works on.
type FileDiscovery struct {
	extensions     map[string]bool
	ignorePatterns []compiledPattern
	recursive      bool
	gitignore      bool
}

// New creates a file discovery instance. It fails if an ignore pattern
// does not compile.
func New(opts Options) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		extensions: make(map[string]bool, len(opts.Extensions)),
		recursive:  opts.Recursive,
		gitignore:  opts.RespectGitignore,
	}

	for _, ext := range opts.Extensions {
		fd.extensions[strings.ToLower(ext)] = true
	}

	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{glob: g}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if cp.simplified, err = glob.Compile(rest, '/'); err != nil {
				return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
			}
		}
		fd.ignorePatterns = append(fd.ignorePatterns, cp)
	}

	return fd, nil
}

// Discover lists the matching files under root sorted case-insensitively by
// absolute path.
func (fd *FileDiscovery) Discover(root string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, absRoot)
		}
		return nil, fmt.Errorf("failed to stat root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, absRoot)
	}

	var ignore *gitignore.GitIgnore
	if fd.gitignore {
		ignore, err = loadGitignore(absRoot)
		if err != nil {
			return nil, err
		}
	}

	files := []File{}
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == absRoot {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if !fd.recursive || fd.shouldIgnore(relPath) || (ignore != nil && ignore.MatchesPath(relPath+"/")) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) || (ignore != nil && ignore.MatchesPath(relPath)) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !fd.extensions[ext] {
			return nil
		}

		files = append(files, File{Path: path, RelPath: relPath, Ext: ext})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", absRoot, err)
	}

	SortFiles(files)
	return files, nil
}

// SortFiles orders files case-insensitively by absolute path, breaking ties
// on the raw path so the order is total.
func SortFiles(files []File) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := strings.ToLower(files[i].Path), strings.ToLower(files[j].Path)
		if a != b {
			return a < b
		}
		return files[i].Path < files[j].Path
	})
}

func loadGitignore(root string) (*gitignore.GitIgnore, error) {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ignore, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ignore, nil
}

// Ignored reports whether a slash-separated path relative to the root is
// excluded by the ignore patterns. The .gitignore file is not consulted.
func (fd *FileDiscovery) Ignored(relPath string, isDir bool) bool {
	return fd.shouldIgnore(relPath)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	// The tool's own state directory is never part of a run.
	if strings.HasPrefix(relPath, ".insight/") || relPath == ".insight" {
		return true
	}

	if fd.matchesAnyPattern(relPath) {
		return true
	}

	// "bin" should match pattern "bin/**"
	return fd.matchesAnyPattern(relPath + "/**")
}

// matchesAnyPattern checks if a path matches any ignore pattern. A leading
// "**/" also matches zero directories, so "**/bin/**" covers both "bin/x.cs"
// and "src/bin/x.cs".
func (fd *FileDiscovery) matchesAnyPattern(path string) bool {
	for _, cp := range fd.ignorePatterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.simplified != nil && cp.simplified.Match(path) {
			return true
		}
	}
	return false
}
