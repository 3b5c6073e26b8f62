package dump

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/solution-insight/internal/discovery"
	"github.com/mvp-joe/solution-insight/internal/output"
)

// Test Plan for Build:
// - Header describes the format with the root and the subfolder flag
// - Each file is wrapped in START/END markers with its absolute path
// - Content is copied byte for byte, CRLF included
// - A newline is added before END only when content lacks a trailing \n or \r
// - Files are emitted in case-insensitive path order
// - Missing root returns ErrRootNotFound
// - Read failures return IOError with the file path

func writeFiles(t *testing.T, root string, files map[string]string) []discovery.File {
	t.Helper()
	var out []discovery.File
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		out = append(out, discovery.File{Path: path, RelPath: filepath.ToSlash(rel), Ext: strings.ToLower(filepath.Ext(rel))})
	}
	return out
}

func TestBuild_Header(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	data, err := Build(root, nil, nil, Options{IncludeSubdirectories: true})
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "### Solution Insight for AI – Full Code Extract\n\nFormat:\n"))
	assert.Contains(t, text, "-----8<----- [FILE START] <FULL_PATH> -----\n")
	assert.Contains(t, text, "-----8<----- [FILE END]   <FULL_PATH> -----\n")
	assert.Contains(t, text, "- File types included: .cs, .cshtml\n")
	assert.Contains(t, text, "Root: "+root+"\n")
	assert.True(t, strings.HasSuffix(text, "Include subfolders: true\n\n"))
}

func TestBuild_Blocks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := writeFiles(t, root, map[string]string{
		"b.cs":               "class B {}\n",
		"A.cs":               "class A {}",
		"Views/Index.cshtml": "<h1>Hi</h1>\r\n",
		"Old.cs":             "class Old {}\r",
	})

	data, err := Build(root, files, discovery.OSReader{}, Options{IncludeSubdirectories: true})
	require.NoError(t, err)
	text := string(data)

	a := filepath.Join(root, "A.cs")
	b := filepath.Join(root, "b.cs")
	old := filepath.Join(root, "Old.cs")
	view := filepath.Join(root, "Views", "Index.cshtml")

	assert.Contains(t, text,
		"-----8<----- [FILE START] "+a+" -----\nclass A {}\n-----8<----- [FILE END]   "+a+" -----\n\n",
		"newline is inserted when missing")
	assert.Contains(t, text,
		"-----8<----- [FILE START] "+b+" -----\nclass B {}\n-----8<----- [FILE END]   "+b+" -----\n\n",
		"no extra newline after \\n")
	assert.Contains(t, text,
		"-----8<----- [FILE START] "+old+" -----\nclass Old {}\r-----8<----- [FILE END]   "+old+" -----\n",
		"no extra newline after \\r")
	assert.Contains(t, text, "<h1>Hi</h1>\r\n-----8<----- [FILE END]   "+view)

	ia := strings.Index(text, "[FILE START] "+a)
	ib := strings.Index(text, "[FILE START] "+b)
	io := strings.Index(text, "[FILE START] "+old)
	iv := strings.Index(text, "[FILE START] "+view)
	assert.True(t, ia < ib && ib < io && io < iv, "files must be in case-insensitive order")
}

func TestBuild_EmptyFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := writeFiles(t, root, map[string]string{"Empty.cs": ""})

	data, err := Build(root, files, nil, Options{})
	require.NoError(t, err)

	p := filepath.Join(root, "Empty.cs")
	assert.Contains(t, string(data), "-----8<----- [FILE START] "+p+" -----\n\n-----8<----- [FILE END]   "+p+" -----\n")
	assert.Contains(t, string(data), "Include subfolders: false\n")
}

func TestBuild_RootNotFound(t *testing.T) {
	t.Parallel()

	data, err := Build(filepath.Join(t.TempDir(), "nope"), nil, nil, Options{})
	assert.ErrorIs(t, err, discovery.ErrRootNotFound)
	assert.Nil(t, data)
}

func TestBuild_ReadFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	missing := discovery.File{Path: filepath.Join(root, "Gone.cs"), RelPath: "Gone.cs", Ext: ".cs"}

	_, err := Build(root, []discovery.File{missing}, nil, Options{})
	require.Error(t, err)

	var ioErr *output.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, missing.Path, ioErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
