package output

import (
	"path/filepath"
	"strings"
)

const fallbackStem = "FullCodeExtract"

// ToForwardSlashes replaces every backslash with a forward slash.
func ToForwardSlashes(path string) string {
	if strings.TrimSpace(path) == "" {
		return path
	}
	return strings.ReplaceAll(path, `\`, "/")
}

// FileNameFromInputPath derives the extract file name from the directory
// being extracted. Everything up to and including the first "src"
// directory is dropped (or the volume root when there is none), the
// remaining separators become dots and invalid characters become "_":
//
//	/home/me/Darwin/src/Darwin.Web/Areas/Admin -> Darwin.Web.Areas.Admin.txt
func FileNameFromInputPath(inputPath string) string {
	full := inputPath
	if abs, err := filepath.Abs(inputPath); err == nil {
		full = abs
	}
	full = strings.TrimRight(ToForwardSlashes(full), "/")

	var tail string
	if idx := strings.Index(strings.ToLower(full), "/src/"); idx >= 0 {
		tail = full[idx+len("/src/"):]
	} else {
		tail = strings.TrimPrefix(full, ToForwardSlashes(filepath.VolumeName(full)))
	}

	stem := strings.ReplaceAll(strings.Trim(tail, "/"), "/", ".")
	stem = strings.Map(func(r rune) rune {
		if isInvalidFileNameRune(r) {
			return '_'
		}
		return r
	}, stem)

	if strings.TrimSpace(stem) == "" {
		stem = fallbackStem
	}
	return stem + ".txt"
}

// isInvalidFileNameRune matches the characters no common filesystem accepts
// in a file name.
func isInvalidFileNameRune(r rune) bool {
	if r < 0x20 {
		return true
	}
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return false
}
