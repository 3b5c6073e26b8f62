package extractor

import (
	"html"
	"regexp"
	"strings"
)

var (
	// docTagPattern matches the documentation tags C# doc comments use most.
	docTagPattern = regexp.MustCompile(`(?is)</?(?:summary|remarks|para|list|item|c|see|typeparam|inheritdoc)\b[^>]*>`)

	// genericTagPattern matches any remaining <tag ...>, </tag> or <tag/>.
	genericTagPattern = regexp.MustCompile(`(?s)</?[A-Za-z][^<>]*>`)

	// whitespacePattern also covers Unicode spaces such as a decoded &nbsp;.
	whitespacePattern = regexp.MustCompile(`[\s\v\p{Z}\x{85}]+`)
)

// Clean turns a raw comment blob into a single line of plain text.
//
// Entities are decoded, documentation markup is removed, comment leaders
// (//, ///, /* */) are stripped and whitespace is collapsed. The steps are
// repeated until the text stops changing, so Clean(Clean(x)) == Clean(x).
// Malformed markup is kept as literal text. Returns "" when nothing is left.
func Clean(raw string) string {
	text := raw
	for {
		next := cleanOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

// Condense collapses all whitespace runs (including newlines and tabs) to a
// single space and trims both ends.
func Condense(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

func cleanOnce(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	decoded := html.UnescapeString(text)
	noTags := docTagPattern.ReplaceAllString(decoded, " ")
	noTags = genericTagPattern.ReplaceAllString(noTags, " ")

	return Condense(stripCommentLeaders(noTags))
}

// stripCommentLeaders removes line comment leaders and block comment
// delimiters at the start of each line, plus the '*' continuation prefix
// used inside block comments.
func stripCommentLeaders(text string) string {
	lines := strings.Split(text, "\n")
	inBlock := false

	for i, line := range lines {
		t := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(t, "///"):
			t = t[3:]
		case strings.HasPrefix(t, "//"):
			t = t[2:]
		case strings.HasPrefix(t, "/*"):
			t = t[2:]
			for strings.HasPrefix(t, "*") && !strings.HasPrefix(t, "*/") {
				t = t[1:]
			}
			inBlock = true
		case inBlock && strings.HasPrefix(t, "*") && !strings.HasPrefix(t, "*/"):
			t = t[1:]
		}

		if inBlock {
			if idx := strings.Index(t, "*/"); idx >= 0 {
				t = t[:idx] + t[idx+2:]
				inBlock = false
			}
		}

		lines[i] = t
	}

	return strings.Join(lines, "\n")
}
