package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mvp-joe/solution-insight/internal/extractor"
)

const (
	// SchemaName identifies the mapping document format.
	SchemaName = "darwin/project-mapping"
	// SchemaVersion is the version of the mapping document format.
	SchemaVersion = "1.2"

	// MethodKind is the serialized kind of method and constructor entries.
	MethodKind = "Method"

	// FilePrefix is the prefix of the dated mapping file name.
	FilePrefix = "ProjectMapping"
)

// Document is the complete project mapping of one run.
type Document struct {
	Schema         string       `json:"schema"`
	SchemaVersion  string       `json:"schemaVersion"`
	GeneratedAtUTC time.Time    `json:"generatedAtUtc"`
	Root           string       `json:"root"`
	Files          []FileResult `json:"files"`
}

// FileResult lists the members found in one file. Members is empty, never
// nil, for files that are listed but not parsed.
type FileResult struct {
	FilePath string   `json:"filePath"`
	Members  []Member `json:"members"`
}

// Member is one serialized entry: a type, or a method or constructor of the
// type entry before it.
type Member struct {
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	Signature      string `json:"signature"`
	SummaryComment string `json:"summaryComment"`
}

// Flatten interleaves each type with its methods and constructors in
// declaration order.
func Flatten(types []extractor.TypeRecord) []Member {
	members := []Member{}
	for _, t := range types {
		members = append(members, Member{
			Name:           t.Name,
			Kind:           t.Kind.String(),
			Signature:      t.Signature,
			SummaryComment: deref(t.Comment),
		})
		for _, m := range t.Members {
			members = append(members, Member{
				Name:           m.Name(),
				Kind:           MethodKind,
				Signature:      m.SignatureLine,
				SummaryComment: deref(m.Comment),
			})
		}
	}
	return members
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Encode writes doc as indented JSON. HTML escaping is disabled so generic
// signatures keep their angle brackets.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}
	return nil
}

// Marshal returns the encoded form of doc.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
