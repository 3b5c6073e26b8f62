package extractor

import "strings"

// Kind is the declaration category of a type.
type Kind int

const (
	KindUnknown Kind = iota
	KindClass
	KindInterface
	KindStruct
	KindRecord
)

// String returns the name used for the kind in the mapping document.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindInterface:
		return "Interface"
	case KindStruct:
		return "Struct"
	case KindRecord:
		return "Record"
	default:
		return "Type"
	}
}

// Keyword returns the lowercase declaration keyword used in signatures.
// Unrecognized kinds render as "type".
func (k Kind) Keyword() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindStruct:
		return "struct"
	case KindRecord:
		return "record"
	default:
		return "type"
	}
}

// TypeRecord is one declared type with its direct method and constructor members.
type TypeRecord struct {
	Name      string
	Kind      Kind
	Signature string

	// Comment is nil when no leading comment was found or type comments are disabled.
	Comment *string

	// Members holds declarations from the type's own body only, in source order.
	Members []MemberRecord
}

// MemberRecord is one method or constructor.
type MemberRecord struct {
	SignatureLine string
	Comment       *string
	IsConstructor bool
}

// Name recovers the member name from its signature line.
func (m MemberRecord) Name() string {
	return NameFromSignature(m.SignatureLine)
}

// NameFromSignature returns the last whitespace-delimited token before the first '('.
// Example: "public async Task<Guid> HandleAsync(Command cmd)" -> "HandleAsync"
func NameFromSignature(signature string) string {
	beforeParen, _, _ := strings.Cut(signature, "(")
	tokens := strings.Fields(beforeParen)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}
