package extractor

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
)

// Options controls what the extractor collects.
type Options struct {
	IncludeTypeComments   bool
	IncludeMemberComments bool

	// StrictSyntax turns any syntax error in the tree into a ParseError.
	// By default a file fails only when its tree has errors and no type
	// declaration could be recovered from it.
	StrictSyntax bool
}

// Extractor parses C# source and returns its type declarations.
type Extractor struct {
	opts     Options
	language *sitter.Language
}

// New creates a C# extractor.
func New(opts Options) *Extractor {
	return &Extractor{
		opts:     opts,
		language: sitter.NewLanguage(csharp.Language()),
	}
}

// Options returns the options the extractor was created with.
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract parses source and returns one TypeRecord per class, interface,
// struct or record declaration, in document order. Nested types are listed
// after their parent; each type carries only the methods and constructors
// of its own body.
func (e *Extractor) Extract(ctx context.Context, path string, source []byte) ([]TypeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(source) == 0 {
		return []TypeRecord{}, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(e.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Path: path, Err: ErrNoTree}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, &ParseError{Path: path, Err: ErrNoTree}
	}
	if root.IsError() || (e.opts.StrictSyntax && root.HasError()) {
		return nil, syntaxError(path, root)
	}

	w := &declarationWalker{
		source: source,
		opts:   e.opts,
		types:  []TypeRecord{},
	}
	w.visitChildren(root)

	if len(w.types) == 0 && root.HasError() {
		return nil, syntaxError(path, root)
	}
	return w.types, nil
}

func syntaxError(path string, root *sitter.Node) *ParseError {
	perr := &ParseError{Path: path, Err: ErrSyntax}
	if bad := firstErrorNode(root); bad != nil {
		pos := bad.StartPosition()
		perr.Line = int(pos.Row) + 1
		perr.Column = int(pos.Column) + 1
	}
	return perr
}

// declKind is the declaration category of a node, resolved once per node.
type declKind int

const (
	declOther declKind = iota
	declType
	declMethod
	declConstructor
)

func classify(node *sitter.Node) (declKind, Kind) {
	switch node.Kind() {
	case "class_declaration":
		return declType, KindClass
	case "interface_declaration":
		return declType, KindInterface
	case "struct_declaration":
		return declType, KindStruct
	case "record_declaration", "record_struct_declaration":
		return declType, KindRecord
	case "method_declaration":
		return declMethod, KindUnknown
	case "constructor_declaration":
		return declConstructor, KindUnknown
	default:
		return declOther, KindUnknown
	}
}

// containerKinds are the nodes that can hold type declarations.
var containerKinds = map[string]bool{
	"compilation_unit":                  true,
	"namespace_declaration":             true,
	"file_scoped_namespace_declaration": true,
	"declaration_list":                  true,
	"preproc_if":                        true,
	"preproc_elif":                      true,
	"preproc_else":                      true,
	"ERROR":                             true,
}

// conditionalKinds wrap the declarations of #if, #elif and #else branches.
// Symbols are not evaluated, so every branch is mapped.
var conditionalKinds = map[string]bool{
	"preproc_if":   true,
	"preproc_elif": true,
	"preproc_else": true,
}

// csharpModifiers is used when a grammar release exposes modifiers as bare
// keyword tokens instead of modifier nodes.
var csharpModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "abstract": true, "sealed": true, "virtual": true,
	"override": true, "readonly": true, "unsafe": true, "extern": true,
	"async": true, "partial": true, "new": true, "volatile": true,
	"const": true, "required": true, "file": true, "ref": true,
}

type declarationWalker struct {
	source []byte
	opts   Options
	types  []TypeRecord
}

// visitChildren walks the direct children of a container in document order.
func (w *declarationWalker) visitChildren(parent *sitter.Node) {
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(uint(i))
		decl, kind := classify(child)
		switch {
		case decl == declType:
			w.addType(parent, i, child, kind)
			w.visitChildren(child)
		case containerKinds[child.Kind()]:
			w.visitChildren(child)
		}
	}
}

func (w *declarationWalker) addType(parent *sitter.Node, index int, node *sitter.Node, kind Kind) {
	name := fieldOrChild(node, "name", "identifier")

	record := TypeRecord{
		Name:      nodeText(name, w.source),
		Kind:      kind,
		Signature: typeSignature(w.modifiers(node, name), kind, nodeText(name, w.source), w.typeParameters(node)),
		Members:   []MemberRecord{},
	}
	if w.opts.IncludeTypeComments {
		record.Comment = w.leadingComment(parent, index, node, name)
	}

	if body := fieldOrChild(node, "body", "declaration_list"); body != nil {
		w.collectMembers(&record, body)
	}

	w.types = append(w.types, record)
}

// collectMembers appends the methods and constructors of container to
// record, descending into conditional compilation branches.
func (w *declarationWalker) collectMembers(record *TypeRecord, container *sitter.Node) {
	for i := 0; i < int(container.ChildCount()); i++ {
		member := container.Child(uint(i))
		if conditionalKinds[member.Kind()] {
			w.collectMembers(record, member)
			continue
		}

		decl, _ := classify(member)

		var m MemberRecord
		switch decl {
		case declMethod:
			m = MemberRecord{SignatureLine: w.methodSignature(member)}
		case declConstructor:
			m = MemberRecord{SignatureLine: w.constructorSignature(member), IsConstructor: true}
		default:
			continue
		}

		if w.opts.IncludeMemberComments {
			m.Comment = w.leadingComment(container, i, member, fieldOrChild(member, "name", "identifier"))
		}
		record.Members = append(record.Members, m)
	}
}

func (w *declarationWalker) methodSignature(node *sitter.Node) string {
	name := fieldOrChild(node, "name", "identifier")

	var constraints []string
	for _, clause := range findChildrenByType(node, "type_parameter_constraints_clause") {
		constraints = append(constraints, nodeText(clause, w.source))
	}

	return methodSignature(
		w.modifiers(node, name),
		nodeText(w.returnType(node, name), w.source),
		nodeText(name, w.source),
		w.typeParameters(node),
		nodeText(fieldOrChild(node, "parameters", "parameter_list"), w.source),
		constraints,
	)
}

func (w *declarationWalker) constructorSignature(node *sitter.Node) string {
	name := fieldOrChild(node, "name", "identifier")
	return constructorSignature(
		w.modifiers(node, name),
		nodeText(name, w.source),
		nodeText(fieldOrChild(node, "parameters", "parameter_list"), w.source),
	)
}

func (w *declarationWalker) typeParameters(node *sitter.Node) string {
	return nodeText(fieldOrChild(node, "type_parameters", "type_parameter_list"), w.source)
}

// modifiers returns the declaration's modifiers in declared order.
func (w *declarationWalker) modifiers(node, name *sitter.Node) []string {
	var mods []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if name != nil && child.StartByte() >= name.StartByte() {
			break
		}
		text := nodeText(child, w.source)
		if child.Kind() == "modifier" || (!child.IsNamed() && csharpModifiers[text]) {
			mods = append(mods, text)
		}
	}
	return mods
}

// returnType finds the method's return type node.
func (w *declarationWalker) returnType(node, name *sitter.Node) *sitter.Node {
	if t := node.ChildByFieldName("returns"); t != nil {
		return t
	}
	if t := node.ChildByFieldName("type"); t != nil {
		return t
	}

	var last *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if name != nil && child.StartByte() >= name.StartByte() {
			break
		}
		switch child.Kind() {
		case "modifier", "attribute_list", "explicit_interface_specifier", "comment":
			continue
		}
		if child.IsNamed() {
			last = child
		}
	}
	return last
}

// leadingComment collects the comments attached in front of a declaration:
// the run of comment siblings right before it and any comment inside the
// declaration ahead of its last attribute list. Comments between the
// attributes and the modifiers are not part of the documentation. Returns
// nil when nothing survives cleaning.
func (w *declarationWalker) leadingComment(parent *sitter.Node, index int, node, name *sitter.Node) *string {
	var before []string
	for i := index - 1; i >= 0; i-- {
		sibling := parent.Child(uint(i))
		if isPreprocessor(sibling) {
			continue
		}
		if sibling.Kind() != "comment" || isTrailingComment(parent, i) {
			break
		}
		before = append(before, nodeText(sibling, w.source))
	}

	parts := make([]string, 0, len(before))
	for i := len(before) - 1; i >= 0; i-- {
		parts = append(parts, before[i])
	}

	lastAttribute := -1
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if name != nil && child.StartByte() >= name.StartByte() {
			break
		}
		if child.Kind() == "attribute_list" {
			lastAttribute = i
		}
	}
	for i := 0; i < lastAttribute; i++ {
		child := node.Child(uint(i))
		if child.Kind() == "comment" {
			parts = append(parts, nodeText(child, w.source))
		}
	}

	cleaned := Clean(strings.Join(parts, "\n"))
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// isTrailingComment reports whether the comment at index starts on the
// line where the previous token ends. Such a comment belongs to that token.
func isTrailingComment(parent *sitter.Node, index int) bool {
	if index == 0 {
		return false
	}
	prev := parent.Child(uint(index - 1))
	if prev.Kind() == "comment" || isPreprocessor(prev) {
		return false
	}
	end := prev.EndPosition()
	// A token ending at column 0 closed the previous line, as the newline
	// after an #if condition does.
	return end.Column > 0 && end.Row == parent.Child(uint(index)).StartPosition().Row
}

// isPreprocessor reports whether node is a single directive line such as
// #region or #pragma. Conditional blocks hold declarations and are not
// skipped over.
func isPreprocessor(node *sitter.Node) bool {
	return strings.HasPrefix(node.Kind(), "preproc_") && !conditionalKinds[node.Kind()]
}
