package extractor

import "strings"

// typeSignature renders "[modifiers ]<keyword> <name>[<type-parameters>]".
func typeSignature(modifiers []string, kind Kind, name, typeParams string) string {
	var sb strings.Builder
	writeModifiers(&sb, modifiers)
	sb.WriteString(kind.Keyword())
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString(typeParams)
	return Condense(sb.String())
}

// methodSignature renders
// "[modifiers ]<returnType> <name>[<typeParams>]<params>[ <constraint>...]".
func methodSignature(modifiers []string, returnType, name, typeParams, params string, constraints []string) string {
	var sb strings.Builder
	writeModifiers(&sb, modifiers)
	sb.WriteString(returnType)
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString(typeParams)
	sb.WriteString(params)
	for _, c := range constraints {
		sb.WriteString(" ")
		sb.WriteString(strings.TrimSpace(c))
	}
	return Condense(sb.String())
}

// constructorSignature renders "[modifiers ]<name><params>".
func constructorSignature(modifiers []string, name, params string) string {
	var sb strings.Builder
	writeModifiers(&sb, modifiers)
	sb.WriteString(name)
	sb.WriteString(params)
	return Condense(sb.String())
}

func writeModifiers(sb *strings.Builder, modifiers []string) {
	mods := strings.TrimSpace(strings.Join(modifiers, " "))
	if mods == "" {
		return
	}
	sb.WriteString(mods)
	sb.WriteString(" ")
}
