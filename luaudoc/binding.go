package luaudoc

import (
	"regexp"
	"strings"

	"github.com/arjunmahishi/luaudoc/types"
)

// Binding is the structural shape of the statement that follows a doc block.
type Binding struct {
	Kind       types.Kind // function, type or property
	Name       string
	Within     string
	IsMethod   bool
	Params     []BindingParam
	ReturnType string
	TypeAlias  string
	TypeParams []TypeParam
	Table      *TableBody // set for aliases whose type is a table
	Line       string
	LineNumber int
}

// BindingParam is one formal parameter of a function binding.
type BindingParam struct {
	Name string
	Type string
}

var (
	functionNamePattern   = regexp.MustCompile(`^function\s+([A-Za-z0-9_.:]+)\s*`)
	functionAssignPattern = regexp.MustCompile(`^([A-Za-z0-9_.]+)\s*=\s*function\b\s*`)
	typeAliasPattern      = regexp.MustCompile(`^(?:export\s+)?type\s+([A-Za-z_][A-Za-z0-9_]*)\s*`)
	propertyPattern       = regexp.MustCompile(`^([A-Za-z0-9_.]+)\s*=([^=]|$)`)
	longCommentPattern    = regexp.MustCompile(`^--\[(=*)\[`)
)

// luaKeywords end a return type annotation when a one-line body follows.
var luaKeywords = []string{"return", "end", "local", "if", "for", "while", "repeat", "do"}

// findBinding looks for the binding of a block. Blank lines and ordinary
// comments are skipped; reaching the line stop (1-based, 0 for none) means
// there is no binding.
func findBinding(lines []string, block DocBlock, stop int) *Binding {
	for index := block.EndLine; index < len(lines); index++ {
		if stop > 0 && index+1 >= stop {
			return nil
		}

		trimmed := strings.TrimSpace(lines[index])
		if trimmed == "" {
			continue
		}
		if m := longCommentPattern.FindStringSubmatch(trimmed); m != nil {
			closer := "]" + m[1] + "]"
			if !strings.Contains(trimmed[len(m[0]):], closer) {
				index = skipLongComment(lines, index, closer)
			}
			continue
		}
		if strings.HasPrefix(trimmed, "--") {
			continue
		}

		return parseBindingAt(lines, index)
	}
	return nil
}

// skipLongComment returns the index of the line that closes a --[[ comment.
func skipLongComment(lines []string, start int, closer string) int {
	for index := start + 1; index < len(lines); index++ {
		if strings.Contains(lines[index], closer) {
			return index
		}
	}
	return len(lines) - 1
}

// parseBindingAt classifies lines[index] as a function, type alias or
// property binding.
func parseBindingAt(lines []string, index int) *Binding {
	line := lines[index]
	clean := cutComment(line)

	binding := parseFunctionBinding(clean)
	if binding == nil {
		binding = parseTypeAliasBinding(lines, index, clean)
	}
	if binding == nil {
		binding = parsePropertyBinding(clean)
	}
	if binding == nil {
		return nil
	}

	binding.Line = line
	binding.LineNumber = index + 1
	return binding
}

func cutComment(line string) string {
	if idx := strings.Index(line, "--"); idx != -1 {
		return line[:idx]
	}
	return line
}

func parseFunctionBinding(line string) *Binding {
	trimmed := strings.TrimSpace(line)

	pattern := functionNamePattern
	m := pattern.FindStringSubmatchIndex(trimmed)
	if m == nil {
		pattern = functionAssignPattern
		m = pattern.FindStringSubmatchIndex(trimmed)
	}
	if m == nil {
		return nil
	}

	nameRaw := trimmed[m[2]:m[3]]
	rest := strings.TrimSpace(trimmed[m[1]:])

	if strings.HasPrefix(rest, "<") {
		closeIdx := findMatchingAngle(rest, 0)
		if closeIdx == -1 {
			return nil
		}
		rest = strings.TrimSpace(rest[closeIdx+1:])
	}

	closeIdx := findMatchingParen(rest, 0)
	if closeIdx == -1 {
		return nil
	}
	paramsRaw := rest[1:closeIdx]

	returnType := ""
	if tail := strings.TrimSpace(rest[closeIdx+1:]); strings.HasPrefix(tail, ":") {
		returnType = cutAtKeyword(strings.TrimSpace(tail[1:]))
	}

	return buildFunctionBinding(nameRaw, paramsRaw, returnType)
}

func buildFunctionBinding(nameRaw, paramsRaw, returnType string) *Binding {
	b := &Binding{
		Kind:       types.KindFunction,
		Name:       nameRaw,
		Params:     parseParamList(paramsRaw),
		ReturnType: returnType,
	}

	if sep := strings.LastIndexAny(nameRaw, ".:"); sep != -1 {
		b.Name = nameRaw[sep+1:]
		b.IsMethod = nameRaw[sep] == ':'

		within, proto := stripPrototype(nameRaw[:sep])
		b.Within = within
		b.IsMethod = b.IsMethod || proto
	}
	if !b.IsMethod && len(b.Params) > 0 && b.Params[0].Name == "self" {
		b.IsMethod = true
	}
	return b
}

// parseParamList splits "a: number, b, ...: any" into parameters.
func parseParamList(raw string) []BindingParam {
	var params []BindingParam
	for _, part := range splitTopLevel(raw, ',') {
		if eq := findTopLevelChar(part, '='); eq != -1 {
			part = strings.TrimSpace(part[:eq])
		}

		name, typ := part, ""
		if colon := findTopLevelChar(part, ':'); colon != -1 {
			name, typ = strings.TrimSpace(part[:colon]), strings.TrimSpace(part[colon+1:])
		}
		if name == "" {
			continue
		}
		params = append(params, BindingParam{Name: name, Type: typ})
	}
	return params
}

// cutAtKeyword trims a return type at the first top-level Lua keyword, which
// starts the body of a one-line function.
func cutAtKeyword(text string) string {
	var d depthTracker
	for i := 0; i < len(text); i++ {
		top := d.step(text[i])
		if !top || (i > 0 && !isSpace(text[i-1])) {
			continue
		}
		for _, kw := range luaKeywords {
			if strings.HasPrefix(text[i:], kw) && (i+len(kw) == len(text) || !isIdentByte(text[i+len(kw)])) {
				return strings.TrimSpace(text[:i])
			}
		}
	}
	return strings.TrimSpace(text)
}

type typeAliasDecl struct {
	name       string
	typeText   string
	typeOffset int // index of typeText within the line
	typeParams []TypeParam
	isTable    bool
}

// parseTypeAlias matches "[export] type Name<T> = text".
func parseTypeAlias(line string) *typeAliasDecl {
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	trimmed := line[indent:]

	m := typeAliasPattern.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return nil
	}
	decl := &typeAliasDecl{name: trimmed[m[2]:m[3]]}

	offset := m[1]
	rest := trimmed[offset:]
	if strings.HasPrefix(rest, "<") {
		closeIdx := findMatchingAngle(rest, 0)
		if closeIdx == -1 {
			return nil
		}
		decl.typeParams = parseTypeParameters(rest[1:closeIdx])
		offset += closeIdx + 1
		rest = trimmed[offset:]
	}

	afterSpace := strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(afterSpace, "=") {
		return nil
	}
	offset += len(rest) - len(afterSpace) + 1
	rest = trimmed[offset:]
	typeText := strings.TrimSpace(rest)
	if typeText == "" {
		return nil
	}

	decl.typeText = typeText
	decl.typeOffset = indent + offset + (len(rest) - len(strings.TrimLeft(rest, " \t")))
	decl.isTable = strings.Contains(typeText, "{") || strings.HasPrefix(typeText, "setmetatable")
	return decl
}

func parseTypeAliasBinding(lines []string, index int, clean string) *Binding {
	decl := parseTypeAlias(clean)
	if decl == nil {
		return nil
	}

	b := &Binding{
		Kind:       types.KindType,
		Name:       decl.name,
		TypeAlias:  decl.typeText,
		TypeParams: decl.typeParams,
	}
	if decl.isTable {
		b.Table = scanTable(lines, index, decl.typeOffset)
		b.TypeAlias = b.Table.Text
	}
	return b
}

func parsePropertyBinding(line string) *Binding {
	m := propertyPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil
	}
	nameRaw := m[1]
	dot := strings.LastIndexByte(nameRaw, '.')
	if dot == -1 {
		return nil
	}
	within, _ := stripPrototype(nameRaw[:dot])
	return &Binding{Kind: types.KindProperty, Name: nameRaw[dot+1:], Within: within}
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
