package luaudoc

import (
	"regexp"
	"strings"

	"github.com/arjunmahishi/luaudoc/types"
)

var tagLinePattern = regexp.MustCompile(`^@([A-Za-z_][A-Za-z0-9_]*)\s*(.*)$`)

// tagParser turns the lines of one DocBlock into a DocRecord.
type tagParser struct {
	rec  *DocRecord
	cont *detail // open multi-line tag, if any
}

type tagHandler func(p *tagParser, name, value string)

// tagHandlers maps tag names to handlers. Names not listed become custom tags.
var tagHandlers map[string]tagHandler

func init() {
	tagHandlers = map[string]tagHandler{
		"class":       (*tagParser).handleClass,
		"interface":   (*tagParser).handleInterface,
		"prop":        (*tagParser).handleProp,
		"type":        (*tagParser).handleType,
		"function":    (*tagParser).handleFunction,
		"method":      (*tagParser).handleFunction,
		"constructor": (*tagParser).handleFunction,
		"event":       (*tagParser).handleEvent,
		"within":      (*tagParser).handleWithin,
		"file":        (*tagParser).handleFile,
		"option":      (*tagParser).handleOption,
		"field":       (*tagParser).handleField,
		"param":       (*tagParser).handleParam,
		"variant":     (*tagParser).handleVariant,
		"return":      (*tagParser).handleReturn,
		"error":       (*tagParser).handleError,
		"yields":      (*tagParser).handleFlag,
		"unreleased":  (*tagParser).handleFlag,
		"readonly":    (*tagParser).handleFlag,
		"private":     (*tagParser).handleFlag,
		"ignore":      (*tagParser).handleFlag,
		"server":      (*tagParser).handleRealm,
		"client":      (*tagParser).handleRealm,
		"plugin":      (*tagParser).handleRealm,
		"tag":         (*tagParser).handleList,
		"category":    (*tagParser).handleList,
		"group":       (*tagParser).handleList,
		"extends":     (*tagParser).handleList,
		"include":     (*tagParser).handleList,
		"snippet":     (*tagParser).handleList,
		"alias":       (*tagParser).handleList,
		"since":       (*tagParser).handleValue,
		"__index":     (*tagParser).handleValue,
		"inheritDoc":  (*tagParser).handleValue,
		"deprecated":  (*tagParser).handleDeprecated,
		"external":    (*tagParser).handleExternal,
	}
}

// parseDocRecord parses the content lines of a block.
func parseDocRecord(contentLines []string) *DocRecord {
	p := &tagParser{rec: &DocRecord{}}
	inFence := false

	for _, line := range dedentLines(contentLines) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}

		if p.cont != nil && !inFence && p.continues(line) {
			continue
		}
		p.cont = nil

		if !inFence && strings.HasPrefix(trimmed, "@") {
			p.handleTagLine(trimmed)
			continue
		}
		if !inFence && isFieldLine(trimmed) {
			name, rest := splitTagValue(trimmed[1:])
			typePart, desc := splitDoubleDash(rest)
			p.rec.Fields = append(p.rec.Fields, FieldEntry{Name: name, Type: typePart, Description: desc})
			continue
		}

		p.rec.DescriptionLines = append(p.rec.DescriptionLines, strings.TrimRight(line, " \t"))
	}

	return p.rec
}

// continues feeds line to the open continuation when it belongs there.
func (p *tagParser) continues(line string) bool {
	indent := leadingIndent(line)
	after := line[len(indent):]
	afterTrim := strings.TrimSpace(after)

	if p.cont.allowDefault && hasWordPrefix(afterTrim, "@default") {
		p.cont.setDefault(afterTrim[len("@default"):])
		return true
	}
	if !strings.Contains(indent, "\t") && len(indent) < 2 {
		return false
	}
	if strings.HasPrefix(afterTrim, "@") || strings.HasPrefix(afterTrim, ".") {
		return false
	}
	p.cont.addLine(after)
	return true
}

func (p *tagParser) handleTagLine(line string) {
	m := tagLinePattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	name, value := m[1], strings.TrimSpace(m[2])
	if handler, ok := tagHandlers[name]; ok {
		handler(p, name, value)
		return
	}
	p.handleCustom(name, value)
}

func (p *tagParser) handleClass(_, value string) {
	p.rec.TypeTags = append(p.rec.TypeTags, TypeTag{Kind: types.KindClass, Name: value})
}

func (p *tagParser) handleInterface(_, value string) {
	p.rec.TypeTags = append(p.rec.TypeTags, TypeTag{Kind: types.KindInterface, Name: value})
}

func (p *tagParser) handleProp(_, value string) {
	rawName, rest := splitTagValue(value)
	member := parseMemberName(rawName)
	p.inheritWithin(member.within)
	p.rec.TypeTags = append(p.rec.TypeTags, TypeTag{Kind: types.KindProperty, Name: member.name, Type: rest})
}

func (p *tagParser) handleType(_, value string) {
	rawName, rest := splitTagValue(value)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))
	name, params := parseTypeTagName(rawName)
	p.rec.TypeTags = append(p.rec.TypeTags, TypeTag{
		Kind:       types.KindType,
		Name:       name,
		Type:       rest,
		TypeParams: params,
	})
}

func (p *tagParser) handleFunction(tag, value string) {
	member := parseMemberName(value)
	p.inheritWithin(member.within)

	tt := TypeTag{Kind: types.KindFunction, Name: member.name, IsMethod: member.isMethod}
	switch tag {
	case "method":
		tt.IsMethod = true
	case "constructor":
		tt.Kind = types.KindConstructor
		tt.IsMethod = false
	}
	p.rec.TypeTags = append(p.rec.TypeTags, tt)
}

func (p *tagParser) handleEvent(_, value string) {
	p.rec.State.Event = true
	if value == "" {
		return
	}
	member := parseMemberName(value)
	p.inheritWithin(member.within)
	p.rec.TypeTags = append(p.rec.TypeTags, TypeTag{Kind: types.KindEvent, Name: member.name, IsMethod: member.isMethod})
}

func (p *tagParser) handleWithin(_, value string) {
	p.rec.State.Within = value
}

func (p *tagParser) handleFile(_, _ string) {
	p.rec.State.FileMeta = true
}

func (p *tagParser) handleOption(_, value string) {
	name, rest := splitTagValue(value)
	if key, val, ok := strings.Cut(name, "="); ok {
		name, rest = key, strings.TrimSpace(val+" "+rest)
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))

	state := &p.rec.State
	state.FileMeta = true
	switch name {
	case "within.default":
		state.WithinDefault = rest
		state.HasWithinDefault = true
	case "within.require":
		if v, ok := parseOptionBool(rest, true); ok {
			state.WithinRequire = v
			state.HasWithinRequire = true
		}
	}
}

func (p *tagParser) handleField(_, value string) {
	name, rest := splitTagValue(value)
	typePart, desc := splitTypeDescription(rest)
	p.rec.Fields = append(p.rec.Fields, FieldEntry{Name: name, Type: typePart, Description: desc})
}

func (p *tagParser) handleParam(_, value string) {
	name, rest := splitTagValue(value)
	rest, def, hasDef := cutInlineDefault(rest)
	typePart, desc := splitTypeDescription(rest)

	param := &ParamEntry{Name: name, Type: typePart}
	param.allowDefault = true
	if hasDef {
		param.setDefault(def)
	}
	if desc != "" {
		param.Description = append(param.Description, desc)
	}
	p.rec.Params = append(p.rec.Params, param)
	p.cont = &param.detail
}

func (p *tagParser) handleVariant(_, value string) {
	rest, def, hasDef := cutInlineDefault(value)
	typePart, desc := splitTypeDescription(rest)

	variant := &VariantEntry{Value: typePart}
	variant.allowDefault = true
	if hasDef {
		variant.setDefault(def)
	}
	if desc != "" {
		variant.Description = append(variant.Description, desc)
	}
	p.rec.Variants = append(p.rec.Variants, variant)
	p.cont = &variant.detail
}

func (p *tagParser) handleReturn(_, value string) {
	typePart, desc := splitTypeDescription(value)
	ret := &ReturnEntry{Type: typePart}
	if desc != "" {
		ret.Description = append(ret.Description, desc)
	}
	p.rec.Returns = append(p.rec.Returns, ret)
	p.cont = &ret.detail
}

func (p *tagParser) handleError(_, value string) {
	typePart, desc := splitDoubleDash(value)
	e := &ReturnEntry{Type: typePart}
	if desc != "" {
		e.Description = append(e.Description, desc)
	}
	p.rec.Errors = append(p.rec.Errors, e)
	p.cont = &e.detail
}

func (p *tagParser) handleFlag(tag, _ string) {
	state := &p.rec.State
	switch tag {
	case "yields":
		state.Yields = true
	case "unreleased":
		state.Unreleased = true
	case "readonly":
		state.Readonly = true
	case "private":
		state.Visibility = types.VisibilityPrivate
	case "ignore":
		state.Visibility = types.VisibilityIgnored
	}
}

func (p *tagParser) handleRealm(tag, _ string) {
	p.rec.Realms = append(p.rec.Realms, tag)
}

func (p *tagParser) handleList(tag, value string) {
	if value == "" {
		return
	}
	state := &p.rec.State
	switch tag {
	case "tag":
		p.rec.Tags = append(p.rec.Tags, value)
	case "category":
		state.Categories = append(state.Categories, value)
	case "group":
		state.Groups = append(state.Groups, value)
	case "extends":
		state.Extends = append(state.Extends, value)
	case "include":
		state.Includes = append(state.Includes, value)
	case "snippet":
		state.Snippets = append(state.Snippets, value)
	case "alias":
		state.Aliases = append(state.Aliases, value)
	}
}

func (p *tagParser) handleValue(tag, value string) {
	state := &p.rec.State
	switch tag {
	case "since":
		state.Since = value
	case "__index":
		state.IndexName = value
	case "inheritDoc":
		state.InheritDoc = value
	}
}

func (p *tagParser) handleDeprecated(_, value string) {
	version, desc := splitDoubleDash(value)
	p.rec.State.Deprecated = &Deprecation{Version: version, Description: desc}
}

func (p *tagParser) handleExternal(_, value string) {
	name, url := splitTagValue(value)
	if name != "" && url != "" {
		p.rec.Externals = append(p.rec.Externals, External{Name: name, URL: url})
	}
}

func (p *tagParser) handleCustom(name, value string) {
	typePart, desc := splitDoubleDash(value)
	custom := &CustomTag{Name: name, Value: typePart}
	if desc != "" {
		custom.Description = append(custom.Description, desc)
	}
	p.rec.CustomTags = append(p.rec.CustomTags, custom)
	p.cont = &custom.detail
}

// inheritWithin records an owner named inside a member tag unless @within
// already set one.
func (p *tagParser) inheritWithin(within string) {
	if within != "" && p.rec.State.Within == "" {
		p.rec.State.Within = within
	}
}

type memberName struct {
	within   string
	name     string
	isMethod bool
}

// parseMemberName splits "A.B:c", "A.B.c", "~:c" and "A.prototype.c".
func parseMemberName(value string) memberName {
	value = strings.TrimSpace(value)
	if value == "" {
		return memberName{}
	}
	if rest, ok := strings.CutPrefix(value, "~:"); ok {
		return memberName{within: currentClassMarker, name: rest, isMethod: true}
	}
	if rest, ok := strings.CutPrefix(value, "~."); ok {
		return memberName{within: currentClassMarker, name: rest}
	}

	colon := strings.LastIndexByte(value, ':')
	dot := strings.LastIndexByte(value, '.')
	if colon != -1 && colon > dot {
		return memberName{within: value[:colon], name: value[colon+1:], isMethod: true}
	}
	if dot != -1 {
		within, isMethod := stripPrototype(value[:dot])
		return memberName{within: within, name: value[dot+1:], isMethod: isMethod}
	}
	return memberName{name: value}
}

// parseTypeTagName splits "Name<T, U = V>" into the name and its generics.
func parseTypeTagName(raw string) (string, []TypeParam) {
	text := strings.TrimSpace(raw)
	open := strings.IndexByte(text, '<')
	if open == -1 {
		return text, nil
	}
	closeIdx := findMatchingAngle(text, open)
	if closeIdx == -1 || closeIdx != len(text)-1 {
		return text, nil
	}
	name := strings.TrimSpace(text[:open])
	if name == "" {
		name = text
	}
	return name, parseTypeParameters(text[open+1 : closeIdx])
}

// parseTypeParameters parses "T: C = D, U" into generic parameters.
func parseTypeParameters(text string) []TypeParam {
	var params []TypeParam
	for _, entry := range splitTopLevel(text, ',') {
		left, def := entry, ""
		if eq := findTopLevelChar(entry, '='); eq != -1 {
			left, def = strings.TrimSpace(entry[:eq]), strings.TrimSpace(entry[eq+1:])
		}
		name, typ := left, ""
		if colon := findTopLevelChar(left, ':'); colon != -1 {
			name, typ = strings.TrimSpace(left[:colon]), strings.TrimSpace(left[colon+1:])
		}
		if name == "" {
			continue
		}
		params = append(params, TypeParam{Name: name, Type: typ, Default: def})
	}
	return params
}

// parseOptionBool reads a boolean option value; an empty value yields
// fallback. ok is false for unrecognized text.
func parseOptionBool(value string, fallback bool) (v bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return fallback, true
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

func isFieldLine(trimmed string) bool {
	if len(trimmed) < 2 || trimmed[0] != '.' {
		return false
	}
	c := trimmed[1]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
