package luaudoc

import (
	"path"
	"strings"

	"github.com/arjunmahishi/luaudoc/types"
)

// Diagnostic messages.
const (
	msgClassMissing     = "@class missing for this file."
	msgWithinAmbiguous  = "@within missing for ambiguous class ownership."
	msgReadonlyMisuse   = "@readonly used on non-property symbol."
	msgParamMismatch    = "@param does not match function parameters."
	msgUnterminatedLong = "--[=[ block is never closed."
)

// extraction collects the symbols and diagnostics of one file.
type extraction struct {
	path    string
	lines   []string
	tables  []tableRange
	file    fileState
	symbols []types.Symbol
	diags   []types.Diagnostic
}

// extractSymbols runs every doc block of a file through the tag parser,
// binding resolver and symbol builder.
func extractSymbols(filePath string, content []byte) ([]types.Symbol, []types.Diagnostic) {
	lines := splitLines(string(content))
	x := &extraction{
		path:   filePath,
		lines:  lines,
		tables: findTableTypes(lines),
	}

	blocks := extractDocBlocks(lines)
	for i, block := range blocks {
		if insideTable(x.tables, block.StartLine) {
			continue
		}
		stop := 0
		if i+1 < len(blocks) {
			stop = blocks[i+1].StartLine
		}
		x.processBlock(i, block, stop)
	}

	x.addClassTableProperties()
	applyInheritDocs(x.symbols)

	if x.symbols == nil {
		x.symbols = []types.Symbol{}
	}
	return x.symbols, x.diags
}

func (x *extraction) report(level types.Level, line int, message string) {
	x.diags = append(x.diags, types.Diagnostic{Level: level, File: x.path, Line: line, Message: message})
}

func (x *extraction) processBlock(index int, block DocBlock, stop int) {
	if block.Long && block.EndLine == len(x.lines) && !strings.Contains(x.lines[block.EndLine-1], longCloseMarker) {
		x.report(types.LevelInfo, block.StartLine, msgUnterminatedLong)
	}

	rec := parseDocRecord(block.Lines)
	if index == 0 && x.isImplicitClass(block, rec) {
		rec.TypeTags = append([]TypeTag{{Kind: types.KindClass, Name: classNameFromPath(x.path)}}, rec.TypeTags...)
	}

	x.file.applyOptions(&rec.State)
	if rec.State.FileMeta && len(rec.TypeTags) == 0 {
		return
	}
	for _, tt := range rec.TypeTags {
		if tt.Kind == types.KindClass {
			x.file.declareClass(tt.Name)
		}
	}

	binding := x.bindingFor(rec, block, stop)
	x.buildSymbols(rec, block, binding)
}

// isImplicitClass reports whether the first block of the file is a bare
// --[=[ description at the very top. Such a block documents the module
// itself, named after the file.
func (x *extraction) isImplicitClass(block DocBlock, rec *DocRecord) bool {
	if !block.Long || !rec.bare() {
		return false
	}
	for _, line := range x.lines[:block.StartLine-1] {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

// bindingFor finds the binding of a block. Only blocks without a type tag,
// or whose type tag is a function, constructor or type, look for one.
func (x *extraction) bindingFor(rec *DocRecord, block DocBlock, stop int) *Binding {
	tt := rec.typeTag()
	if tt != nil && tt.Kind != types.KindFunction && tt.Kind != types.KindConstructor && tt.Kind != types.KindType {
		return nil
	}

	binding := findBinding(x.lines, block, stop)
	if binding == nil || tt == nil || tt.Kind != types.KindType {
		return binding
	}
	if binding.Kind != types.KindType || (tt.Name != "" && tt.Name != binding.Name) {
		return nil
	}
	return binding
}

func (x *extraction) buildSymbols(rec *DocRecord, block DocBlock, binding *Binding) {
	var (
		kind     types.Kind
		name     string
		isMethod bool
	)
	if tt := rec.typeTag(); tt != nil {
		kind, name, isMethod = tt.Kind, tt.Name, tt.IsMethod
		if name == "" && binding != nil {
			name = binding.Name
			isMethod = isMethod || binding.IsMethod
		}
	} else if binding != nil {
		kind, name, isMethod = binding.Kind, binding.Name, binding.IsMethod
	}

	needsWithin := kind == types.KindFunction || kind == types.KindProperty || kind == types.KindConstructor
	within := resolveWithin(ownerQuery{record: rec, binding: binding, file: &x.file, needsWithin: needsWithin})

	switch {
	case kind == types.KindFunction && name == "new" && within != "" && !isMethod:
		kind = types.KindConstructor
	case kind == types.KindFunction && isMethod:
		kind = types.KindMethod
	}

	if within == "" && needsWithin {
		if len(x.file.classes) == 0 {
			x.report(types.LevelError, block.StartLine, msgClassMissing)
		} else {
			x.report(types.LevelWarning, block.StartLine, msgWithinAmbiguous)
		}
	}

	if kind == "" || name == "" {
		return
	}

	if rec.State.Readonly && kind != types.KindProperty {
		x.report(types.LevelWarning, block.StartLine, msgReadonlyMisuse)
	}
	if binding != nil && binding.Kind == types.KindFunction && paramsMismatch(rec, binding, isMethod) {
		x.report(types.LevelWarning, block.StartLine, msgParamMismatch)
	}

	location := x.location(block.StartLine)
	if binding != nil {
		location = x.location(binding.LineNumber)
	}
	visibility := rec.State.Visibility
	if visibility == "" {
		visibility = types.VisibilityPublic
	}

	symbol := types.Symbol{
		Kind:          kind,
		Name:          name,
		QualifiedName: qualifiedName(within, name, isMethod),
		Location:      location,
		Docs:          buildDocs(rec),
		Types:         symbolTypes(kind, rec, binding, isMethod),
		Visibility:    visibility,
	}
	x.symbols = append(x.symbols, symbol)

	switch kind {
	case types.KindType:
		x.addTypeFields(name, location, visibility, rec, binding)
	case types.KindInterface:
		for _, f := range rec.Fields {
			x.addField(name, f.Name, f.Type, f.Description, location, visibility)
		}
	}
}

func symbolTypes(kind types.Kind, rec *DocRecord, binding *Binding, isMethod bool) types.TypeInfo {
	switch kind {
	case types.KindFunction, types.KindMethod, types.KindConstructor, types.KindEvent:
		return functionTypes(rec, binding, isMethod)
	case types.KindProperty:
		return propertyTypes(rec)
	case types.KindInterface:
		return interfaceTypes(rec)
	case types.KindType:
		return typeTypes(rec, binding)
	case types.KindClass:
		return classTypes(rec)
	}
	return types.TypeInfo{Structured: &types.TypeShape{}}
}

func (x *extraction) addTypeFields(parent string, location types.Location, visibility types.Visibility, rec *DocRecord, binding *Binding) {
	if binding != nil && binding.Table != nil && len(binding.Table.Fields) > 0 {
		for _, f := range binding.Table.Fields {
			loc := location
			if f.Line > 0 {
				loc = x.location(f.Line)
			}
			x.addField(parent, f.Name, f.Type, f.Description, loc, visibility)
		}
		return
	}
	for _, f := range rec.Fields {
		x.addField(parent, f.Name, f.Type, f.Description, location, visibility)
	}
}

func (x *extraction) addField(parent, name, typ, description string, location types.Location, visibility types.Visibility) {
	if name == "" {
		return
	}
	x.symbols = append(x.symbols, types.Symbol{
		Kind:          types.KindField,
		Name:          name,
		QualifiedName: parent + "." + name,
		Location:      location,
		Docs:          fieldDocs(description),
		Types:         types.TypeInfo{Display: typ, Structured: &types.TypeShape{Type: optional(typ)}},
		Visibility:    visibility,
	})
}

// addClassTableProperties turns the fields of a table type named after a
// declared class into properties of that class, unless already documented.
func (x *extraction) addClassTableProperties() {
	seen := make(map[string]bool, len(x.symbols))
	for _, s := range x.symbols {
		seen[s.QualifiedName] = true
	}

	for _, r := range x.tables {
		if !x.file.hasClass(r.name) {
			continue
		}
		for _, f := range r.table.Fields {
			qualified := r.name + "." + f.Name
			if seen[qualified] {
				continue
			}
			seen[qualified] = true

			line := f.Line
			if line == 0 {
				line = r.table.StartLine
			}
			x.symbols = append(x.symbols, types.Symbol{
				Kind:          types.KindProperty,
				Name:          f.Name,
				QualifiedName: qualified,
				Location:      x.location(line),
				Docs:          fieldDocs(f.Description),
				Types:         types.TypeInfo{Display: f.Type, Structured: &types.TypeShape{Type: optional(f.Type)}},
				Visibility:    types.VisibilityPublic,
			})
		}
	}
}

func (f *fileState) hasClass(name string) bool {
	for _, c := range f.classes {
		if c == name {
			return true
		}
	}
	return false
}

// paramsMismatch reports whether explicitly typed @param names differ from
// the formal parameters. A leading self is ignored on methods.
func paramsMismatch(rec *DocRecord, binding *Binding, isMethod bool) bool {
	explicit := false
	for _, p := range rec.Params {
		if t := strings.TrimSpace(p.Type); t != "" && t != "any" {
			explicit = true
			break
		}
	}
	if !explicit {
		return false
	}

	documented := make(map[string]bool, len(rec.Params))
	for _, p := range rec.Params {
		documented[p.Name] = true
	}
	formal := make(map[string]bool, len(binding.Params))
	for i, p := range binding.Params {
		if i == 0 && isMethod && p.Name == "self" && !documented["self"] {
			continue
		}
		formal[p.Name] = true
	}

	if len(documented) != len(formal) {
		return true
	}
	for name := range documented {
		if !formal[name] {
			return true
		}
	}
	return false
}

func qualifiedName(within, name string, isMethod bool) string {
	switch {
	case within == "":
		return name
	case isMethod:
		return within + ":" + name
	default:
		return within + "." + name
	}
}

func (x *extraction) location(line int) types.Location {
	column := 1
	if line >= 1 && line <= len(x.lines) {
		column = firstNonSpaceColumn(x.lines[line-1])
	}
	return types.Location{File: x.path, Line: line, Column: column}
}

// classNameFromPath names the implicit class of a file: the file name without
// extension, or the parent directory for init, init.client and init.server.
func classNameFromPath(filePath string) string {
	base := path.Base(filePath)
	base = strings.TrimSuffix(base, path.Ext(base))
	switch base {
	case "init", "init.client", "init.server":
		if parent := path.Base(path.Dir(filePath)); parent != "." && parent != "/" {
			return parent
		}
	}
	return base
}
