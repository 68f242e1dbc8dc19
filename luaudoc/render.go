package luaudoc

import (
	"strings"

	"github.com/arjunmahishi/luaudoc/types"
)

// maxInlineTableWidth is the widest table display kept on one line.
const maxInlineTableWidth = 80

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func buildDocs(rec *DocRecord) types.Docs {
	summary, markdown := joinDescription(rec.DescriptionLines)
	docs := types.Docs{
		Summary:             summary,
		DescriptionMarkdown: markdown,
		Tags:                []types.Tag{},
		Examples:            []string{},
	}
	add := func(name string, value any) {
		docs.Tags = append(docs.Tags, types.Tag{Name: name, Value: value})
	}

	state := &rec.State
	for _, label := range rec.Tags {
		add("tag", label)
	}
	for _, v := range state.Categories {
		add("category", v)
	}
	for _, v := range state.Groups {
		add("group", v)
	}
	if state.Since != "" {
		add("since", state.Since)
	}
	if d := state.Deprecated; d != nil {
		docs.Tags = append(docs.Tags, types.Tag{Name: "deprecated", Value: d.Version, Description: d.Description})
	}
	if state.Unreleased {
		add("unreleased", true)
	}
	if state.Event {
		add("event", true)
	}
	for _, v := range state.Extends {
		add("extends", v)
	}
	for _, realm := range rec.Realms {
		add(realm, true)
	}
	for _, ext := range rec.Externals {
		add("external", ext.Name+" "+ext.URL)
	}
	for _, v := range state.Aliases {
		add("alias", v)
	}
	for _, v := range state.Includes {
		add("include", v)
	}
	for _, v := range state.Snippets {
		add("snippet", v)
	}
	if state.InheritDoc != "" {
		add("inheritDoc", state.InheritDoc)
	}

	for _, custom := range rec.CustomTags {
		tag := types.Tag{Name: custom.Name, Description: custom.text()}
		switch {
		case custom.Value != "":
			tag.Value = custom.Value
		case tag.Description == "":
			tag.Value = true
		default:
			tag.Value = ""
		}
		docs.Tags = append(docs.Tags, tag)
	}

	return docs
}

func fieldDocs(description string) types.Docs {
	summary, markdown := joinDescription(strings.Split(description, "\n"))
	return types.Docs{
		Summary:             summary,
		DescriptionMarkdown: markdown,
		Tags:                []types.Tag{},
		Examples:            []string{},
	}
}

// functionTypes renders functions, methods, constructors and events.
// Documented params win over the binding's formal parameters.
func functionTypes(rec *DocRecord, binding *Binding, isMethod bool) types.TypeInfo {
	shape := &types.TypeShape{Yields: rec.State.Yields}

	var formal []BindingParam
	if binding != nil {
		formal = binding.Params
	}

	if len(rec.Params) > 0 {
		for _, p := range rec.Params {
			typ := p.Type
			if typ == "" {
				typ = formalType(formal, p.Name)
			}
			param := types.ParamShape{Name: p.Name, Type: optional(typ), Description: optional(p.text())}
			if p.HasDefault {
				param.Default = optional(p.Default)
			}
			shape.Params = append(shape.Params, param)
		}
	} else {
		if isMethod && len(formal) > 0 && formal[0].Name == "self" {
			formal = formal[1:]
		}
		for _, p := range formal {
			shape.Params = append(shape.Params, types.ParamShape{Name: p.Name, Type: optional(p.Type)})
		}
	}

	if len(rec.Returns) > 0 {
		for _, r := range rec.Returns {
			shape.Returns = append(shape.Returns, types.ReturnShape{Type: optional(r.Type), Description: optional(r.text())})
		}
	} else if binding != nil && binding.ReturnType != "" {
		shape.Returns = append(shape.Returns, types.ReturnShape{Type: optional(binding.ReturnType)})
	}

	for _, e := range rec.Errors {
		shape.Errors = append(shape.Errors, types.ReturnShape{Type: optional(e.Type), Description: optional(e.text())})
	}

	return types.TypeInfo{Display: functionDisplay(shape), Structured: shape}
}

func formalType(formal []BindingParam, name string) string {
	for _, p := range formal {
		if p.Name == name {
			return p.Type
		}
	}
	return ""
}

// functionDisplay renders "(a: number, b) -> ret"; untyped returns show as any.
func functionDisplay(shape *types.TypeShape) string {
	params := make([]string, 0, len(shape.Params))
	for _, p := range shape.Params {
		if p.Type != nil {
			params = append(params, p.Name+": "+*p.Type)
		} else {
			params = append(params, p.Name)
		}
	}
	display := "(" + strings.Join(params, ", ") + ")"

	if len(shape.Returns) == 0 {
		return display
	}
	returns := make([]string, 0, len(shape.Returns))
	for _, r := range shape.Returns {
		if r.Type != nil {
			returns = append(returns, *r.Type)
		} else {
			returns = append(returns, "any")
		}
	}
	return display + " -> " + strings.Join(returns, ", ")
}

func propertyTypes(rec *DocRecord) types.TypeInfo {
	typ := ""
	if tt := rec.findTypeTag(types.KindProperty); tt != nil {
		typ = tt.Type
	}
	return types.TypeInfo{
		Display:    typ,
		Structured: &types.TypeShape{Type: optional(typ), Readonly: rec.State.Readonly},
	}
}

func interfaceTypes(rec *DocRecord) types.TypeInfo {
	shape := &types.TypeShape{}
	entries := make([]string, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		shape.Fields = append(shape.Fields, types.FieldShape{
			Name:        f.Name,
			Type:        optional(f.Type),
			Description: optional(f.Description),
		})
		entries = append(entries, fieldEntry(f.Name, f.Type))
	}

	display := ""
	if len(entries) > 0 {
		display = tableDisplay(entries)
	}
	return types.TypeInfo{Display: display, Structured: shape}
}

func fieldEntry(name, typ string) string {
	if typ == "" {
		return name
	}
	return name + ": " + typ
}

// typeTypes renders a type alias. Generic parameters come from the binding
// when it declares any, otherwise from the @type tag.
func typeTypes(rec *DocRecord, binding *Binding) types.TypeInfo {
	tt := rec.findTypeTag(types.KindType)

	value := ""
	if tt != nil {
		value = tt.Type
	}
	display := value
	if value == "" && binding != nil {
		value = binding.TypeAlias
		display = value
		if t := binding.Table; t != nil && t.TableOnly {
			display = tableDisplay(t.Entries)
		}
	}

	var generics []TypeParam
	if binding != nil && len(binding.TypeParams) > 0 {
		generics = binding.TypeParams
	} else if tt != nil {
		generics = tt.TypeParams
	}

	shape := &types.TypeShape{Type: optional(value)}
	consumed := make(map[string]bool, len(rec.Params))
	for _, p := range rec.Params {
		matched := findTypeParam(generics, p.Name)
		param := types.ParamShape{Name: p.Name, Type: optional(p.Type), Description: optional(p.text())}
		if param.Type == nil {
			param.Type = optional(matched.Type)
		}
		if p.HasDefault {
			param.Default = optional(p.Default)
		} else {
			param.Default = optional(matched.Default)
		}
		shape.Params = append(shape.Params, param)
		consumed[p.Name] = true
	}
	for _, g := range generics {
		if g.Name == "" || consumed[g.Name] {
			continue
		}
		shape.Params = append(shape.Params, types.ParamShape{
			Name:    g.Name,
			Type:    optional(g.Type),
			Default: optional(g.Default),
		})
	}

	for _, v := range rec.Variants {
		variant := types.VariantShape{Value: v.Value, Description: optional(v.text()), IsDefault: v.HasDefault}
		if v.HasDefault {
			variant.Default = optional(v.Default)
		}
		shape.Variants = append(shape.Variants, variant)
	}

	for _, f := range typeFields(rec, binding) {
		shape.Fields = append(shape.Fields, types.FieldShape{
			Name:        f.Name,
			Type:        optional(f.Type),
			Description: optional(f.Description),
		})
	}

	return types.TypeInfo{Display: display, Structured: shape}
}

func findTypeParam(params []TypeParam, name string) TypeParam {
	for _, p := range params {
		if p.Name == name {
			return p
		}
	}
	return TypeParam{}
}

// typeFields returns the table fields of a type binding, or the documented
// .name fields when there is no table.
func typeFields(rec *DocRecord, binding *Binding) []FieldEntry {
	if binding != nil && binding.Table != nil && len(binding.Table.Fields) > 0 {
		fields := make([]FieldEntry, 0, len(binding.Table.Fields))
		for _, f := range binding.Table.Fields {
			fields = append(fields, FieldEntry{Name: f.Name, Type: f.Type, Description: f.Description})
		}
		return fields
	}
	return rec.Fields
}

func classTypes(rec *DocRecord) types.TypeInfo {
	return types.TypeInfo{
		Display: "",
		Structured: &types.TypeShape{
			IndexName: optional(rec.State.IndexName),
			Extends:   rec.State.Extends,
		},
	}
}

// tableDisplay renders "{ a: T, b: U }", switching to a fenced block when the
// single line would be too wide.
func tableDisplay(entries []string) string {
	if len(entries) == 0 {
		return "{}"
	}
	inline := "{ " + strings.Join(entries, ", ") + " }"
	if len(inline) <= maxInlineTableWidth {
		return inline
	}

	var b strings.Builder
	b.WriteString("```luau\n{\n")
	for _, e := range entries {
		b.WriteString("\t")
		b.WriteString(e)
		b.WriteString(",\n")
	}
	b.WriteString("}\n```")
	return b.String()
}
