package luaudoc

import (
	"strings"

	"github.com/arjunmahishi/luaudoc/types"
)

// TypeTag is a declarative tag that names a symbol and fixes its kind.
type TypeTag struct {
	Kind       types.Kind
	Name       string
	Type       string
	TypeParams []TypeParam
	IsMethod   bool
}

// TypeParam is one generic parameter, e.g. T: Constraint = Default.
type TypeParam struct {
	Name    string
	Type    string
	Default string
}

// detail is the multi-line text owned by a tag that opens a continuation.
type detail struct {
	Description  []string
	Default      string
	HasDefault   bool
	allowDefault bool
}

func (d *detail) text() string {
	return joinDetail(d.Description)
}

// addLine appends a continuation line. A @default line is captured as the
// default value when the owning tag accepts one.
func (d *detail) addLine(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		d.Description = append(d.Description, "")
		return
	}
	if d.allowDefault && hasWordPrefix(trimmed, "@default") {
		d.setDefault(trimmed[len("@default"):])
		return
	}
	d.Description = append(d.Description, strings.TrimRight(line, " \t"))
}

func (d *detail) setDefault(value string) {
	value = strings.TrimSpace(value)
	if len(value) > 0 && value[0] == ':' {
		value = strings.TrimSpace(value[1:])
	}
	d.Default = value
	d.HasDefault = true
}

// FieldEntry is a documented interface field.
type FieldEntry struct {
	Name        string
	Type        string
	Description string
}

// ParamEntry is a @param tag.
type ParamEntry struct {
	Name string
	Type string
	detail
}

// ReturnEntry is a @return or @error tag.
type ReturnEntry struct {
	Type string
	detail
}

// VariantEntry is a @variant tag.
type VariantEntry struct {
	Value string
	detail
}

// CustomTag is an unrecognized @name value -- description tag.
type CustomTag struct {
	Name  string
	Value string
	detail
}

// External is an @external name url tag.
type External struct {
	Name string
	URL  string
}

// Deprecation is the payload of @deprecated.
type Deprecation struct {
	Version     string
	Description string
}

// DocState holds the flag-like tags of a block. Each field is driven by its
// own tag.
type DocState struct {
	Within     string
	Yields     bool
	Readonly   bool
	Visibility types.Visibility
	Since      string
	Deprecated *Deprecation
	Unreleased bool
	IndexName  string
	InheritDoc string
	Includes   []string
	Snippets   []string
	Aliases    []string
	Event      bool
	Extends    []string
	Categories []string
	Groups     []string

	WithinDefault    string
	HasWithinDefault bool
	WithinRequire    bool
	HasWithinRequire bool
	FileMeta         bool
}

// empty reports whether no state tag was present.
func (s *DocState) empty() bool {
	return s.Within == "" && !s.FileMeta && s.WithinDefault == "" && !s.WithinRequire &&
		!s.Yields && !s.Readonly && s.Visibility == "" && s.Since == "" &&
		!s.Unreleased && s.Deprecated == nil && s.IndexName == "" && s.InheritDoc == "" &&
		!s.Event && len(s.Extends) == 0 && len(s.Categories) == 0 && len(s.Groups) == 0 &&
		len(s.Includes) == 0 && len(s.Snippets) == 0 && len(s.Aliases) == 0
}

// DocRecord is the parsed form of one DocBlock.
type DocRecord struct {
	DescriptionLines []string
	TypeTags         []TypeTag
	Fields           []FieldEntry
	Params           []*ParamEntry
	Returns          []*ReturnEntry
	Errors           []*ReturnEntry
	Variants         []*VariantEntry
	Tags             []string
	CustomTags       []*CustomTag
	Realms           []string
	Externals        []External
	State            DocState
}

// typeTag returns the tag that decides kind and name: the first one.
func (r *DocRecord) typeTag() *TypeTag {
	if len(r.TypeTags) == 0 {
		return nil
	}
	return &r.TypeTags[0]
}

func (r *DocRecord) findTypeTag(kind types.Kind) *TypeTag {
	for i := range r.TypeTags {
		if r.TypeTags[i].Kind == kind {
			return &r.TypeTags[i]
		}
	}
	return nil
}

// bare reports whether the block is nothing but description text.
func (r *DocRecord) bare() bool {
	return r.State.empty() &&
		len(r.TypeTags) == 0 && len(r.Fields) == 0 && len(r.Variants) == 0 &&
		len(r.Params) == 0 && len(r.Returns) == 0 && len(r.Errors) == 0 &&
		len(r.Tags) == 0 && len(r.CustomTags) == 0 && len(r.Realms) == 0 &&
		len(r.Externals) == 0
}
