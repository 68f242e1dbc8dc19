// Package types defines shared data types for luaudoc.
package types

// SchemaVersion is the version of the emitted reference document.
const SchemaVersion = 1

// Kind is the kind of a documented symbol.
type Kind string

const (
	KindClass       Kind = "class"
	KindInterface   Kind = "interface"
	KindType        Kind = "type"
	KindFunction    Kind = "function"
	KindMethod      Kind = "method"
	KindConstructor Kind = "constructor"
	KindProperty    Kind = "property"
	KindField       Kind = "field"
	KindEvent       Kind = "event"
	KindModule      Kind = "module"
)

// Visibility controls whether renderers show a symbol.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	VisibilityIgnored Visibility = "ignored"
)

// Level is the severity of a diagnostic.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// SourceFile is one Lua or Luau file handed to the generator.
type SourceFile struct {
	Path    string // root-relative, slash separated
	AbsPath string
	Content []byte
}

// Location points at the line a symbol was bound to.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Tag is a rendered doc tag. Value is a string, or true for flag tags. An
// empty string is kept in the output.
type Tag struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
}

// Docs holds the prose attached to a symbol.
type Docs struct {
	Summary             string   `json:"summary"`
	DescriptionMarkdown string   `json:"descriptionMarkdown"`
	Tags                []Tag    `json:"tags"`
	Examples            []string `json:"examples"`
}

// ParamShape describes a function parameter or a generic type parameter.
type ParamShape struct {
	Name        string  `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Default     *string `json:"default"`
}

// ReturnShape describes a return value or a raised error.
type ReturnShape struct {
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

// VariantShape describes one documented value of a type.
type VariantShape struct {
	Value       string  `json:"value"`
	Description *string `json:"description"`
	Default     *string `json:"default"`
	IsDefault   bool    `json:"isDefault"`
}

// FieldShape describes an interface field.
type FieldShape struct {
	Name        string  `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

// TypeShape is the structured type of a symbol. Which fields are set depends
// on the symbol kind.
type TypeShape struct {
	Params    []ParamShape   `json:"params,omitempty"`
	Returns   []ReturnShape  `json:"returns,omitempty"`
	Errors    []ReturnShape  `json:"errors,omitempty"`
	Yields    bool           `json:"yields,omitempty"`
	Type      *string        `json:"type,omitempty"`
	Readonly  bool           `json:"readonly,omitempty"`
	Variants  []VariantShape `json:"variants,omitempty"`
	Fields    []FieldShape   `json:"fields,omitempty"`
	IndexName *string        `json:"indexName,omitempty"`
	Extends   []string       `json:"extends,omitempty"`
}

// IsZero reports whether the shape carries no information.
func (s *TypeShape) IsZero() bool {
	if s == nil {
		return true
	}
	return len(s.Params) == 0 && len(s.Returns) == 0 && len(s.Errors) == 0 &&
		!s.Yields && s.Type == nil && !s.Readonly && len(s.Variants) == 0 &&
		len(s.Fields) == 0 && s.IndexName == nil && len(s.Extends) == 0
}

// TypeInfo pairs a display signature with its structured form.
type TypeInfo struct {
	Display    string     `json:"display"`
	Structured *TypeShape `json:"structured"`
}

// Symbol is one documented API element.
type Symbol struct {
	Kind          Kind       `json:"kind"`
	Name          string     `json:"name"`
	QualifiedName string     `json:"qualifiedName"`
	Location      Location   `json:"location"`
	Docs          Docs       `json:"docs"`
	Types         TypeInfo   `json:"types"`
	Visibility    Visibility `json:"visibility"`
}

// Module is the documentation extracted from one source file.
type Module struct {
	ID         string   `json:"id"`
	Path       string   `json:"path"`
	SourceHash string   `json:"sourceHash"`
	Symbols    []Symbol `json:"symbols"`
}

// Document is the top-level reference artifact.
type Document struct {
	SchemaVersion    int      `json:"schemaVersion"`
	GeneratorVersion string   `json:"generatorVersion"`
	LuauVersion      *string  `json:"luauVersion"`
	Modules          []Module `json:"modules"`
}

// Diagnostic reports a documentation problem. Diagnostics never stop
// generation.
type Diagnostic struct {
	Level   Level  `json:"level"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}
