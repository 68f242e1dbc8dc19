// Package lang registers the source dialects luaudoc reads.
package lang

import (
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language describes a dialect that doc comments are extracted from.
type Language interface {
	// Name returns the dialect identifier (e.g., "lua", "luau").
	Name() string

	// Extensions returns file extensions for this dialect (e.g., [".lua"]).
	Extensions() []string

	// TreeSitterLang returns the grammar used for syntax checks, or nil when
	// no grammar is available.
	TreeSitterLang() *sitter.Language
}

// registry holds all registered languages.
var registry = make(map[string]Language)

// Register adds a language to the registry.
// This is typically called from init() functions in language implementation files.
func Register(lang Language) {
	registry[lang.Name()] = lang
}

// Get returns a language by name, or nil if not found.
func Get(name string) Language {
	return registry[name]
}

// List returns all registered language names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// byExtension finds a language by file extension.
func byExtension(ext string) Language {
	ext = strings.ToLower(ext)
	for _, lang := range registry {
		for _, e := range lang.Extensions() {
			if e == ext {
				return lang
			}
		}
	}
	return nil
}

// ForPath finds the language of a file path.
func ForPath(path string) Language {
	return byExtension(filepath.Ext(path))
}

// Extensions returns every registered extension, sorted.
func Extensions() []string {
	var exts []string
	for _, lang := range registry {
		exts = append(exts, lang.Extensions()...)
	}
	sort.Strings(exts)
	return exts
}
