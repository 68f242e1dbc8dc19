package luaudoc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/luaudoc/types"
)

func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		// Track files created by "file" commands
		files := make(map[string]string) // path -> content

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "file":
				return handleFile(t, d, files)
			case "generate":
				return handleGenerate(t, d, files)
			case "structured":
				return handleStructured(t, d, files)
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

// handleFile registers a source file under a root-relative path
func handleFile(t *testing.T, d *datadriven.TestData, files map[string]string) string {
	var name string
	d.ScanArgs(t, "name", &name)
	files[name] = d.Input
	return "" // file command produces no output
}

func runGenerate(t *testing.T, d *datadriven.TestData, files map[string]string) *Result {
	opts := Options{
		GeneratorVersion: "test",
		SrcDir:           "src",
		Jobs:             1, // single-threaded for deterministic ordering
	}
	if d.HasArg("types") {
		d.ScanArgs(t, "types", &opts.TypesDir)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	sources := make([]types.SourceFile, 0, len(names))
	for _, name := range names {
		sources = append(sources, types.SourceFile{Path: name, Content: []byte(files[name])})
	}

	result, err := Generate(context.Background(), sources, opts)
	require.NoError(t, err)
	return result
}

// handleGenerate runs Generate over every registered file and formats the
// modules followed by the diagnostics
func handleGenerate(t *testing.T, d *datadriven.TestData, files map[string]string) string {
	return formatResult(runGenerate(t, d, files))
}

// handleStructured prints the structured type of one symbol as JSON
func handleStructured(t *testing.T, d *datadriven.TestData, files map[string]string) string {
	var qualified string
	d.ScanArgs(t, "symbol", &qualified)

	result := runGenerate(t, d, files)
	for _, m := range result.Document.Modules {
		for _, s := range m.Symbols {
			if s.QualifiedName != qualified {
				continue
			}
			data, err := json.Marshal(s.Types.Structured)
			require.NoError(t, err)
			return string(data)
		}
	}
	return fmt.Sprintf("error: no symbol %s", qualified)
}

func formatResult(result *Result) string {
	var lines []string
	for _, m := range result.Document.Modules {
		lines = append(lines, fmt.Sprintf("module %s %s", m.ID, m.Path))
		for _, s := range m.Symbols {
			lines = append(lines, fmt.Sprintf("  %s %s %s %d:%d",
				s.Kind,
				s.QualifiedName,
				s.Visibility,
				s.Location.Line,
				s.Location.Column,
			))
			if s.Docs.Summary != "" {
				lines = append(lines, "    summary: "+s.Docs.Summary)
			}
			if s.Types.Display != "" {
				lines = append(lines, "    display: "+s.Types.Display)
			}
			for _, tag := range s.Docs.Tags {
				lines = append(lines, "    tag: "+formatTag(tag))
			}
		}
	}

	for _, diag := range result.Diagnostics {
		lines = append(lines, fmt.Sprintf("%s %s:%d %s", diag.Level, diag.File, diag.Line, diag.Message))
	}

	if len(lines) == 0 {
		return "(no modules)"
	}
	return strings.Join(lines, "\n")
}

func formatTag(tag types.Tag) string {
	text := "@" + tag.Name
	if tag.Value != nil {
		text += fmt.Sprintf(" %v", tag.Value)
	}
	if tag.Description != "" {
		text += " -- " + tag.Description
	}
	return text
}
