// Package output writes the reference document and prints diagnostics.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/arjunmahishi/luaudoc/types"
)

// Writer handles structured output.
type Writer struct {
	encoder *json.Encoder
}

// Config holds output configuration.
type Config struct {
	Compact bool
	Output  io.Writer
}

// New creates a new output Writer.
func New(cfg Config) *Writer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	enc := json.NewEncoder(cfg.Output)
	enc.SetEscapeHTML(false)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}

	return &Writer{encoder: enc}
}

// Write outputs a value as JSON.
func (w *Writer) Write(v any) error {
	return w.encoder.Encode(v)
}

// WriteFile writes doc as JSON to path, creating parent directories. The
// file is replaced atomically.
func WriteFile(path string, doc *types.Document, compact bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.CreateTemp(dir, ".luaudoc-*")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer os.Remove(f.Name())

	if err := New(Config{Compact: compact, Output: f}).Write(doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode document: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return os.Rename(f.Name(), path)
}

var levelColors = map[types.Level]*color.Color{
	types.LevelInfo:    color.New(color.FgCyan),
	types.LevelWarning: color.New(color.FgYellow, color.Bold),
	types.LevelError:   color.New(color.FgRed, color.Bold),
}

// Printer prints diagnostics one per line:
//
//	[luaudoc] WARNING src/Foo.luau:12 @within missing for ambiguous class ownership.
type Printer struct {
	out     io.Writer
	noColor bool
}

// NewPrinter returns a Printer writing to out. Colors follow fatih/color's
// terminal detection unless noColor is set.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	if out == nil {
		out = os.Stderr
	}
	return &Printer{out: out, noColor: noColor || color.NoColor}
}

// Print writes every diagnostic.
func (p *Printer) Print(diags []types.Diagnostic) error {
	for _, d := range diags {
		if err := p.PrintOne(d); err != nil {
			return err
		}
	}
	return nil
}

// PrintOne writes a single diagnostic.
func (p *Printer) PrintOne(d types.Diagnostic) error {
	level := strings.ToUpper(string(d.Level))
	if c, ok := levelColors[d.Level]; ok && !p.noColor {
		level = c.Sprint(level)
	}
	_, err := fmt.Fprintf(p.out, "[luaudoc] %s %s:%d %s\n", level, d.File, d.Line, d.Message)
	return err
}
