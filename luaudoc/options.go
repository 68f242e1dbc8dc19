package luaudoc

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/arjunmahishi/luaudoc/types"
)

// ErrCacheMiss is returned, possibly wrapped, by a Cache that has no entry
// for a key.
var ErrCacheMiss = errors.New("luaudoc: cache miss")

// Options configures Generate.
type Options struct {
	// GeneratorVersion is copied into the document verbatim. It is also part
	// of every cache key.
	GeneratorVersion string

	// SrcDir and TypesDir are the root-relative source and types roots.
	// Module ids are computed against the most specific one containing a file.
	SrcDir   string
	TypesDir string

	// ModuleIDOverrides replaces the id of a module, keyed by root-relative
	// path with extension.
	ModuleIDOverrides map[string]string

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// Cache stores extraction results across runs. Optional.
	Cache Cache

	// SyntaxChecker reports host-language syntax errors as info
	// diagnostics. Optional.
	SyntaxChecker SyntaxChecker

	// Logger receives progress and cache events. Discarded if nil.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Jobs <= 0 {
		o.Jobs = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// CacheKey identifies the extraction result of one file revision.
type CacheKey struct {
	Path             string
	SourceHash       string
	GeneratorVersion string
}

// FileResult is what extraction produces for one file, minus its module id.
type FileResult struct {
	Symbols     []types.Symbol     `json:"symbols"`
	Diagnostics []types.Diagnostic `json:"diagnostics"`
}

// Cache is an incremental regeneration store. Get returns an error wrapping
// ErrCacheMiss when nothing is stored for key.
type Cache interface {
	Get(ctx context.Context, key CacheKey) (*FileResult, error)
	Put(ctx context.Context, key CacheKey, result *FileResult) error
}

// SyntaxChecker checks a file against the host-language grammar.
type SyntaxChecker interface {
	Check(ctx context.Context, file types.SourceFile) ([]types.Diagnostic, error)
}
