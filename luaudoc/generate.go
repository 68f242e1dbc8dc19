// Package luaudoc extracts API documentation from Luau and Lua doc comments.
//
// Generate turns source files into a types.Document: doc blocks are parsed
// into tags, bound to the function, type alias or property that follows them,
// and emitted as symbols grouped per module. Problems in the documentation
// never fail generation; they are returned as diagnostics.
package luaudoc

import (
	"cmp"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/arjunmahishi/luaudoc/types"
)

// Result is the output of Generate.
type Result struct {
	Document    types.Document
	Diagnostics []types.Diagnostic
}

// Counts returns the number of warning and error diagnostics.
func (r *Result) Counts() (warnings, errs int) {
	for _, d := range r.Diagnostics {
		switch d.Level {
		case types.LevelWarning:
			warnings++
		case types.LevelError:
			errs++
		}
	}
	return warnings, errs
}

type fileOutput struct {
	module types.Module
	diags  []types.Diagnostic
}

// Generate extracts documentation from files. Modules are ordered by path and
// diagnostics by file and line, so identical input gives identical output.
// The only error returned is the context's.
func Generate(ctx context.Context, files []types.SourceFile, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	start := time.Now()

	outputs := runWorkers(ctx, files, opts.Jobs, func() func(types.SourceFile) fileOutput {
		return func(file types.SourceFile) fileOutput {
			return processFile(ctx, file, &opts)
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	result := &Result{
		Document: types.Document{
			SchemaVersion:    types.SchemaVersion,
			GeneratorVersion: opts.GeneratorVersion,
			Modules:          make([]types.Module, 0, len(outputs)),
		},
		Diagnostics: []types.Diagnostic{},
	}
	for _, out := range outputs {
		result.Document.Modules = append(result.Document.Modules, out.module)
		result.Diagnostics = append(result.Diagnostics, out.diags...)
	}

	slices.SortStableFunc(result.Document.Modules, func(a, b types.Module) int {
		return strings.Compare(a.Path, b.Path)
	})
	slices.SortStableFunc(result.Diagnostics, func(a, b types.Diagnostic) int {
		return cmp.Or(strings.Compare(a.File, b.File), cmp.Compare(a.Line, b.Line))
	})

	warnings, errs := result.Counts()
	opts.Logger.Info("generated documentation",
		"modules", len(result.Document.Modules),
		"warnings", warnings,
		"errors", errs,
		"duration", time.Since(start),
	)
	return result, nil
}

// processFile extracts one file, going through the cache when one is set.
func processFile(ctx context.Context, file types.SourceFile, opts *Options) fileOutput {
	log := opts.Logger.With("file", file.Path)
	hash := sourceHash(file.Content)
	key := CacheKey{Path: file.Path, SourceHash: hash, GeneratorVersion: opts.GeneratorVersion}

	var extracted *FileResult
	if opts.Cache != nil {
		cached, err := opts.Cache.Get(ctx, key)
		switch {
		case err == nil:
			log.Debug("cache hit")
			normalizeSymbols(cached.Symbols)
			extracted = cached
		case errors.Is(err, ErrCacheMiss):
			log.Debug("cache miss")
		default:
			log.Warn("cache lookup failed", "error", err)
		}
	}

	if extracted == nil {
		symbols, diags := extractSymbols(file.Path, file.Content)
		extracted = &FileResult{Symbols: symbols, Diagnostics: diags}
		if opts.Cache != nil {
			if err := opts.Cache.Put(ctx, key, extracted); err != nil {
				log.Warn("cache store failed", "error", err)
			}
		}
	}

	diags := slices.Clone(extracted.Diagnostics)
	if opts.SyntaxChecker != nil {
		found, err := opts.SyntaxChecker.Check(ctx, file)
		if err != nil {
			log.Warn("syntax check failed", "error", err)
		}
		diags = append(diags, found...)
	}

	symbols := extracted.Symbols
	if symbols == nil {
		symbols = []types.Symbol{}
	}
	return fileOutput{
		module: types.Module{
			ID:         moduleID(file.Path, opts),
			Path:       file.Path,
			SourceHash: hash,
			Symbols:    symbols,
		},
		diags: diags,
	}
}

// normalizeSymbols restores empty lists that a cache codec decoded as nil.
func normalizeSymbols(symbols []types.Symbol) {
	for i := range symbols {
		docs := &symbols[i].Docs
		if docs.Tags == nil {
			docs.Tags = []types.Tag{}
		}
		if docs.Examples == nil {
			docs.Examples = []string{}
		}
	}
}

func sourceHash(content []byte) string {
	sum := sha1.Sum(content)
	return hex.EncodeToString(sum[:])
}

// moduleID returns the override for relPath, or relPath made relative to the
// most specific containing root with its extension stripped. Foo/init
// collapses to Foo.
func moduleID(relPath string, opts *Options) string {
	if id := opts.ModuleIDOverrides[relPath]; id != "" {
		return id
	}

	base, best := relPath, -1
	for _, root := range []string{opts.TypesDir, opts.SrcDir} {
		root = cleanRoot(root)
		if root == "" || len(root) <= best {
			continue
		}
		if rest, ok := strings.CutPrefix(relPath, root+"/"); ok {
			base, best = rest, len(root)
		}
	}

	id := strings.TrimSuffix(base, path.Ext(base))
	if path.Base(id) == "init" && path.Dir(id) != "." {
		id = path.Dir(id)
	}
	return id
}

func cleanRoot(root string) string {
	root = path.Clean(strings.ReplaceAll(root, "\\", "/"))
	root = strings.TrimPrefix(root, "./")
	if root == "." || root == "/" {
		return ""
	}
	return strings.TrimSuffix(root, "/")
}
