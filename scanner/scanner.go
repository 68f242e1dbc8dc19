// Package scanner discovers and reads Lua and Luau source files.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/arjunmahishi/luaudoc/lang"
	"github.com/arjunmahishi/luaudoc/types"
)

// DefaultIgnoreDirs returns the default list of directories to ignore.
// Directories whose name starts with a dot are always skipped.
func DefaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		"node_modules": {},
	}
}

// Config holds scanner configuration.
type Config struct {
	// Root is the project root. Paths are reported relative to it.
	Root string

	// Dirs are root-relative directories to walk, e.g. "src" and "types".
	// Missing directories are skipped. Empty means Root itself.
	Dirs []string

	IgnoreDirs map[string]struct{}

	// Extensions lists the file extensions to collect.
	// If empty, every extension registered in package lang.
	Extensions []string

	// MaxBytes skips files larger than this size.
	// If 0, no size limit is enforced.
	MaxBytes int64

	// Jobs bounds concurrent file reads.
	// If 0, defaults to number of CPUs.
	Jobs int
}

// Scanner discovers files for processing.
type Scanner struct {
	cfg Config
}

// New creates a new Scanner with the given configuration.
func New(cfg Config) *Scanner {
	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = DefaultIgnoreDirs()
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = lang.Extensions()
	}
	return &Scanner{cfg: cfg}
}

// Collect finds every supported file under the configured directories and
// reads it. Files reachable from more than one directory are returned once.
// The result is sorted by path.
func (s *Scanner) Collect(ctx context.Context) ([]types.SourceFile, error) {
	absRoot, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	dirs := s.cfg.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	seen := make(map[string]struct{})
	var files []types.SourceFile
	for _, dir := range dirs {
		found, err := s.walk(absRoot, filepath.Join(absRoot, dir))
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, ok := seen[f.AbsPath]; ok {
				continue
			}
			seen[f.AbsPath] = struct{}{}
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	if err := s.read(ctx, files); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Scanner) walk(absRoot, dir string) ([]types.SourceFile, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var files []types.SourceFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == dir {
				return nil
			}
			if s.shouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") || !s.isSupportedFile(d.Name()) {
			return nil
		}

		if s.cfg.MaxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				// Skip files we can't stat
				return nil
			}
			if info.Size() > s.cfg.MaxBytes {
				return nil
			}
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}

		files = append(files, types.SourceFile{
			Path:    filepath.ToSlash(rel),
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	return files, nil
}

// read loads file contents concurrently.
func (s *Scanner) read(ctx context.Context, files []types.SourceFile) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Jobs)

	for i := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(files[i].AbsPath)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			files[i].Content = content
			return nil
		})
	}

	return g.Wait()
}

func (s *Scanner) shouldIgnoreDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := s.cfg.IgnoreDirs[name]
	return ok
}

func (s *Scanner) isSupportedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range s.cfg.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
