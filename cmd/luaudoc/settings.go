package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/luaudoc/cache"
	"github.com/arjunmahishi/luaudoc/config"
	"github.com/arjunmahishi/luaudoc/luaudoc"
	"github.com/arjunmahishi/luaudoc/output"
	"github.com/arjunmahishi/luaudoc/parser"
	"github.com/arjunmahishi/luaudoc/scanner"
)

// settings is the merged view of flags and docs.config. A flag given on the
// command line wins over the config file, which wins over flag defaults.
type settings struct {
	root             string
	src              string
	types            string
	out              string
	generatorVersion string
	cachePath        string
	failOnWarning    bool
	syntaxCheck      bool
	jobs             int
	maxBytes         int64
	overrides        map[string]string

	logger  *slog.Logger
	printer *output.Printer
}

func loadSettings(cmd *cli.Command) (*settings, error) {
	root, err := filepath.Abs(cmd.String("root"))
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}

	s := &settings{
		root:             root,
		src:              pick(cmd, "src", cfg.Src),
		types:            pick(cmd, "types", cfg.Types),
		generatorVersion: pick(cmd, "generator-version", cfg.GeneratorVersion),
		cachePath:        pick(cmd, "cache", cfg.Cache),
		failOnWarning:    cmd.Bool("fail-on-warning"),
		syntaxCheck:      cmd.Bool("syntax-check"),
		jobs:             cmd.Int("jobs"),
		maxBytes:         cmd.Int64("max-bytes"),
		overrides:        cfg.ModuleIDOverrides,
		logger:           slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		printer:          output.NewPrinter(os.Stderr, cmd.Bool("no-color")),
	}
	if hasFlag(cmd, "out") {
		s.out = pick(cmd, "out", cfg.Out)
	}
	if !cmd.IsSet("fail-on-warning") && cfg.FailOnWarning != nil {
		s.failOnWarning = *cfg.FailOnWarning
	}
	if cfg.Path != "" {
		s.logger.Debug("loaded config", "path", cfg.Path)
	}
	return s, nil
}

// pick returns the flag value when it was set explicitly, then the config
// value, then the flag default.
func pick(cmd *cli.Command, flag, fromConfig string) string {
	if cmd.IsSet(flag) || fromConfig == "" {
		return cmd.String(flag)
	}
	return fromConfig
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

func (s *settings) outPath() string {
	if s.out == "-" || filepath.IsAbs(s.out) {
		return s.out
	}
	return filepath.Join(s.root, s.out)
}

// run scans the project and generates the document.
func (s *settings) run(ctx context.Context) (*luaudoc.Result, error) {
	dirs := []string{s.src}
	if s.types != "" {
		dirs = append(dirs, s.types)
	}

	files, err := scanner.New(scanner.Config{
		Root:     s.root,
		Dirs:     dirs,
		MaxBytes: s.maxBytes,
		Jobs:     s.jobs,
	}).Collect(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("collected files", "count", len(files), "dirs", dirs)

	opts := luaudoc.Options{
		GeneratorVersion:  s.generatorVersion,
		SrcDir:            s.src,
		TypesDir:          s.types,
		ModuleIDOverrides: s.overrides,
		Jobs:              s.jobs,
		Logger:            s.logger,
	}

	if s.syntaxCheck {
		checker, err := parser.NewChecker()
		if err != nil {
			return nil, err
		}
		opts.SyntaxChecker = checker
	}

	if s.cachePath != "" {
		path := s.cachePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.root, path)
		}
		store, err := cache.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		s.logger.Debug("opened cache", "path", path, "driver", cache.DriverName, "build", cache.BuildMode)

		pruned, err := store.Prune(ctx, s.generatorVersion)
		if err != nil {
			s.logger.Warn("cache prune failed", "error", err)
		} else if pruned > 0 {
			s.logger.Debug("pruned cache", "entries", pruned)
		}
		opts.Cache = store
	}

	return luaudoc.Generate(ctx, files, opts)
}
