package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/luaudoc/luaudoc"
	"github.com/arjunmahishi/luaudoc/output"
)

// version is reported as the generator version unless overridden. Set at
// build time with -ldflags "-X main.version=...".
var version = "0.0.0-dev"

func main() {
	app := &cli.Command{
		Name:    "luaudoc",
		Usage:   "extract API reference JSON from Luau doc comments",
		Version: version,
		Commands: []*cli.Command{
			generateCommand(),
			checkCommand(),
			tagsCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		writeError(err)
		os.Exit(1)
	}
}

// sourceFlags are shared by every command that reads a project.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "root",
			Value: ".",
			Usage: "project root; paths in the output are relative to it",
		},
		&cli.StringFlag{
			Name:  "src",
			Value: "src",
			Usage: "source directory, relative to root",
		},
		&cli.StringFlag{
			Name:  "types",
			Usage: "optional types directory, relative to root",
		},
		&cli.StringFlag{
			Name:  "generator-version",
			Value: version,
			Usage: "generator version recorded in the output",
		},
		&cli.BoolFlag{
			Name:  "fail-on-warning",
			Usage: "exit non-zero when warnings exist",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Value:   runtime.NumCPU(),
			Usage:   "number of parallel workers",
		},
		&cli.Int64Flag{
			Name:  "max-bytes",
			Value: 2 * 1024 * 1024,
			Usage: "skip files larger than this",
		},
		&cli.StringFlag{
			Name:  "cache",
			Usage: "SQLite file caching results of unchanged files",
		},
		&cli.BoolFlag{
			Name:  "syntax-check",
			Usage: "report Lua syntax errors as info diagnostics",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored diagnostics",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log progress to stderr",
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "write the reference document",
		Flags: append(sourceFlags(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "reference.json",
				Usage:   "output path relative to root, or - for stdout",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "minimize output",
			},
		),
		Action: runGenerate,
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := s.run(ctx)
	if err != nil {
		return err
	}

	if s.out == "-" {
		if err := writeJSON(result.Document, cmd.Bool("compact")); err != nil {
			return err
		}
	} else if err := output.WriteFile(s.outPath(), &result.Document, cmd.Bool("compact")); err != nil {
		return err
	}
	s.logger.Info("wrote reference", "path", s.outPath())

	if err := s.printer.Print(result.Diagnostics); err != nil {
		return err
	}
	return s.verdict(result)
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:        "check",
		Usage:       "report diagnostics without writing output",
		Description: "Exits non-zero when any error diagnostic exists, or any warning with --fail-on-warning.",
		Flags:       sourceFlags(),
		Action:      runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := s.run(ctx)
	if err != nil {
		return err
	}

	if err := s.printer.Print(result.Diagnostics); err != nil {
		return err
	}
	if err := s.verdict(result); err != nil {
		return err
	}

	_, errs := result.Counts()
	if errs > 0 {
		return fmt.Errorf("%d error diagnostics", errs)
	}
	return nil
}

var errProblems = errors.New("documentation problems found")

// verdict fails the command under --fail-on-warning when any warning or
// error was reported.
func (s *settings) verdict(result *luaudoc.Result) error {
	if !s.failOnWarning {
		return nil
	}
	warnings, errs := result.Counts()
	if warnings+errs == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d warnings, %d errors", errProblems, warnings, errs)
}

// JSON output helpers
func writeJSON(v any, compact bool) error {
	return output.New(output.Config{Compact: compact, Output: os.Stdout}).Write(v)
}

func writeError(err error) {
	enc := json.NewEncoder(os.Stderr)
	enc.Encode(map[string]string{
		"error": err.Error(),
	})
}
