package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/luaudoc/types"
)

// writeProject creates files under a fresh root and returns it.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// settingsFor parses args with the generate flags and returns the merged
// settings.
func settingsFor(t *testing.T, args ...string) *settings {
	t.Helper()
	var got *settings
	cmd := &cli.Command{
		Name:  "generate",
		Flags: generateCommand().Flags,
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := loadSettings(cmd)
			got = s
			return err
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"generate"}, args...)))
	require.NotNil(t, got)
	return got
}

const classFile = `--- @class Signal
local Signal = {}

--- Fires the signal.
function Signal:Fire() end
`

const orphanFile = `--- Does things.
function doThings() end
`

func TestSettingsPrecedence(t *testing.T) {
	root := writeProject(t, map[string]string{
		"docs.config.json": `{"src": "lib", "out": "docs/ref.json", "generatorVersion": "cfg", "failOnWarning": true}`,
	})

	tests := []struct {
		name    string
		args    []string
		src     string
		out     string
		version string
		fail    bool
	}{
		{
			name:    "config values",
			src:     "lib",
			out:     "docs/ref.json",
			version: "cfg",
			fail:    true,
		},
		{
			name:    "flags win",
			args:    []string{"--src", "source", "--out=-", "--generator-version", "flag", "--fail-on-warning=false"},
			src:     "source",
			out:     "-",
			version: "flag",
			fail:    false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := settingsFor(t, append([]string{"--root", root}, tc.args...)...)
			require.Equal(t, tc.src, s.src)
			require.Equal(t, tc.out, s.out)
			require.Equal(t, tc.version, s.generatorVersion)
			require.Equal(t, tc.fail, s.failOnWarning)
		})
	}
}

func TestSettingsDefaults(t *testing.T) {
	root := writeProject(t, map[string]string{"src/Signal.luau": classFile})

	s := settingsFor(t, "--root", root)
	require.Equal(t, "src", s.src)
	require.Equal(t, "reference.json", s.out)
	require.Equal(t, filepath.Join(root, "reference.json"), s.outPath())
	require.Equal(t, version, s.generatorVersion)
	require.False(t, s.failOnWarning)
	require.Empty(t, s.overrides)
}

func TestGenerateUsesConfig(t *testing.T) {
	root := writeProject(t, map[string]string{
		"docs.config.json": `{"src": "lib", "out": "docs/ref.json", "generatorVersion": "cfg", "failOnWarning": true}`,
		"lib/Lonely.luau":  orphanFile,
	})

	err := generateCommand().Run(context.Background(), []string{
		"generate", "--root", root, "--generator-version", "flag", "--no-color",
	})
	require.ErrorIs(t, err, errProblems)
	require.Contains(t, err.Error(), "0 warnings, 1 errors")

	data, err := os.ReadFile(filepath.Join(root, "docs", "ref.json"))
	require.NoError(t, err)

	var doc types.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, "flag", doc.GeneratorVersion)
	require.Len(t, doc.Modules, 1)
	require.Equal(t, "Lonely", doc.Modules[0].ID)
	require.Equal(t, "lib/Lonely.luau", doc.Modules[0].Path)
}

func TestGenerateWithCache(t *testing.T) {
	root := writeProject(t, map[string]string{"src/Signal.luau": classFile})

	for range 2 {
		err := generateCommand().Run(context.Background(), []string{
			"generate", "--root", root, "--cache", ".luaudoc.db", "--verbose", "--no-color",
		})
		require.NoError(t, err)
	}
	require.FileExists(t, filepath.Join(root, ".luaudoc.db"))
	require.FileExists(t, filepath.Join(root, "reference.json"))
}

func TestCheckFailsOnErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		args    []string
		wantErr string
	}{
		{
			name:  "clean",
			files: map[string]string{"src/Signal.luau": classFile},
		},
		{
			name:    "error diagnostic",
			files:   map[string]string{"src/Lonely.luau": orphanFile},
			wantErr: "1 error diagnostics",
		},
		{
			name:    "fail on warning",
			files:   map[string]string{"src/Lonely.luau": orphanFile},
			args:    []string{"--fail-on-warning"},
			wantErr: "documentation problems found",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := writeProject(t, tc.files)
			args := append([]string{"check", "--root", root, "--no-color"}, tc.args...)

			err := checkCommand().Run(context.Background(), args)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
