package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/luaudoc/types"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true)

	err := p.Print([]types.Diagnostic{
		{Level: types.LevelError, File: "src/A.luau", Line: 1, Message: "@class missing for this file."},
		{Level: types.LevelWarning, File: "src/B.luau", Line: 12, Message: "@within missing for ambiguous class ownership."},
		{Level: types.LevelInfo, File: "src/C.luau", Line: 3, Message: "--[=[ block is never closed."},
	})
	require.NoError(t, err)

	require.Equal(t, "[luaudoc] ERROR src/A.luau:1 @class missing for this file.\n"+
		"[luaudoc] WARNING src/B.luau:12 @within missing for ambiguous class ownership.\n"+
		"[luaudoc] INFO src/C.luau:3 --[=[ block is never closed.\n", buf.String())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := New(Config{Compact: true, Output: &buf})
	require.NoError(t, w.Write(map[string]string{"display": "(a: number) -> <T>"}))
	require.Equal(t, "{\"display\":\"(a: number) -> <T>\"}\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reference.json")
	version := "0.700"
	doc := &types.Document{
		SchemaVersion:    types.SchemaVersion,
		GeneratorVersion: "1.0.0",
		LuauVersion:      &version,
		Modules:          []types.Module{},
	}

	require.NoError(t, WriteFile(path, doc, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "\n  \"schemaVersion\": 1,")

	var decoded types.Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, *doc, decoded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files are left behind")
}
