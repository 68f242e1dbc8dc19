package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/luaudoc/types"
)

func TestChecker(t *testing.T) {
	checker, err := NewChecker()
	require.NoError(t, err)

	tests := []struct {
		name      string
		file      types.SourceFile
		wantDiags int
	}{
		{
			name: "valid lua",
			file: types.SourceFile{Path: "src/ok.lua", Content: []byte("local M = {}\nfunction M.add(a, b)\n\treturn a + b\nend\nreturn M\n")},
		},
		{
			name:      "broken lua",
			file:      types.SourceFile{Path: "src/broken.lua", Content: []byte("local M = {}\nfunction M.add(a, b\n\treturn a +\nreturn M\n")},
			wantDiags: 1,
		},
		{
			name: "luau has no grammar",
			file: types.SourceFile{Path: "src/typed.luau", Content: []byte("local x: number = = 1\n")},
		},
		{
			name: "unknown extension",
			file: types.SourceFile{Path: "README.md", Content: []byte("# hi")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			diags, err := checker.Check(context.Background(), tc.file)
			require.NoError(t, err)
			require.Len(t, diags, tc.wantDiags)
			for _, d := range diags {
				require.Equal(t, types.LevelInfo, d.Level)
				require.Equal(t, tc.file.Path, d.File)
				require.Equal(t, SyntaxErrorMessage, d.Message)
				require.GreaterOrEqual(t, d.Line, 1)
			}
		})
	}
}
