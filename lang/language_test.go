package lang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	require.Equal(t, []string{"lua", "luau"}, List())
	require.Equal(t, []string{".lua", ".luau"}, Extensions())

	require.NotNil(t, Get("lua").TreeSitterLang())
	require.Nil(t, Get("luau").TreeSitterLang())
	require.Nil(t, Get("python"))
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"src/Signal.luau", "luau"},
		{"src/init.lua", "lua"},
		{"src/Upper.LUA", "lua"},
		{"README.md", ""},
		{"Makefile", ""},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got := ForPath(tc.path)
			if tc.want == "" {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, tc.want, got.Name())
		})
	}
}
