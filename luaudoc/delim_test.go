package luaudoc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"plain", "a, b, c", []string{"a", "b", "c"}},
		{"generics", "a: Map<K, V>, b", []string{"a: Map<K, V>", "b"}},
		{"function type", "cb: (x: number, y: number) -> (), n", []string{"cb: (x: number, y: number) -> ()", "n"}},
		{"table", "t: { a: number, b: string }", []string{"t: { a: number, b: string }"}},
		{"quoted", `s: "a,b", c`, []string{`s: "a,b"`, "c"}},
		{"empty parts", ", a,,", []string{"a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, splitTopLevel(tc.value, ','))
		})
	}
}

func TestFindMatching(t *testing.T) {
	require.Equal(t, 8, findMatchingAngle("<T, U<V>>", 0))
	require.Equal(t, 13, findMatchingAngle("<F = () -> ()>", 0))
	require.Equal(t, 4, findMatchingParen(`(")") x`, 0))
	require.Equal(t, -1, findMatchingParen("(a, b", 0))
	require.Equal(t, -1, findMatchingParen("a)", 0))
}

func TestSplitTypeDescription(t *testing.T) {
	tests := []struct {
		value    string
		wantType string
		wantDesc string
	}{
		{"number -- The count.", "number", "The count."},
		{"number - The count.", "number", "The count."},
		{"- Just text.", "", "Just text."},
		{"(a: number) -> string", "(a: number) -> string", ""},
		{"(a: number) -> string - Callback.", "(a: number) -> string", "Callback."},
		{"{ a: number }", "{ a: number }", ""},
		{"-", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			typ, desc := splitTypeDescription(tc.value)
			require.Equal(t, tc.wantType, typ)
			require.Equal(t, tc.wantDesc, desc)
		})
	}
}

func TestCutInlineDefault(t *testing.T) {
	rest, def, found := cutInlineDefault("number -- Count. @default 5")
	require.True(t, found)
	require.Equal(t, "number -- Count.", rest)
	require.Equal(t, "5", def)

	rest, def, found = cutInlineDefault("string x@default")
	require.False(t, found)
	require.Equal(t, "string x@default", rest)
	require.Empty(t, def)

	_, def, found = cutInlineDefault("boolean @default: true")
	require.True(t, found)
	require.Equal(t, "true", def)
}
