package luaudoc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/luaudoc/types"
)

func TestParseBindingAt(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *Binding
	}{
		{
			name: "module function",
			line: "function Signal.new(name: string, ...: any): Signal",
			want: &Binding{
				Kind:       types.KindFunction,
				Name:       "new",
				Within:     "Signal",
				Params:     []BindingParam{{Name: "name", Type: "string"}, {Name: "...", Type: "any"}},
				ReturnType: "Signal",
			},
		},
		{
			name: "method",
			line: "function Signal:Fire<T>(value: T)",
			want: &Binding{
				Kind:     types.KindFunction,
				Name:     "Fire",
				Within:   "Signal",
				IsMethod: true,
				Params:   []BindingParam{{Name: "value", Type: "T"}},
			},
		},
		{
			name: "assigned function with self",
			line: "Signal.Destroy = function(self)",
			want: &Binding{
				Kind:     types.KindFunction,
				Name:     "Destroy",
				Within:   "Signal",
				IsMethod: true,
				Params:   []BindingParam{{Name: "self"}},
			},
		},
		{
			name: "one line body",
			line: "local function count(list: { any }): number return #list end",
			want: nil,
		},
		{
			name: "global one line body",
			line: "function count(list: { any }): number return #list end",
			want: &Binding{
				Kind:       types.KindFunction,
				Name:       "count",
				Params:     []BindingParam{{Name: "list", Type: "{ any }"}},
				ReturnType: "number",
			},
		},
		{
			name: "type alias",
			line: "export type Callback<T> = (value: T) -> ()",
			want: &Binding{
				Kind:       types.KindType,
				Name:       "Callback",
				TypeAlias:  "(value: T) -> ()",
				TypeParams: []TypeParam{{Name: "T"}},
			},
		},
		{
			name: "property",
			line: "Signal.prototype.count = 0 -- live listeners",
			want: &Binding{Kind: types.KindProperty, Name: "count", Within: "Signal"},
		},
		{
			name: "comparison is not a property",
			line: "Signal.count == 0",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseBindingAt([]string{tc.line}, 0)
			if tc.want == nil {
				require.Nil(t, got)
				return
			}
			tc.want.Line = tc.line
			tc.want.LineNumber = 1
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFindBindingSkipsComments(t *testing.T) {
	lines := splitLines(`--- Doc.

-- plain comment
--[[
	long comment
]]
function Foo.bar() end`)

	block := extractDocBlocks(lines)[0]
	b := findBinding(lines, block, 0)
	require.NotNil(t, b)
	require.Equal(t, "bar", b.Name)
	require.Equal(t, 7, b.LineNumber)
}

func TestFindBindingStopsAtNextBlock(t *testing.T) {
	lines := splitLines(`--- First.

--- Second.
function Foo.bar() end`)

	blocks := extractDocBlocks(lines)
	require.Len(t, blocks, 2)
	require.Nil(t, findBinding(lines, blocks[0], blocks[1].StartLine))
	require.NotNil(t, findBinding(lines, blocks[1], 0))
}

func TestScanTable(t *testing.T) {
	lines := splitLines(`export type Options = {
	--- Seconds before giving up.
	timeout: number,
	retry: boolean?, -- trailing comment
	[string]: any,
	nested: { a: number, b: string },
}`)

	decl := parseTypeAlias(lines[0])
	require.NotNil(t, decl)
	require.True(t, decl.isTable)

	body := scanTable(lines, 0, decl.typeOffset)
	require.True(t, body.TableOnly)
	require.Equal(t, 1, body.StartLine)
	require.Equal(t, 7, body.EndLine)
	require.Equal(t, []string{
		"timeout: number",
		"retry: boolean?",
		"[string]: any",
		"nested: { a: number, b: string }",
	}, body.Entries)
	require.Equal(t, []TableField{
		{Name: "timeout", Type: "number", Description: "Seconds before giving up.", Line: 3},
		{Name: "retry", Type: "boolean?", Line: 4},
		{Name: "nested", Type: "{ a: number, b: string }", Line: 6},
	}, body.Fields)
}

func TestScanTableIntersection(t *testing.T) {
	lines := []string{"type Child = Base & { extra: number }"}
	decl := parseTypeAlias(lines[0])
	require.NotNil(t, decl)

	body := scanTable(lines, 0, decl.typeOffset)
	require.False(t, body.TableOnly)
	require.Equal(t, "Base & { extra: number }", body.Text)
	require.Equal(t, []TableField{{Name: "extra", Type: "number", Line: 1}}, body.Fields)
}

func TestTableDisplay(t *testing.T) {
	require.Equal(t, "{}", tableDisplay(nil))
	require.Equal(t, "{ a: number }", tableDisplay([]string{"a: number"}))

	long := []string{
		"firstVeryLongFieldName: SomeLongTypeName",
		"secondVeryLongFieldName: AnotherLongTypeName",
	}
	require.Equal(t, "```luau\n{\n\tfirstVeryLongFieldName: SomeLongTypeName,\n\tsecondVeryLongFieldName: AnotherLongTypeName,\n}\n```", tableDisplay(long))
}
