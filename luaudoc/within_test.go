package luaudoc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveWithin(t *testing.T) {
	tests := []struct {
		name        string
		within      string
		binding     *Binding
		file        fileState
		needsWithin bool
		want        string
	}{
		{
			name:        "explicit wins over binding",
			within:      "Explicit",
			binding:     &Binding{Within: "Bound"},
			file:        fileState{classes: []string{"Only"}},
			needsWithin: true,
			want:        "Explicit",
		},
		{
			name:        "current class marker",
			within:      "~",
			file:        fileState{classes: []string{"A", "B"}, currentClass: "B"},
			needsWithin: true,
			want:        "B",
		},
		{
			name:        "marker without a class falls through",
			within:      "~",
			file:        fileState{withinDefault: "Fallback"},
			needsWithin: true,
			want:        "Fallback",
		},
		{
			name:        "binding owner",
			binding:     &Binding{Within: "Bound"},
			file:        fileState{withinDefault: "Fallback"},
			needsWithin: true,
			want:        "Bound",
		},
		{
			name:        "default option",
			file:        fileState{classes: []string{"A", "B"}, withinDefault: "A"},
			needsWithin: true,
			want:        "A",
		},
		{
			name:        "sole class",
			file:        fileState{classes: []string{"Only"}},
			needsWithin: true,
			want:        "Only",
		},
		{
			name:        "sole class blocked by require",
			file:        fileState{classes: []string{"Only"}, withinRequire: true},
			needsWithin: true,
			want:        "",
		},
		{
			name:        "ambiguous",
			file:        fileState{classes: []string{"A", "B"}},
			needsWithin: true,
			want:        "",
		},
		{
			name: "kinds without an owner ignore file state",
			file: fileState{classes: []string{"Only"}, withinDefault: "Only"},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &DocRecord{State: DocState{Within: tc.within}}
			got := resolveWithin(ownerQuery{
				record:      rec,
				binding:     tc.binding,
				file:        &tc.file,
				needsWithin: tc.needsWithin,
			})
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFileStateDeclareClass(t *testing.T) {
	var f fileState
	f.declareClass("A")
	f.declareClass("B")
	f.declareClass("A")
	f.declareClass("")

	require.Equal(t, []string{"A", "B"}, f.classes)
	require.Equal(t, "A", f.currentClass)
	require.True(t, f.hasClass("B"))
	require.False(t, f.hasClass("C"))
}

func TestClassNameFromPath(t *testing.T) {
	tests := map[string]string{
		"src/Signal.luau":            "Signal",
		"src/Net/init.luau":          "Net",
		"src/Client/init.client.lua": "Client",
		"src/Server/init.server.lua": "Server",
		"init.lua":                   "init",
		"src/util.spec.lua":          "util.spec",
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			require.Equal(t, want, classNameFromPath(path))
		})
	}
}
