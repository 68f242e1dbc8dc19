package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/lua"
)

// Lua is plain Lua 5.x source.
type Lua struct{}

// Luau is Roblox Luau. There is no bundled Luau grammar, so Luau files are
// never syntax checked.
type Luau struct{}

func init() {
	Register(&Lua{})
	Register(&Luau{})
}

func (l *Lua) Name() string {
	return "lua"
}

func (l *Lua) Extensions() []string {
	return []string{".lua"}
}

func (l *Lua) TreeSitterLang() *sitter.Language {
	return lua.GetLanguage()
}

func (l *Luau) Name() string {
	return "luau"
}

func (l *Luau) Extensions() []string {
	return []string{".luau"}
}

func (l *Luau) TreeSitterLang() *sitter.Language {
	return nil
}
