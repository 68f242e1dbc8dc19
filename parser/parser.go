// Package parser runs tree-sitter over source files to catch syntax errors
// that would make doc bindings unreliable.
package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/arjunmahishi/luaudoc/lang"
	"github.com/arjunmahishi/luaudoc/types"
)

// errorQuery captures every ERROR node of a tree.
const errorQuery = `(ERROR) @error`

// SyntaxErrorMessage is the message of syntax diagnostics.
const SyntaxErrorMessage = "syntax error; doc bindings near this line may be missed."

// Checker reports the first syntax error of a file as an info diagnostic.
// Files whose language has no grammar are not checked. A Checker is safe for
// concurrent use.
type Checker struct {
	queries map[string]*Query
}

// NewChecker compiles the error query for every registered language with a
// grammar.
func NewChecker() (*Checker, error) {
	c := &Checker{queries: make(map[string]*Query)}
	for _, name := range lang.List() {
		language := lang.Get(name)
		if language.TreeSitterLang() == nil {
			continue
		}
		q, err := NewQuery(errorQuery, language)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		c.queries[name] = q
	}
	return c, nil
}

// Check parses file and returns at most one diagnostic.
func (c *Checker) Check(ctx context.Context, file types.SourceFile) ([]types.Diagnostic, error) {
	language := lang.ForPath(file.Path)
	if language == nil {
		return nil, nil
	}
	q, ok := c.queries[language.Name()]
	if !ok {
		return nil, nil
	}

	p := New(language)
	defer p.Close()

	tree, err := p.Parse(ctx, file.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}

	line, found := q.FirstCapture(root)
	if !found {
		line, found = firstMissing(root)
	}
	if !found {
		line = int(root.StartPoint().Row) + 1
	}

	return []types.Diagnostic{{
		Level:   types.LevelInfo,
		File:    file.Path,
		Line:    line,
		Message: SyntaxErrorMessage,
	}}, nil
}

// Parser wraps a tree-sitter parser for a specific language.
type Parser struct {
	parser *sitter.Parser
	lang   lang.Language
}

// New creates a new Parser for the given language.
func New(language lang.Language) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(language.TreeSitterLang())
	return &Parser{
		parser: p,
		lang:   language,
	}
}

// Parse parses source code and returns the syntax tree.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	return p.parser.ParseCtx(ctx, nil, source)
}

// Close releases the underlying parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// Query represents a compiled tree-sitter query.
type Query struct {
	query *sitter.Query
}

// NewQuery compiles a tree-sitter query string.
func NewQuery(queryStr string, language lang.Language) (*Query, error) {
	q, err := sitter.NewQuery([]byte(queryStr), language.TreeSitterLang())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	return &Query{query: q}, nil
}

// FirstCapture returns the 1-based line of the first capture under node.
func (q *Query) FirstCapture(node *sitter.Node) (int, bool) {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q.query, node)

	best, found := 0, false
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			line := int(capture.Node.StartPoint().Row) + 1
			if !found || line < best {
				best, found = line, true
			}
		}
	}
	return best, found
}

// firstMissing finds the first node the parser inserted to recover.
func firstMissing(node *sitter.Node) (int, bool) {
	if node.IsMissing() {
		return int(node.StartPoint().Row) + 1, true
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if line, ok := firstMissing(node.Child(i)); ok {
			return line, true
		}
	}
	return 0, false
}
