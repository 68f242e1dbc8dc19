package luaudoc

import (
	"regexp"
	"strings"
)

var tableFieldPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*:\s*(.+)$`)

// TableBody is the literal table of a type alias.
type TableBody struct {
	Text      string   // whole alias text collapsed to one line
	Entries   []string // every entry, indexers included
	Fields    []TableField
	TableOnly bool // the alias is the table and nothing else
	StartLine int  // 1-based, the alias line
	EndLine   int  // 1-based, the line holding the closing brace
}

// TableField is a "name: type" entry of a table type.
type TableField struct {
	Name        string
	Type        string
	Description string
	Line        int
}

// tableScan walks a table literal one byte at a time across lines.
type tableScan struct {
	lines []string
	body  *TableBody
	depth depthTracker

	entry      strings.Builder
	entryLine  int
	pendingDoc []string
	text       strings.Builder
	closeCol   int
}

// scanTable reads the table type that starts on lines[index] at column
// offset. Doc comments directly before an entry become its description.
func scanTable(lines []string, index, offset int) *TableBody {
	s := &tableScan{
		lines: lines,
		body:  &TableBody{StartLine: index + 1, EndLine: len(lines)},
	}

	prefix := ""
	line, col := index, offset
	for ; line < len(lines); line, col = line+1, 0 {
		text := cutComment(lines[line])
		if col > len(text) {
			col = len(text)
		}
		if brace := strings.IndexByte(text[col:], '{'); brace != -1 {
			prefix += text[col : col+brace]
			col += brace + 1
			break
		}
		prefix += text[col:] + " "
	}
	if line >= len(lines) {
		s.body.Text = collapseSpace(prefix)
		s.body.EndLine = s.body.StartLine
		return s.body
	}

	s.text.WriteString(prefix)
	s.text.WriteByte('{')
	s.depth.curly = 1

	closed := s.run(line, col)
	s.body.Text = collapseSpace(s.text.String())
	s.body.TableOnly = closed && strings.TrimSpace(prefix) == "" && s.restOfLineEmpty()
	return s.body
}

func (s *tableScan) run(line, col int) bool {
	for ; line < len(s.lines); line, col = line+1, 0 {
		raw := s.lines[line]

		if s.entryEmpty() && col == 0 {
			if next, ok := s.docComment(line); ok {
				line = next
				continue
			}
		}

		for i := col; i < len(raw); i++ {
			c := raw[i]
			if c == '-' && i+1 < len(raw) && raw[i+1] == '-' && s.depth.quote == 0 {
				break
			}

			s.text.WriteByte(c)
			s.depth.step(c)

			switch {
			case s.depth.curly == 0:
				s.flush()
				s.body.EndLine = line + 1
				s.closeCol = i + 1
				return true
			case (c == ',' || c == ';') && s.atEntryDepth():
				s.flush()
			default:
				if s.entryEmpty() && isSpace(c) {
					continue
				}
				if s.entryEmpty() {
					s.entryLine = line + 1
				}
				s.entry.WriteByte(c)
			}
		}
		s.text.WriteByte(' ')
		if !s.entryEmpty() {
			s.entry.WriteByte(' ')
		}
	}

	s.flush()
	return false
}

// docComment collects a --- or --[=[ block that starts lines[line]. It
// returns the last line of the block.
func (s *tableScan) docComment(line int) (int, bool) {
	trimmed := strings.TrimSpace(s.lines[line])
	switch {
	case strings.HasPrefix(trimmed, shortMarker):
		var content []string
		for line < len(s.lines) && strings.HasPrefix(strings.TrimSpace(s.lines[line]), shortMarker) {
			content = append(content, stripShortMarker(s.lines[line]))
			line++
		}
		s.pendingDoc = content
		return line - 1, true
	case strings.HasPrefix(trimmed, longOpenMarker):
		content, end := readLongBlock(s.lines, line)
		s.pendingDoc = content
		return end, true
	}
	return line, false
}

func (s *tableScan) atEntryDepth() bool {
	d := &s.depth
	return d.quote == 0 && d.curly == 1 && d.angle == 0 && d.round == 0 && d.square == 0
}

func (s *tableScan) entryEmpty() bool {
	return s.entry.Len() == 0
}

func (s *tableScan) flush() {
	text := collapseSpace(s.entry.String())
	s.entry.Reset()
	if text == "" {
		return
	}

	s.body.Entries = append(s.body.Entries, text)
	if m := tableFieldPattern.FindStringSubmatch(text); m != nil {
		s.body.Fields = append(s.body.Fields, TableField{
			Name:        m[1],
			Type:        strings.TrimSpace(m[2]),
			Description: joinDetail(dedentLines(s.pendingDoc)),
			Line:        s.entryLine,
		})
	}
	s.pendingDoc = nil
}

func (s *tableScan) restOfLineEmpty() bool {
	line := cutComment(s.lines[s.body.EndLine-1])
	if s.closeCol >= len(line) {
		return true
	}
	return strings.TrimSpace(line[s.closeCol:]) == ""
}

func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

type tableRange struct {
	name  string
	table *TableBody
}

// findTableTypes records every table type alias in the file so blocks inside
// table bodies are not mistaken for top-level blocks.
func findTableTypes(lines []string) []tableRange {
	var ranges []tableRange
	for index := 0; index < len(lines); index++ {
		decl := parseTypeAlias(cutComment(lines[index]))
		if decl == nil || !decl.isTable {
			continue
		}
		table := scanTable(lines, index, decl.typeOffset)
		ranges = append(ranges, tableRange{name: decl.name, table: table})
		if table.EndLine-1 > index {
			index = table.EndLine - 1
		}
	}
	return ranges
}

// insideTable reports whether line (1-based) falls within a table body,
// after its opening line.
func insideTable(ranges []tableRange, line int) bool {
	for _, r := range ranges {
		if line > r.table.StartLine && line <= r.table.EndLine {
			return true
		}
	}
	return false
}
