package luaudoc

import "strings"

// depthTracker follows nesting of <>, (), {} and [] plus quoted strings
// while a caller walks a string one byte at a time.
type depthTracker struct {
	angle, round, curly, square int
	quote                       byte
	escaped                     bool
	prev                        byte
}

// step consumes c and reports whether c sits at depth zero outside quotes.
// Delimiters and quote characters themselves are never top-level.
func (d *depthTracker) step(c byte) bool {
	top := d.consume(c)
	d.prev = c
	return top
}

func (d *depthTracker) consume(c byte) bool {
	if d.quote != 0 {
		switch {
		case d.escaped:
			d.escaped = false
		case c == '\\':
			d.escaped = true
		case c == d.quote:
			d.quote = 0
		}
		return false
	}

	switch c {
	case '\'', '"':
		d.quote = c
		return false
	case '<':
		d.angle++
		return false
	case '>':
		if d.prev == '-' {
			return d.atTop()
		}
		if d.angle > 0 {
			d.angle--
		}
		return false
	case '(':
		d.round++
		return false
	case ')':
		if d.round > 0 {
			d.round--
		}
		return false
	case '{':
		d.curly++
		return false
	case '}':
		if d.curly > 0 {
			d.curly--
		}
		return false
	case '[':
		d.square++
		return false
	case ']':
		if d.square > 0 {
			d.square--
		}
		return false
	}

	return d.atTop()
}

func (d *depthTracker) atTop() bool {
	return d.quote == 0 && d.angle == 0 && d.round == 0 && d.curly == 0 && d.square == 0
}

// findTopLevel returns the index of the first top-level byte matching match,
// or -1.
func findTopLevel(value string, match func(c byte) bool) int {
	var d depthTracker
	for i := 0; i < len(value); i++ {
		if d.step(value[i]) && match(value[i]) {
			return i
		}
	}
	return -1
}

func findTopLevelChar(value string, target byte) int {
	return findTopLevel(value, func(c byte) bool { return c == target })
}

func findTopLevelSpace(value string) int {
	return findTopLevel(value, isSpace)
}

// findTopLevelDash returns the index of the first top-level " - " divider
// (any blank on either side), or -1.
func findTopLevelDash(value string) int {
	var d depthTracker
	for i := 0; i < len(value); i++ {
		if !d.step(value[i]) || !isSpace(value[i]) {
			continue
		}
		if i+2 < len(value) && value[i+1] == '-' && isSpace(value[i+2]) {
			return i
		}
	}
	return -1
}

// splitTopLevel splits value at top-level occurrences of sep. Parts are
// trimmed and empty parts dropped.
func splitTopLevel(value string, sep byte) []string {
	var parts []string
	var d depthTracker
	start := 0
	for i := 0; i < len(value); i++ {
		if d.step(value[i]) && value[i] == sep {
			if part := strings.TrimSpace(value[start:i]); part != "" {
				parts = append(parts, part)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(value[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

// findMatchingAngle returns the index of the '>' closing the '<' at start.
func findMatchingAngle(value string, start int) int {
	return findMatching(value, start, '<', '>')
}

// findMatchingParen returns the index of the ')' closing the '(' at start.
func findMatchingParen(value string, start int) int {
	return findMatching(value, start, '(', ')')
}

func findMatching(value string, start int, open, close byte) int {
	if start < 0 || start >= len(value) || value[start] != open {
		return -1
	}

	depth := 0
	var quote byte
	escaped := false
	for i := start; i < len(value); i++ {
		c := value[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case open:
			depth++
		case close:
			// "->" inside a function type is not a closing angle bracket.
			if close == '>' && i > 0 && value[i-1] == '-' {
				continue
			}
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
