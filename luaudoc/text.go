package luaudoc

import "strings"

// currentClassMarker stands for the most recently declared @class.
const currentClassMarker = "~"

// dedentLines removes the indentation shared by every non-blank line.
func dedentLines(lines []string) []string {
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := len(leadingIndent(line)); minIndent == -1 || n < minIndent {
			minIndent = n
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			out[i] = ""
		case minIndent > 0:
			out[i] = line[minIndent:]
		default:
			out[i] = line
		}
	}
	return out
}

func leadingIndent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// firstNonSpaceColumn is the 1-based column of the first non-blank byte, or 1.
func firstNonSpaceColumn(line string) int {
	if idx := strings.IndexFunc(line, func(r rune) bool { return r > ' ' }); idx != -1 {
		return idx + 1
	}
	return 1
}

func hasWordPrefix(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	if len(s) == len(word) {
		return true
	}
	c := s[len(word)]
	return isSpace(c) || c == ':'
}

func joinDetail(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// joinDescription returns the first non-empty line as the summary and the
// whole text, leading blank lines and trailing blanks removed, as markdown.
func joinDescription(lines []string) (summary, markdown string) {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	markdown = strings.TrimRight(strings.Join(lines[start:], "\n"), " \t\n")
	if markdown == "" {
		return "", ""
	}
	for _, line := range strings.Split(markdown, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, markdown
		}
	}
	return "", markdown
}

// splitTagValue splits at the first top-level blank: "name rest".
func splitTagValue(value string) (string, string) {
	value = strings.TrimSpace(value)
	idx := findTopLevelSpace(value)
	if idx == -1 {
		return value, ""
	}
	return value[:idx], strings.TrimSpace(value[idx+1:])
}

// splitDoubleDash splits "value -- description".
func splitDoubleDash(value string) (string, string) {
	before, after, found := strings.Cut(value, "--")
	if !found {
		return strings.TrimSpace(value), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// splitTypeDescription splits "type -- desc", "type - desc" or "- desc". The
// single dash only counts at the top level so "(a) -> b" stays intact.
func splitTypeDescription(value string) (string, string) {
	value = strings.TrimSpace(value)
	if strings.Contains(value, "--") {
		return splitDoubleDash(value)
	}
	if value == "-" {
		return "", ""
	}
	if strings.HasPrefix(value, "- ") || strings.HasPrefix(value, "-\t") {
		return "", strings.TrimSpace(value[1:])
	}
	if idx := findTopLevelDash(value); idx != -1 {
		return strings.TrimSpace(value[:idx]), strings.TrimSpace(value[idx+3:])
	}
	return value, ""
}

// cutInlineDefault removes a trailing "@default value" from a tag value.
func cutInlineDefault(value string) (rest, def string, found bool) {
	for offset := 0; offset < len(value); {
		idx := strings.Index(value[offset:], "@default")
		if idx == -1 {
			break
		}
		idx += offset
		if (idx == 0 || isSpace(value[idx-1])) && hasWordPrefix(value[idx:], "@default") {
			def = strings.TrimSpace(value[idx+len("@default"):])
			def = strings.TrimSpace(strings.TrimPrefix(def, ":"))
			return strings.TrimSpace(value[:idx]), def, true
		}
		offset = idx + len("@default")
	}
	return value, "", false
}

// stripPrototype removes a trailing ".prototype" from an owner. Members of a
// prototype are always methods.
func stripPrototype(within string) (string, bool) {
	if owner, ok := strings.CutSuffix(within, ".prototype"); ok {
		return owner, true
	}
	return within, false
}
