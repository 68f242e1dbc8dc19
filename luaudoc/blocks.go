package luaudoc

import "strings"

const (
	shortMarker     = "---"
	longOpenMarker  = "--[=["
	longCloseMarker = "]=]"
)

// DocBlock is a contiguous doc comment with its markers stripped.
type DocBlock struct {
	StartLine int // 1-based line of the opening marker
	EndLine   int // 1-based line of the closing marker, inclusive
	Lines     []string
	Long      bool // opened with --[=[
}

// splitLines splits raw file content into lines, accepting \n and \r\n.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// extractDocBlocks returns every --- and --[=[ ]=] block in source order.
// Plain -- comments are not doc blocks.
func extractDocBlocks(lines []string) []DocBlock {
	var blocks []DocBlock

	for index := 0; index < len(lines); {
		trimmed := strings.TrimSpace(lines[index])

		if strings.HasPrefix(trimmed, shortMarker) {
			start := index
			var content []string
			for index < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[index]), shortMarker) {
				content = append(content, stripShortMarker(lines[index]))
				index++
			}
			blocks = append(blocks, DocBlock{
				StartLine: start + 1,
				EndLine:   index,
				Lines:     content,
			})
			continue
		}

		if strings.HasPrefix(trimmed, longOpenMarker) {
			content, end := readLongBlock(lines, index)
			blocks = append(blocks, DocBlock{
				StartLine: index + 1,
				EndLine:   end + 1,
				Lines:     content,
				Long:      true,
			})
			index = end + 1
			continue
		}

		index++
	}

	return blocks
}

// stripShortMarker removes leading blanks, the --- marker and one optional
// blank after it.
func stripShortMarker(line string) string {
	rest := strings.TrimLeft(line, " \t")
	rest = strings.TrimPrefix(rest, shortMarker)
	if rest != "" && isSpace(rest[0]) {
		rest = rest[1:]
	}
	return rest
}

// readLongBlock collects a --[=[ block opened on lines[start]. It returns the
// content and the 0-based index of the closing line, or the last line when the
// block is never closed.
func readLongBlock(lines []string, start int) ([]string, int) {
	var content []string

	opener := lines[start]
	after := opener[strings.Index(opener, longOpenMarker)+len(longOpenMarker):]
	if closeIdx := strings.Index(after, longCloseMarker); closeIdx != -1 {
		if text := after[:closeIdx]; text != "" {
			content = append(content, text)
		}
		return content, start
	}
	if after != "" {
		content = append(content, after)
	}

	for index := start + 1; index < len(lines); index++ {
		line := lines[index]
		if closeIdx := strings.Index(line, longCloseMarker); closeIdx != -1 {
			if before := line[:closeIdx]; before != "" {
				content = append(content, before)
			}
			return content, index
		}
		content = append(content, line)
	}

	return content, len(lines) - 1
}
