package position

import (
	"fmt"
	"strings"
)

// Highlight renders the line holding pos with a caret run of the given width
// under the offending column. It returns an empty string when the file is
// not part of the map.
func (sm *SourceMap) Highlight(pos Position, width int) string {
	if !pos.IsValid() {
		return ""
	}

	line := sm.GetLine(pos)
	if line == "" && sm.GetFile(pos.Filename) == nil {
		return ""
	}

	if width < 1 {
		width = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4d | %s\n", pos.Line, line)
	b.WriteString("     | ")

	// Keep tabs so the caret lines up with the source line.
	for i := 1; i < pos.Column; i++ {
		if i <= len(line) && line[i-1] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}

	if rest := len(line) - pos.Column + 1; rest > 0 && width > rest {
		width = rest
	}
	b.WriteString(strings.Repeat("^", width))
	b.WriteByte('\n')

	return b.String()
}
