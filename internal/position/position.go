// Package position provides source position tracking for the Ramen compiler.
// Positions are computed against the bundled program text and mapped back to
// the file each byte came from, so diagnostics can name the original source.
package position

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Position represents a single point in source code
type Position struct {
	Filename string // Source file name, empty for anonymous buffers
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SourceFile represents a source file with content and position tracking
type SourceFile struct {
	Filename string   // File path
	Content  string   // Source code content
	Lines    []string // Lines of source code for efficient access
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Content:  content,
		Lines:    strings.Split(content, "\n"),
	}
}

// GetLine returns the specified line (1-based) or empty string if invalid
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.Lines) {
		return ""
	}
	return strings.TrimSuffix(sf.Lines[lineNum-1], "\r")
}

// PositionFromOffset converts a byte offset to a Position
func (sf *SourceFile) PositionFromOffset(offset int) Position {
	if offset < 0 || offset > len(sf.Content) {
		return Position{}
	}

	line := 1
	column := 1
	for i := 0; i < offset; i++ {
		if sf.Content[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}

	return Position{
		Filename: sf.Filename,
		Line:     line,
		Column:   column,
		Offset:   offset,
	}
}

// segment is a file's byte range inside a bundle.
type segment struct {
	start int
	file  *SourceFile
}

// SourceMap maps offsets in a bundled buffer back to the files that were
// concatenated into it. Segments are registered in bundle order.
type SourceMap struct {
	segments []segment
	files    map[string]*SourceFile
}

// NewSourceMap creates a new source map
func NewSourceMap() *SourceMap {
	return &SourceMap{files: make(map[string]*SourceFile)}
}

// AddSegment records that content of filename starts at offset start in the bundle.
func (sm *SourceMap) AddSegment(start int, filename, content string) *SourceFile {
	file := NewSourceFile(filename, content)
	sm.segments = append(sm.segments, segment{start: start, file: file})
	if filename != "" {
		sm.files[filename] = file
	}
	return file
}

// GetFile returns the source file for the given filename
func (sm *SourceMap) GetFile(filename string) *SourceFile {
	return sm.files[filename]
}

// Resolve converts a bundle offset into a position inside the originating file.
// Offsets that fall into separators between files resolve to the end of the
// preceding file.
func (sm *SourceMap) Resolve(offset int) Position {
	if len(sm.segments) == 0 || offset < 0 {
		return Position{}
	}

	i := sort.Search(len(sm.segments), func(i int) bool {
		return sm.segments[i].start > offset
	}) - 1
	if i < 0 {
		return Position{}
	}

	seg := sm.segments[i]
	local := offset - seg.start
	if local > len(seg.file.Content) {
		local = len(seg.file.Content)
	}
	return seg.file.PositionFromOffset(local)
}

// GetLine returns the specified line from the appropriate file
func (sm *SourceMap) GetLine(pos Position) string {
	file := sm.GetFile(pos.Filename)
	if file == nil {
		return ""
	}
	return file.GetLine(pos.Line)
}

// Len returns the number of registered segments.
func (sm *SourceMap) Len() int { return len(sm.segments) }
