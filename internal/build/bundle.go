package build

import (
	"fmt"
	"os"
	"strings"

	"github.com/ramen-lang/ramen/internal/position"
)

// bundleSeparator follows every source in a bundle.
const bundleSeparator = "\n\n"

// Bundle concatenates sources into one buffer, in the order they are added,
// and remembers where each one starts.
type Bundle struct {
	b       strings.Builder
	names   []string
	sources *position.SourceMap
}

// NewBundle creates an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{sources: position.NewSourceMap()}
}

// AddSource appends text under the given name.
func (b *Bundle) AddSource(name, text string) {
	b.sources.AddSegment(b.b.Len(), name, text)
	b.names = append(b.names, name)
	b.b.WriteString(text)
	b.b.WriteString(bundleSeparator)
}

// AddFile appends the contents of path.
func (b *Bundle) AddFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	b.AddSource(path, string(data))
	return nil
}

// AddFiles appends every file in order, stopping at the first failure.
func (b *Bundle) AddFiles(paths []string) error {
	for _, p := range paths {
		if err := b.AddFile(p); err != nil {
			return err
		}
	}
	return nil
}

// Text returns the bundled buffer.
func (b *Bundle) Text() string { return b.b.String() }

// Names returns the source names in bundle order.
func (b *Bundle) Names() []string { return append([]string(nil), b.names...) }

// SourceMap maps offsets in Text back to the originating source.
func (b *Bundle) SourceMap() *position.SourceMap { return b.sources }
