package cli

import (
	"bytes"
	"strings"
	"testing"
)

var testCommands = []CommandInfo{
	{
		Name:        "build",
		Usage:       "ramen build <projectdir>...",
		Description: "Build projects",
		Flags:       []FlagInfo{{Name: "o", Usage: "output directory"}, {Name: "config", Usage: "config file", Default: "ramen.json"}},
		Examples:    []string{"ramen build ./hello"},
	},
	{Name: "version", Usage: "ramen version", Description: "Show version information"},
}

func TestWriteUsage(t *testing.T) {
	var buf bytes.Buffer
	WriteUsage(&buf, "ramen", testCommands)
	out := buf.String()

	for _, want := range []string{"Usage: ramen <command>", "  build    Build projects\n", "  version  Show version information\n", `"ramen help <command>"`} {
		if !strings.Contains(out, want) {
			t.Errorf("usage missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCommandUsage(t *testing.T) {
	var buf bytes.Buffer
	WriteCommandUsage(&buf, testCommands[0])
	out := buf.String()

	for _, want := range []string{"Usage: ramen build <projectdir>...", "Build projects.", "  -o       output directory\n", "(default ramen.json)", "  ramen build ./hello\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("command usage missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	WriteCommandUsage(&buf, testCommands[1])
	if strings.Contains(buf.String(), "Flags:") || strings.Contains(buf.String(), "Examples:") {
		t.Fatalf("empty sections printed:\n%s", buf.String())
	}
}
