package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ramen-lang/ramen/internal/cli"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildProjects(t *testing.T) {
	t.Setenv("RAMEN_NEKO_HOME", "")
	t.Setenv("RAMEN_VERBOSE", "")

	root := t.TempDir()
	var dirs []string
	for i := 0; i < 3; i++ {
		dir := filepath.Join(root, fmt.Sprintf("p%d", i))
		mustWrite(t, filepath.Join(dir, "main.ramen"), fmt.Sprintf("var x = %d;", i))
		dirs = append(dirs, dir)
	}
	out := t.TempDir()

	arts, err := buildProjects(context.Background(), dirs, &projectFlags{output: out})
	if err != nil {
		t.Fatalf("buildProjects: %v", err)
	}
	for i, art := range arts {
		data, err := os.ReadFile(art.Path)
		if err != nil {
			t.Fatal(err)
		}
		want := fmt.Sprintf("var x = %d;\n\nMain()\n\n", i)
		if string(data) != want {
			t.Fatalf("project %d output = %q, want %q", i, data, want)
		}
	}
}

func TestBuildProjectsUsesConfig(t *testing.T) {
	t.Setenv("RAMEN_NEKO_HOME", "")
	t.Setenv("RAMEN_VERBOSE", "")

	dir := filepath.Join(t.TempDir(), "app")
	mustWrite(t, filepath.Join(dir, "main.ramen"), "fun Start { }")
	mustWrite(t, filepath.Join(dir, "prelude.neko"), "var p = 1;")
	mustWrite(t, filepath.Join(dir, "ramen.json"), `{"entry": "Start", "prelude": ["prelude.neko"], "output": "out"}`)

	arts, err := buildProjects(context.Background(), []string{dir}, &projectFlags{})
	if err != nil {
		t.Fatalf("buildProjects: %v", err)
	}
	if arts[0].Path != filepath.Join(dir, "out", "app.neko") {
		t.Fatalf("Path = %q", arts[0].Path)
	}
	data, err := os.ReadFile(arts[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "var p = 1;\n\n") || !strings.HasSuffix(string(data), "Start()\n\n") {
		t.Fatalf("output = %q", data)
	}
}

func TestBuildProjectsFailure(t *testing.T) {
	t.Setenv("RAMEN_NEKO_HOME", "")
	t.Setenv("RAMEN_VERBOSE", "")

	good := filepath.Join(t.TempDir(), "good")
	bad := filepath.Join(t.TempDir(), "bad")
	mustWrite(t, filepath.Join(good, "main.ramen"), "var x;")
	mustWrite(t, filepath.Join(bad, "main.ramen"), "break;")

	_, err := buildProjects(context.Background(), []string{good, bad}, &projectFlags{output: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "IllegalControlFlow") {
		t.Fatalf("err = %v, want IllegalControlFlow", err)
	}
}

func TestTokensCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.ramen")
	mustWrite(t, path, "x = 1;")

	var buf bytes.Buffer
	if err := tokensCmd(&buf, []string{path}); err != nil {
		t.Fatalf("tokensCmd: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d tokens, want 5:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "IDENTIFIER") || !strings.Contains(lines[4], "EOF") {
		t.Fatalf("unexpected tokens:\n%s", buf.String())
	}

	if err := tokensCmd(&buf, nil); codeFromErr(err) != 2 {
		t.Fatalf("missing argument: err = %v", err)
	}
}

func TestAstCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.ramen")
	mustWrite(t, path, "var x = 1;")

	var buf bytes.Buffer
	if err := astCmd(&buf, []string{path}); err != nil {
		t.Fatalf("astCmd: %v", err)
	}
	if got := buf.String(); got != "var x = 1\n\n" {
		t.Fatalf("source form = %q", got)
	}

	buf.Reset()
	if err := astCmd(&buf, []string{"-dump", path}); err != nil {
		t.Fatalf("astCmd -dump: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Program") || !strings.Contains(buf.String(), "VariableInitialization") {
		t.Fatalf("dump = %q", buf.String())
	}
}

func TestSuggestSubcommand(t *testing.T) {
	tests := map[string]string{
		"biuld":  `did you mean "build"?`,
		"wacth":  `did you mean "watch"?`,
		"build":  "",
		"qqqqqq": "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := suggestSubcommand(in); got != want {
				t.Fatalf("suggestSubcommand(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestReportError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	mustWrite(t, filepath.Join(dir, "main.ramen"), "var x = [1, a = 2];")

	_, err := buildProjects(context.Background(), []string{dir}, &projectFlags{output: t.TempDir()})
	if err == nil {
		t.Fatal("expected a build error")
	}

	var buf bytes.Buffer
	reportError(&buf, err)
	out := buf.String()
	if !strings.HasPrefix(out, "Error: build ") || !strings.Contains(out, "var x = [1, a = 2];") {
		t.Fatalf("report = %q", out)
	}

	buf.Reset()
	reportError(&buf, stderrors.New("plain"))
	if buf.String() != "Error: plain\n" {
		t.Fatalf("plain report = %q", buf.String())
	}
}

func TestInitCmd(t *testing.T) {
	t.Setenv("RAMEN_NEKO_HOME", "")
	t.Setenv("RAMEN_VERBOSE", "")

	dir := filepath.Join(t.TempDir(), "greeter")
	if err := initCmd([]string{dir}); err != nil {
		t.Fatalf("initCmd: %v", err)
	}

	cfg, err := cli.LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfig: %v", err)
	}
	if cfg.Name != "greeter" || cfg.Version != "0.1.0" || cfg.Entry != "Main" {
		t.Fatalf("config = %+v", cfg)
	}

	arts, err := buildProjects(context.Background(), []string{dir}, &projectFlags{output: t.TempDir()})
	if err != nil {
		t.Fatalf("starter project does not build: %v", err)
	}
	data, err := os.ReadFile(arts[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	want := "var Main = function() {\n$print(\"hello from ramen\")\n\n}\n\n\nMain()\n\n"
	if string(data) != want {
		t.Fatalf("output = %q, want %q", data, want)
	}

	if err := initCmd([]string{dir}); err == nil {
		t.Fatal("expected error when ramen.json already exists")
	}
}

func TestInitCmdKeepsExistingSources(t *testing.T) {
	t.Setenv("RAMEN_NEKO_HOME", "")
	t.Setenv("RAMEN_VERBOSE", "")

	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "lib", "util.ramen"), "var x;")
	if err := initCmd([]string{"-name", "tools", dir}); err != nil {
		t.Fatalf("initCmd: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.ramen")); !os.IsNotExist(err) {
		t.Fatalf("main.ramen written next to existing sources: %v", err)
	}
	cfg, err := cli.LoadProjectConfig(dir)
	if err != nil || cfg.Name != "tools" {
		t.Fatalf("config = %+v, %v", cfg, err)
	}
}
