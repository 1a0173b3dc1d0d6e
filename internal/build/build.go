// Package build turns Ramen projects into NekoVM programs and drives the
// Neko toolchain to run them.
package build

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ramen-lang/ramen/internal/ast"
	"github.com/ramen-lang/ramen/internal/codegen"
	rerrors "github.com/ramen-lang/ramen/internal/errors"
	"github.com/ramen-lang/ramen/internal/position"
)

// OutputExt is the extension of generated NekoVM source.
const OutputExt = ".neko"

// Logger is the subset of cli.Logger the build uses.
type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Options controls a project build.
type Options struct {
	Prelude   []string // Neko files placed before the program
	Entry     string   // function called after the program; defaults to Main
	OutputDir string   // defaults to the current directory
	Logger    Logger
}

func (o Options) logger() Logger {
	if o.Logger == nil {
		return nopLogger{}
	}
	return o.Logger
}

// Artifact describes a generated program.
type Artifact struct {
	Project   *Project
	Path      string
	Variables []string
	Duration  time.Duration
}

// BuildProject compiles every Ramen file under dir into a single
// <project>.neko file.
func BuildProject(ctx context.Context, dir string, opts Options) (*Artifact, error) {
	log := opts.logger()
	start := time.Now()

	project, err := LoadProject(dir)
	if err != nil {
		return nil, err
	}
	sources, err := project.Bundle()
	if err != nil {
		return nil, err
	}
	log.Debug("project %s: bundling %s", project.Name, strings.Join(sources.Names(), ", "))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := codegen.CompileDetailed(sources.Text())
	if err != nil {
		return nil, locate(err, sources.SourceMap())
	}
	log.Debug("project %s: %d tokens, %d nodes", project.Name, len(res.Tokens), countNodes(res.Program))

	out := NewBundle()
	for _, p := range opts.Prelude {
		if err := out.AddFile(p); err != nil {
			return nil, err
		}
	}
	out.AddSource(project.Name, res.Output)
	out.AddSource("entry", codegen.EntryCall(opts.Entry))

	path := filepath.Join(opts.OutputDir, project.Name+OutputExt)
	if err := writeFile(path, out.Text()); err != nil {
		return nil, err
	}

	art := &Artifact{Project: project, Path: path, Variables: res.Variables, Duration: time.Since(start)}
	log.Info("built %s -> %s (%s)", project.Name, path, art.Duration.Round(time.Millisecond))
	return art, nil
}

// CompileFile transpiles a single Ramen file. No prelude or entry call is
// added. When output is empty the file is written next to the input.
func CompileFile(path, output string) (string, error) {
	sources := NewBundle()
	if err := sources.AddFile(path); err != nil {
		return "", err
	}

	text, err := codegen.Compile(sources.Text())
	if err != nil {
		return "", locate(err, sources.SourceMap())
	}

	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + OutputExt
	}
	if err := writeFile(output, text); err != nil {
		return "", err
	}
	return output, nil
}

func countNodes(program *ast.Program) int {
	n := 0
	ast.Inspect(program, func(ast.Node) bool {
		n++
		return true
	})
	return n
}

// locate rewrites the position of a compile error from bundle offsets to
// the originating file and attaches a source excerpt.
func locate(err error, sm *position.SourceMap) error {
	var ce *rerrors.CompileError
	if sm.Len() == 0 || !stderrors.As(err, &ce) || !ce.Pos.IsValid() {
		return err
	}
	pos := sm.Resolve(ce.Pos.Offset)
	if !pos.IsValid() {
		return err
	}
	out := ce.WithPosition(pos)
	out.Context = sm.Highlight(pos, len(ce.Token))
	return out
}

func writeFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Run compiles a generated program to bytecode with nekoc, executes it with
// neko and removes the bytecode afterwards.
func Run(ctx context.Context, tc *NekoToolchain, program string, stdout, stderr io.Writer) error {
	if _, err := os.Stat(program); err != nil {
		return err
	}
	runner := tc.runner()

	var diag strings.Builder
	compile := tc.CompileCommand(program)
	if err := runner.Run(ctx, compile, stdout, io.MultiWriter(stderr, &diag)); err != nil {
		return rerrors.NewToolchainFailure(err, "%s failed: %s", filepath.Base(tc.Compiler), strings.TrimSpace(diag.String()))
	}

	bytecode := strings.TrimSuffix(program, filepath.Ext(program)) + ".n"
	defer os.Remove(bytecode)

	if err := runner.Run(ctx, tc.RunCommand(bytecode), stdout, stderr); err != nil {
		return rerrors.NewToolchainFailure(err, "%s %s failed", filepath.Base(tc.VM), filepath.Base(bytecode))
	}
	return nil
}
