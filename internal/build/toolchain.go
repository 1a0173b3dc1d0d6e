package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"

	semver "github.com/Masterminds/semver/v3"
	"golang.org/x/sys/execabs"
)

// Platform represents the host the Neko binaries run on.
type Platform struct {
	GOOS   string
	GOARCH string
}

func (p Platform) String() string { return p.GOOS + "/" + p.GOARCH }

// Executable returns the file name of a binary on this platform.
func (p Platform) Executable(name string) string {
	if p.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// HostPlatform returns the current runtime's GOOS/GOARCH.
func HostPlatform() Platform { return Platform{GOOS: runtime.GOOS, GOARCH: runtime.GOARCH} }

// CommandSpec describes a command to be executed by a Runner.
type CommandSpec struct {
	Env     map[string]string
	WorkDir string
	Cmd     string
	Args    []string
}

func (c CommandSpec) String() string {
	s := c.Cmd
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// Runner executes commands. Tests substitute a recorder.
type Runner interface {
	Run(ctx context.Context, spec CommandSpec, stdout, stderr io.Writer) error
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, spec CommandSpec, stdout, stderr io.Writer) error {
	cmd := execabs.CommandContext(ctx, spec.Cmd, spec.Args...)
	cmd.Dir = spec.WorkDir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if len(spec.Env) > 0 {
		keys := make([]string, 0, len(spec.Env))
		for k := range spec.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cmd.Env = os.Environ()
		for _, k := range keys {
			cmd.Env = append(cmd.Env, k+"="+spec.Env[k])
		}
	}
	return cmd.Run()
}

// ErrToolchainNotFound is returned when nekoc or neko cannot be located.
var ErrToolchainNotFound = errors.New("neko toolchain not found")

// NekoToolchain locates and drives the NekoVM compiler (nekoc) and VM (neko).
type NekoToolchain struct {
	Home     string // directory holding the binaries, empty when found on PATH
	Compiler string
	VM       string
	Runner   Runner
}

// LocateToolchain finds nekoc and neko. It looks in home first, then in
// $NEKOPATH, then on PATH.
func LocateToolchain(home string) (*NekoToolchain, error) {
	plat := HostPlatform()
	nekoc, neko := plat.Executable("nekoc"), plat.Executable("neko")

	for _, dir := range []string{home, os.Getenv("NEKOPATH")} {
		if dir == "" {
			continue
		}
		c, v := filepath.Join(dir, nekoc), filepath.Join(dir, neko)
		if isFile(c) && isFile(v) {
			return &NekoToolchain{Home: dir, Compiler: c, VM: v, Runner: ExecRunner{}}, nil
		}
	}

	c, err := execabs.LookPath(nekoc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolchainNotFound, err)
	}
	v, err := execabs.LookPath(neko)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolchainNotFound, err)
	}
	return &NekoToolchain{Compiler: c, VM: v, Runner: ExecRunner{}}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (tc *NekoToolchain) runner() Runner {
	if tc.Runner == nil {
		return ExecRunner{}
	}
	return tc.Runner
}

// CompileCommand creates the CommandSpec that turns source into bytecode.
// nekoc writes the .n file next to its input.
func (tc *NekoToolchain) CompileCommand(source string) CommandSpec {
	return CommandSpec{Cmd: tc.Compiler, Args: []string{filepath.Base(source)}, WorkDir: filepath.Dir(source)}
}

// RunCommand creates the CommandSpec that executes bytecode.
func (tc *NekoToolchain) RunCommand(bytecode string) CommandSpec {
	return CommandSpec{Cmd: tc.VM, Args: []string{filepath.Base(bytecode)}, WorkDir: filepath.Dir(bytecode)}
}

var versionPattern = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// Version asks the VM for its banner and extracts the version number.
func (tc *NekoToolchain) Version(ctx context.Context) (*semver.Version, error) {
	var out bytes.Buffer
	// The VM prints its banner and usage and exits non-zero without arguments.
	_ = tc.runner().Run(ctx, CommandSpec{Cmd: tc.VM}, &out, &out)

	m := versionPattern.FindString(out.String())
	if m == "" {
		return nil, fmt.Errorf("cannot determine neko version from %q", firstLine(out.String()))
	}
	return semver.NewVersion(m)
}

// CheckVersion verifies the VM satisfies constraint, e.g. ">= 2.3".
func (tc *NekoToolchain) CheckVersion(ctx context.Context, constraint string) (*semver.Version, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid neko version constraint %q: %w", constraint, err)
	}
	v, err := tc.Version(ctx)
	if err != nil {
		return nil, err
	}
	if !c.Check(v) {
		return v, fmt.Errorf("neko %s does not satisfy %s", v, constraint)
	}
	return v, nil
}

func firstLine(s string) string {
	if i := bytes.IndexByte([]byte(s), '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
