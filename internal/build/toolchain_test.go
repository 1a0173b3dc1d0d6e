package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// fakeRunner records commands instead of executing them.
type fakeRunner struct {
	calls []CommandSpec
	run   func(spec CommandSpec, stdout, stderr io.Writer) error
}

func (f *fakeRunner) Run(_ context.Context, spec CommandSpec, stdout, stderr io.Writer) error {
	f.calls = append(f.calls, spec)
	if f.run == nil {
		return nil
	}
	return f.run(spec, stdout, stderr)
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o755); err != nil {
		t.Fatal(err)
	}
}

func fakeHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	plat := HostPlatform()
	touch(t, filepath.Join(dir, plat.Executable("nekoc")))
	touch(t, filepath.Join(dir, plat.Executable("neko")))
	return dir
}

func TestPlatformExecutable(t *testing.T) {
	tests := []struct {
		plat Platform
		want string
	}{
		{Platform{GOOS: "linux", GOARCH: "amd64"}, "neko"},
		{Platform{GOOS: "darwin", GOARCH: "arm64"}, "neko"},
		{Platform{GOOS: "windows", GOARCH: "amd64"}, "neko.exe"},
	}
	for _, tt := range tests {
		t.Run(tt.plat.String(), func(t *testing.T) {
			if got := tt.plat.Executable("neko"); got != tt.want {
				t.Fatalf("Executable() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocateToolchain(t *testing.T) {
	t.Run("configured home", func(t *testing.T) {
		home := fakeHome(t)
		t.Setenv("NEKOPATH", "")
		tc, err := LocateToolchain(home)
		if err != nil {
			t.Fatalf("LocateToolchain: %v", err)
		}
		if tc.Home != home || filepath.Dir(tc.Compiler) != home || filepath.Dir(tc.VM) != home {
			t.Fatalf("unexpected toolchain %+v", tc)
		}
	})

	t.Run("NEKOPATH", func(t *testing.T) {
		home := fakeHome(t)
		t.Setenv("NEKOPATH", home)
		tc, err := LocateToolchain("")
		if err != nil {
			t.Fatalf("LocateToolchain: %v", err)
		}
		if tc.Home != home {
			t.Fatalf("Home = %q, want %q", tc.Home, home)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("NEKOPATH", "")
		t.Setenv("PATH", t.TempDir())
		_, err := LocateToolchain(t.TempDir())
		if !errors.Is(err, ErrToolchainNotFound) {
			t.Fatalf("err = %v, want ErrToolchainNotFound", err)
		}
	})
}

func TestCommandSpecs(t *testing.T) {
	tc := &NekoToolchain{Compiler: "nekoc", VM: "neko"}
	dir := filepath.Join("out", "app")

	compile := tc.CompileCommand(filepath.Join(dir, "app.neko"))
	if compile.Cmd != "nekoc" || compile.WorkDir != dir || len(compile.Args) != 1 || compile.Args[0] != "app.neko" {
		t.Fatalf("bad compile spec: %+v", compile)
	}

	run := tc.RunCommand(filepath.Join(dir, "app.n"))
	if run.Cmd != "neko" || run.WorkDir != dir || run.String() != "neko app.n" {
		t.Fatalf("bad run spec: %+v", run)
	}
}

func bannerRunner(banner string) *fakeRunner {
	return &fakeRunner{run: func(_ CommandSpec, stdout, _ io.Writer) error {
		fmt.Fprint(stdout, banner)
		return errors.New("exit status 1")
	}}
}

func TestVersion(t *testing.T) {
	tc := &NekoToolchain{VM: "neko", Runner: bannerRunner("NekoVM 2.3.0 (c)2005-2019 Haxe Foundation\n  Usage : neko <file>\n")}

	v, err := tc.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v.String() != "2.3.0" {
		t.Fatalf("Version = %s, want 2.3.0", v)
	}

	bad := &NekoToolchain{VM: "neko", Runner: bannerRunner("command not found\n")}
	if _, err := bad.Version(context.Background()); err == nil {
		t.Fatal("expected error for banner without version")
	}
}

func TestCheckVersion(t *testing.T) {
	tc := &NekoToolchain{VM: "neko", Runner: bannerRunner("NekoVM 2.3.0\n")}

	tests := []struct {
		constraint string
		wantErr    bool
	}{
		{">= 2.3", false},
		{"~2.3.0", false},
		{">= 3.0", true},
		{"not a constraint", true},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			_, err := tc.CheckVersion(context.Background(), tt.constraint)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckVersion(%q) err = %v, wantErr %v", tt.constraint, err, tt.wantErr)
			}
		})
	}
}
