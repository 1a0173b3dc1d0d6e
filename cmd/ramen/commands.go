package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ramen-lang/ramen/internal/ast"
	"github.com/ramen-lang/ramen/internal/build"
	"github.com/ramen-lang/ramen/internal/cli"
	"github.com/ramen-lang/ramen/internal/codegen"
	"github.com/ramen-lang/ramen/internal/errors"
	"github.com/ramen-lang/ramen/internal/lexer"
)

// projectFlags are shared by the subcommands that build projects.
type projectFlags struct {
	output  string
	config  string
	verbose bool
	debug   bool
}

func (pf *projectFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&pf.output, "o", "", "output directory")
	fs.StringVar(&pf.config, "config", "", "config file (default <projectdir>/"+cli.ConfigFileName+")")
	fs.BoolVar(&pf.verbose, "verbose", false, "verbose output")
	fs.BoolVar(&pf.debug, "debug", false, "debug output")
}

// load reads the configuration for a project and derives build options.
func (pf *projectFlags) load(dir string) (*cli.Config, build.Options, error) {
	var cfg *cli.Config
	var err error
	if pf.config != "" {
		cfg, err = cli.LoadConfig(pf.config)
	} else {
		cfg, err = cli.LoadProjectConfig(dir)
	}
	if err != nil {
		return nil, build.Options{}, err
	}

	opts := build.Options{
		Prelude:   cfg.PreludePaths(),
		Entry:     cfg.Entry,
		OutputDir: cfg.OutputDir(),
		Logger:    cli.NewLogger(cfg.Verbose || pf.verbose, cfg.Debug || pf.debug),
	}
	if pf.output != "" {
		opts.OutputDir = pf.output
	}
	return cfg, opts, nil
}

func commandUsage(name string) usageError {
	if c, ok := lookupSubcommand(name); ok {
		return usageError{usage: c.Usage}
	}
	return usageError{usage: "ramen " + name}
}

// buildCmd builds every project directory concurrently.
func buildCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var pf projectFlags
	pf.register(fs)
	_ = fs.Parse(args)

	dirs := fs.Args()
	if len(dirs) == 0 {
		return commandUsage("build")
	}

	_, err := buildProjects(ctx, dirs, &pf)
	return err
}

func buildProjects(ctx context.Context, dirs []string, pf *projectFlags) ([]*build.Artifact, error) {
	artifacts := make([]*build.Artifact, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			_, opts, err := pf.load(dir)
			if err != nil {
				return err
			}
			art, err := build.BuildProject(gctx, dir, opts)
			if err != nil {
				return fmt.Errorf("build %s: %w", dir, err)
			}
			artifacts[i] = art
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

const helloSource = "fun Main {\n    $print(\"hello from ramen\");\n}\n"

// initCmd writes a ramen.json, and a main.ramen when the directory has no
// sources yet.
func initCmd(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	name := fs.String("name", "", "project name (default directory name)")
	_ = fs.Parse(args)

	dir := "."
	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		dir = rest[0]
	default:
		return commandUsage("init")
	}

	path := filepath.Join(dir, cli.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	cfg := cli.DefaultConfig()
	cfg.Name = *name
	if cfg.Name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		cfg.Name = filepath.Base(abs)
	}
	cfg.Version = "0.1.0"
	if err := cfg.SaveConfig(path); err != nil {
		return err
	}

	sources, err := build.FindSources(dir)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return os.WriteFile(filepath.Join(dir, "main"+build.SourceExt), []byte(helloSource), 0o644)
	}
	return nil
}

// compileCmd transpiles single files.
func compileCmd(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	output := fs.String("o", "", "output file (single input only)")
	_ = fs.Parse(args)

	files := fs.Args()
	if len(files) == 0 || (*output != "" && len(files) > 1) {
		return commandUsage("compile")
	}

	for _, f := range files {
		if _, err := build.CompileFile(f, *output); err != nil {
			return err
		}
	}
	return nil
}

// runCmd runs a generated program. Given a project directory it builds the
// project first.
func runCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var pf projectFlags
	pf.register(fs)
	timeout := fs.Duration("timeout", 0, "optional timeout (e.g., 30s)")
	_ = fs.Parse(args)

	rest := fs.Args()
	if len(rest) != 1 {
		return commandUsage("run")
	}
	target := rest[0]

	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	cfgDir := filepath.Dir(target)
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		cfgDir = target
	}
	cfg, opts, err := pf.load(cfgDir)
	if err != nil {
		return err
	}

	program := target
	if cfgDir == target {
		art, err := build.BuildProject(ctx, target, opts)
		if err != nil {
			return err
		}
		program = art.Path
	}

	tc, err := build.LocateToolchain(cfg.NekoHome)
	if err != nil {
		return err
	}
	if cfg.NekoVersion != "" {
		v, err := tc.CheckVersion(ctx, cfg.NekoVersion)
		if err != nil {
			return err
		}
		opts.Logger.Debug("using neko %s from %s", v, tc.VM)
	}

	return build.Run(ctx, tc, program, os.Stdout, os.Stderr)
}

// watchCmd rebuilds a project until interrupted.
func watchCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var pf projectFlags
	pf.register(fs)
	debounce := fs.Duration("debounce", build.DefaultDebounce, "quiet period before rebuilding")
	_ = fs.Parse(args)

	rest := fs.Args()
	if len(rest) != 1 {
		return commandUsage("watch")
	}

	_, opts, err := pf.load(rest[0])
	if err != nil {
		return err
	}

	w := build.NewWatcher(rest[0], opts, func(art *build.Artifact, err error) {
		if err != nil {
			reportError(os.Stderr, err)
			return
		}
		fmt.Printf("%s rebuilt %s\n", time.Now().Format("15:04:05"), art.Path)
	})
	w.Debounce = *debounce
	return w.Run(ctx)
}

func readSource(args []string, name string) (string, string, error) {
	if len(args) != 1 {
		return "", "", commandUsage(name)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return args[0], string(data), nil
}

// tokensCmd prints one token per line.
func tokensCmd(w io.Writer, args []string) error {
	path, src, err := readSource(args, "tokens")
	if err != nil {
		return err
	}

	tokens, err := lexer.NewWithFilename(src, path).Tokenize()
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		fmt.Fprintln(w, tok)
	}
	return nil
}

// astCmd prints the parsed program in source form, or as an outline with -dump.
func astCmd(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	dump := fs.Bool("dump", false, "print an indented node outline")
	_ = fs.Parse(args)

	_, src, err := readSource(fs.Args(), "ast")
	if err != nil {
		return err
	}

	res, err := codegen.CompileDetailed(src)
	if err != nil {
		return err
	}
	if *dump {
		fmt.Fprint(w, ast.Dump(res.Program))
		return nil
	}
	fmt.Fprint(w, res.Program.String())
	return nil
}

// reportError prints err and, for compile errors, the offending source line.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var ce *errors.CompileError
	if stderrors.As(err, &ce) && ce.Context != "" {
		fmt.Fprint(w, ce.Context)
	}
}
