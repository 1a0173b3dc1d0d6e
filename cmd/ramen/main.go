// Package main provides the entry point for the ramen tool. It routes
// subcommands to the build, run and inspection handlers.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/ramen-lang/ramen/internal/cli"
	"github.com/ramen-lang/ramen/internal/errors"
)

var subcommands = []cli.CommandInfo{
	{
		Name:        "build",
		Usage:       "ramen build [-o dir] [-config file] <projectdir>...",
		Description: "Build Ramen projects into NekoVM source",
		Examples:    []string{"ramen build ./hello", "ramen build -o out ./app ./tools"},
		Flags: []cli.FlagInfo{
			{Name: "o", Usage: "output directory"},
			{Name: "config", Usage: "config file", Default: "<projectdir>/ramen.json"},
			{Name: "verbose", Usage: "verbose output"},
			{Name: "debug", Usage: "debug output"},
		},
	},
	{Name: "init", Usage: "ramen init [-name n] [dir]", Description: "Create ramen.json and a starter main.ramen"},
	{Name: "compile", Usage: "ramen compile [-o file] <file.ramen>...", Description: "Transpile single files without prelude or entry call"},
	{Name: "run", Usage: "ramen run [-timeout d] [-config file] <file.neko|projectdir>", Description: "Compile and run a program on NekoVM"},
	{Name: "watch", Usage: "ramen watch [-o dir] [-config file] <projectdir>", Description: "Rebuild a project whenever its sources change"},
	{Name: "tokens", Usage: "ramen tokens <file.ramen>", Description: "Print the token stream of a file"},
	{Name: "ast", Usage: "ramen ast [-dump] <file.ramen>", Description: "Print the syntax tree of a file"},
	{Name: "version", Usage: "ramen version [--json]", Description: "Show version information"},
	{Name: "help", Usage: "ramen help", Description: "Show this help"},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch sub {
	case "help", "-h", "--help":
		if len(args) > 0 {
			if cmd, ok := lookupSubcommand(args[0]); ok {
				cli.WriteCommandUsage(os.Stdout, cmd)
				return
			}
		}
		usage()
	case "version", "-v", "--version":
		jsonOutput := false
		for _, arg := range args {
			if arg == "--json" || arg == "-j" {
				jsonOutput = true
				break
			}
		}
		must(cli.WriteVersion(os.Stdout, "ramen", jsonOutput))
	case "build":
		must(buildCmd(ctx, args))
	case "init":
		must(initCmd(args))
	case "compile":
		must(compileCmd(args))
	case "run":
		must(runCmd(ctx, args))
	case "watch":
		must(watchCmd(ctx, args))
	case "tokens":
		must(tokensCmd(os.Stdout, args))
	case "ast":
		must(astCmd(os.Stdout, args))
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", sub)
		if hint := suggestSubcommand(sub); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		usage()
		os.Exit(2)
	}
}

func usage() {
	cli.WriteUsage(os.Stdout, "ramen", subcommands)
}

func lookupSubcommand(name string) (cli.CommandInfo, bool) {
	for _, c := range subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return cli.CommandInfo{}, false
}

func suggestSubcommand(name string) string {
	names := make([]string, len(subcommands))
	for i, c := range subcommands {
		names[i] = c.Name
	}
	return errors.Suggest(name, names)
}

func must(err error) {
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(codeFromErr(err))
	}
}

// usageError marks a malformed command line.
type usageError struct{ usage string }

func (e usageError) Error() string { return "usage: " + e.usage }

func codeFromErr(err error) int {
	var ue usageError
	if stderrors.As(err, &ue) {
		return 2
	}
	return 1
}
