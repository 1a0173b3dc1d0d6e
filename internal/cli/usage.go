package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// CommandInfo describes one subcommand for help output.
type CommandInfo struct {
	Name        string
	Usage       string
	Description string
	Examples    []string
	Flags       []FlagInfo
}

// FlagInfo describes one flag of a subcommand.
type FlagInfo struct {
	Name    string
	Usage   string
	Default string
}

// WriteUsage prints the command overview.
func WriteUsage(w io.Writer, tool string, commands []CommandInfo) {
	fmt.Fprintf(w, "%s compiles Ramen projects to NekoVM source.\n\n", tool)
	fmt.Fprintf(w, "Usage: %s <command> [arguments]\n\n", tool)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Name, cmd.Description)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nRun \"%s help <command>\" for details on a command.\n", tool)
}

// WriteCommandUsage prints the help of a single command.
func WriteCommandUsage(w io.Writer, cmd CommandInfo) {
	fmt.Fprintf(w, "Usage: %s\n\n%s.\n", cmd.Usage, cmd.Description)

	if len(cmd.Flags) > 0 {
		fmt.Fprintln(w, "\nFlags:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, f := range cmd.Flags {
			line := "  -" + f.Name + "\t" + f.Usage
			if f.Default != "" {
				line += " (default " + f.Default + ")"
			}
			fmt.Fprintln(tw, line)
		}
		tw.Flush()
	}

	if len(cmd.Examples) > 0 {
		fmt.Fprintln(w, "\nExamples:")
		for _, ex := range cmd.Examples {
			fmt.Fprintf(w, "  %s\n", ex)
		}
	}
}
