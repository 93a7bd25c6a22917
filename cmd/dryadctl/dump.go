package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joshuapare/dryad"
	"github.com/joshuapare/dryad/internal/exprlang"
)

var (
	dumpEvents bool
	dumpIndent string
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpEvents, "events", false, "Print traversal events, exits included")
	cmd.Flags().StringVar(&dumpIndent, "indent", "", "Indent per level (default depends on the terminal)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the syntax tree of a program",
		Long: `The dump command parses a program and prints its tree, one node per line,
indented by depth.

Example:
  dryadctl dump prog.dy
  dryadctl dump prog.dy --events
  dryadctl dump prog.dy --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := currentConfig(cmd)
			if err != nil {
				return err
			}
			return runDump(args[0], cfg)
		},
	}
	return cmd
}

// dumpLine is one traversal event in JSON output.
type dumpLine struct {
	Depth int    `json:"depth"`
	Event string `json:"event"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// treeIndent draws guide lines on a terminal and plain spaces otherwise.
func treeIndent() string {
	if dumpIndent != "" {
		return dumpIndent
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "│ "
	}
	return "  "
}

func runDump(path string, cfg config) error {
	u, err := parseFile(path, cfg)
	if err != nil {
		return err
	}
	defer u.Release()

	if jsonOut {
		var lines []dumpLine
		depth := 0
		for ev, n := range dryad.Traverse[exprlang.Kind](u.Program) {
			if ev == dryad.EventExit {
				depth--
				if !dumpEvents {
					continue
				}
			}
			lines = append(lines, dumpLine{
				Depth: depth,
				Event: ev.String(),
				Kind:  n.Kind().String(),
				Label: u.Label(n),
			})
			if ev == dryad.EventEnter {
				depth++
			}
		}
		return printJSON(lines)
	}

	if quiet {
		return nil
	}
	return exprlang.Dump(os.Stdout, u, exprlang.DumpOptions{
		Events: dumpEvents,
		Indent: treeIndent(),
	})
}
