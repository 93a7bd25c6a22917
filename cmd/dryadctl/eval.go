package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dryad/internal/exprlang"
)

func init() {
	rootCmd.AddCommand(newEvalCmd())
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <file>",
		Short: "Run a program",
		Long: `The eval command parses and resolves a program, reports undefined and
shadowed names, and prints the value of every print statement.

Example:
  dryadctl eval prog.dy
  dryadctl eval prog.dy --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := currentConfig(cmd)
			if err != nil {
				return err
			}
			return runEval(args[0], cfg)
		},
	}
	return cmd
}

// evalResult is the JSON form of a run.
type evalResult struct {
	File        string   `json:"file"`
	Output      []string `json:"output"`
	Diagnostics []string `json:"diagnostics"`
	Evaluated   int      `json:"evaluated"`
}

func runEval(path string, cfg config) error {
	u, err := parseFile(path, cfg)
	if err != nil {
		return err
	}
	defer u.Release()

	res := exprlang.Resolve(u)
	result := evalResult{File: path, Output: []string{}, Diagnostics: []string{}}
	errs := 0
	for _, d := range res.Diagnostics {
		result.Diagnostics = append(result.Diagnostics, d.String())
		if d.Severity == exprlang.SeverityError {
			errs++
		}
		if jsonOut {
			continue
		}
		if d.Severity == exprlang.SeverityError || !quiet {
			fmt.Fprintf(os.Stderr, "%s:%s\n", path, d)
		}
	}
	if errs > 0 {
		if jsonOut {
			if err := printJSON(result); err != nil {
				return err
			}
		}
		return fmt.Errorf("%s: %d error(s)", path, errs)
	}

	var out bytes.Buffer
	ev := exprlang.NewEvaluator(res, &out)
	runErr := ev.Run(u.Program)
	printVerbose("Evaluated %d expressions\n", ev.Evaluated())

	if jsonOut {
		result.Output = strings.Fields(out.String())
		result.Evaluated = ev.Evaluated()
		if err := printJSON(result); err != nil {
			return err
		}
	} else if !quiet {
		if _, err := os.Stdout.Write(out.Bytes()); err != nil {
			return err
		}
	}
	if runErr != nil {
		return fmt.Errorf("%s:%w", path, runErr)
	}
	return nil
}
