package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dryad/internal/exprlang"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Show tree, memory and subexpression statistics",
		Long: `The stats command parses a program and reports node counts by kind,
arena and interner usage, and how many expressions are structurally equal to
an earlier one.

Example:
  dryadctl stats prog.dy
  dryadctl stats prog.dy --mmap
  dryadctl stats prog.dy --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := currentConfig(cmd)
			if err != nil {
				return err
			}
			return runStats(args[0], cfg)
		},
	}
	return cmd
}

// ProgramStats is the report of the stats command.
type ProgramStats struct {
	File string `json:"file"`
	exprlang.Stats
}

func runStats(path string, cfg config) error {
	u, err := parseFile(path, cfg)
	if err != nil {
		return err
	}
	defer u.Release()

	stats := ProgramStats{File: path, Stats: exprlang.CollectStats(u)}
	if jsonOut {
		return printJSON(stats)
	}

	// Text output
	printInfo("\nProgram Statistics: %s\n", path)
	printInfo("%s\n\n", strings.Repeat("═", 40))

	printInfo("Structure:\n")
	printInfo("  Total Nodes: %s\n", formatNumber(int64(stats.Total)))
	type kindCount struct {
		Kind  string
		Count int
	}
	var kinds []kindCount
	for k, c := range stats.Nodes {
		kinds = append(kinds, kindCount{k, c})
	}
	sort.Slice(kinds, func(i, j int) bool {
		if kinds[i].Count != kinds[j].Count {
			return kinds[i].Count > kinds[j].Count
		}
		return kinds[i].Kind < kinds[j].Kind
	})
	for _, kc := range kinds {
		percentage := float64(kc.Count) * 100.0 / float64(stats.Total)
		printInfo("  %s: %s (%.1f%%)\n", kc.Kind, formatNumber(int64(kc.Count)), percentage)
	}
	printInfo("\n")

	printInfo("Arena:\n")
	printInfo("  Blocks: %d of %s\n", stats.Arena.Blocks, formatBytes(int64(stats.Arena.BlockSize)))
	printInfo("  Bytes In Use: %s\n", formatBytes(int64(stats.Arena.BytesInUse)))
	printInfo("  Node Slabs: %d (%s live values)\n\n", stats.Arena.Slabs, formatNumber(int64(stats.Arena.SlabElements)))

	printInfo("Symbols:\n")
	printInfo("  Distinct Names: %s\n", formatNumber(int64(stats.Symbols.Symbols)))
	printInfo("  Text: %s in %d buffer(s) of %s\n",
		formatBytes(int64(stats.Symbols.TextBytes)), stats.Symbols.Buffers, formatBytes(int64(stats.Symbols.BufferBytes)))
	printInfo("  Index Slots: %s\n\n", formatNumber(int64(stats.Symbols.TableCap)))

	printInfo("Common Subexpressions:\n")
	printInfo("  Expressions: %s\n", formatNumber(int64(stats.CSE.Expressions)))
	printInfo("  Unique: %s\n", formatNumber(int64(stats.CSE.Unique)))
	if stats.CSE.Expressions > 0 {
		percentage := float64(stats.CSE.Duplicates) * 100.0 / float64(stats.CSE.Expressions)
		printInfo("  Duplicates: %s (%.1f%%)\n", formatNumber(int64(stats.CSE.Duplicates)), percentage)
	}
	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	// Add commas
	var result strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
