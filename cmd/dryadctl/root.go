package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dryad/internal/logger"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	jsonOut      bool
	encodingName string
	useMmap      bool
	normalize    bool
	blockSize    int
	configPath   string
)

var rootCmd = &cobra.Command{
	Use:   "dryadctl",
	Short: "Parse, dump and evaluate dryad expression programs",
	Long: `dryadctl drives the dryad example expression language. It parses a
program into an arena-backed tree, prints the tree, evaluates it, and reports
memory and common-subexpression statistics.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Enabled: verbose && !quiet,
			Level:   slog.LevelDebug,
		})
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logs")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&encodingName, "encoding", "", "Source encoding: utf-8, windows-1252, iso-8859-1, iso-8859-15")
	rootCmd.PersistentFlags().BoolVar(&useMmap, "mmap", false, "Back arenas with anonymous memory maps")
	rootCmd.PersistentFlags().BoolVar(&normalize, "normalize", false, "NFC-normalize names before interning")
	rootCmd.PersistentFlags().IntVar(&blockSize, "block-size", 0, "Arena block size in bytes (0 = default)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
