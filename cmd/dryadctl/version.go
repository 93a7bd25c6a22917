package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	})
}

// printVersion writes rootCmd.Version and, when the binary carries build
// information, the dryad module version and VCS revision.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "dryadctl %s\n", rootCmd.Version)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fmt.Fprintf(w, "  go: %s\n", info.GoVersion)
	for _, dep := range info.Deps {
		if dep.Path == "github.com/joshuapare/dryad" {
			fmt.Fprintf(w, "  dryad: %s\n", dep.Version)
		}
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			fmt.Fprintf(w, "  commit: %s\n", s.Value)
		case "vcs.time":
			fmt.Fprintf(w, "  built: %s\n", s.Value)
		}
	}
}
