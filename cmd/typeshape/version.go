package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			title := color.New(color.FgCyan, color.Bold)
			w := cmd.OutOrStdout()

			for _, kv := range [][2]string{
				{"typeshape version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", runtime.Version()},
			} {
				title.Fprint(w, kv[0])
				fmt.Fprintln(w, kv[1])
			}
		},
	}
}
