package main

import (
	"errors"

	"github.com/spf13/cobra"

	"typeshape/internal/analyze"
	"typeshape/typedesc"
)

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [patterns...]",
		Short: "Classify the types of Go packages",
		Long: `Load Go packages and classify their exported named types.

Patterns are standard Go package patterns. Without arguments the patterns
configured under "patterns" are used.`,
		Example: `  # Report every type of a package
  typeshape inspect ./fixtures/content

  # Show one type as JSON
  typeshape inspect ./fixtures/content --type Article --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if len(patterns) == 0 {
				patterns = a.cfg.Patterns
			}

			if len(patterns) == 0 {
				return errors.New("no package patterns given")
			}

			analyzer := analyze.NewAnalyzer(analyze.WithLogger(a.logger.Named("analyze")))

			table, err := analyzer.LoadPackages(patterns...)
			if err != nil {
				return err
			}

			var types []typedesc.Type
			for _, pkg := range analyzer.Packages() {
				for _, id := range pkg.Types {
					if t, ok := table.Lookup(id); ok {
						types = append(types, t)
					}
				}
			}

			return a.render(cmd, types, analyzer.Diagnostics())
		},
	}
}
