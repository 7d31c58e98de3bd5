package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"typeshape/internal/diagnostic"
	"typeshape/internal/manifest"
	"typeshape/typedesc"
)

func newManifestCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest [files...]",
		Short: "Classify the types declared in YAML manifests",
		Long: `Build a descriptor table from YAML manifests and classify the declared types.

Files are built in order into one table, so later manifests may refer to the
types of earlier ones. Without arguments the files configured under
"manifests" are used.`,
		Example: `  # Report the types of a manifest
  typeshape manifest cms.yaml

  # Build two manifests, the second using types of the first
  typeshape manifest cms.yaml blog.yaml --format dump`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				files = a.cfg.Manifests
			}

			if len(files) == 0 {
				return errors.New("no manifest files given")
			}

			table := typedesc.NewTable()
			builder := manifest.NewBuilder(table, manifest.WithLogger(a.logger.Named("manifest")))

			var (
				types []typedesc.Type
				diags diagnostic.Diagnostics
			)

			for _, path := range files {
				f, err := manifest.LoadFile(path)
				if err != nil {
					return err
				}

				built, d := builder.Build(f)
				diags.Merge(*d)
				types = append(types, built...)

				a.logger.Debug("manifest loaded", zap.String("path", path), zap.Int("types", len(built)))
			}

			return a.render(cmd, types, diags)
		},
	}
}
