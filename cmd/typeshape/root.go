package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"typeshape/infer"
	"typeshape/internal/common"
	"typeshape/internal/config"
	"typeshape/internal/diagnostic"
	"typeshape/internal/logging"
	"typeshape/internal/match"
	"typeshape/internal/report"
	"typeshape/typedesc"
)

var errDiagnostics = errors.New("errors reported")

// app is the state shared by subcommands once flags and configuration are
// resolved.
type app struct {
	configPath string
	typeFilter string

	cfg    *config.Config
	logger *zap.Logger
	cache  *infer.ConstructorCache
}

// newRootCommand creates the root command.
func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "typeshape",
		Short: "Describe and classify Go types",
		Long: `typeshape builds type descriptors from Go packages or YAML manifests and
classifies them: sequence and collection shapes, keyed sequences, castable
sequences, element types, base chains and default constructors.

Settings are read from typeshape.yaml in the working directory, TYPESHAPE_
environment variables and flags, in increasing priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default ./typeshape.yaml)")
	flags.String("format", string(report.FormatTable), "Output format: table, json or dump")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.Bool("no-color", false, "Disable colored output")
	flags.StringVar(&a.typeFilter, "type", "", "Only report the type with this name")

	rootCmd.AddCommand(newInspectCommand(a))
	rootCmd.AddCommand(newManifestCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if cfg.NoColor {
		color.NoColor = true
	}

	a.cfg = cfg
	a.logger = logger
	a.cache = infer.NewConstructorCache(infer.WithLogger(logger.Named("cache")))

	logger.Debug("configuration loaded",
		zap.String("format", cfg.Format),
		zap.Strings("patterns", cfg.Patterns),
		zap.Strings("manifests", cfg.Manifests))

	return nil
}

// render writes the report for types and the collected diagnostics.
func (a *app) render(cmd *cobra.Command, types []typedesc.Type, diags diagnostic.Diagnostics) error {
	report.WriteDiagnostics(cmd.ErrOrStderr(), diags, a.cfg.NoColor)
	if diags.HasErrors() {
		return errDiagnostics
	}

	format, err := report.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}

	rows := report.Rows(types, a.cache, a.typeFilter)
	if a.typeFilter != "" && len(rows) == 0 {
		return notFound(a.typeFilter, types)
	}

	return report.Write(cmd.OutOrStdout(), rows, report.Options{Format: format, NoColor: a.cfg.NoColor})
}

func notFound(name string, types []typedesc.Type) error {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = common.ShortID(t.ID())
	}

	if similar := match.Suggest(name, names, 3); len(similar) > 0 {
		return fmt.Errorf("type %q not found (did you mean %s?)", name, strings.Join(similar, ", "))
	}

	return fmt.Errorf("type %q not found", name)
}

// Execute runs the root command.
func Execute() error {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)

		return err
	}

	return nil
}
