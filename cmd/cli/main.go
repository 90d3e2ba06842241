package main

import (
	"fmt"
	"os"

	"ksboot/internal"
	"ksboot/internal/config"
	"ksboot/internal/errors"

	"github.com/spf13/cobra"
)

// globals shared by subcommands, filled in by the root PersistentPreRunE
type globals struct {
	cfg    *config.Config
	logger *internal.Logger
	format string
	quiet  bool
	env    []string
}

func main() {
	if err := newRootCmd(&globals{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ksboot: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd(g *globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ksboot",
		Short:         "Partition bootstrap tests on the two-sample Kolmogorov-Smirnov statistic",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFiles(g.env...); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			g.cfg = cfg

			level := internal.ParseLogLevel(cfg.Logging.Level)
			if g.quiet {
				level = internal.LogLevelError
			}
			g.logger = internal.NewLoggerTo(cmd.ErrOrStderr(), level)

			if g.format != "json" && g.format != "yaml" {
				return errors.InvalidInput(fmt.Sprintf("unknown --format %q (use json or yaml)", g.format))
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.format, "format", "json", "Output format: json|yaml")
	rootCmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringSliceVar(&g.env, "env-file", nil, "Env files to load (default .env)")

	rootCmd.AddCommand(
		newTestCmd(g),
		newReplayCmd(g),
		newSimulateCmd(g),
		newCalibrateCmd(g),
		newKSCmd(g),
	)
	return rootCmd
}

func exitCode(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeConfigInvalid, errors.CodeNotFound:
		return 2
	case errors.CodeTimeout:
		return 3
	case errors.CodeReplayMismatch:
		return 4
	default:
		return 1
	}
}
