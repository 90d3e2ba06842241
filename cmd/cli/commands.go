package main

import (
	"fmt"
	"time"

	"ksboot/adapters/diagnostic"
	"ksboot/app"
	"ksboot/domain/partition"
	"ksboot/internal/container"
	"ksboot/ports"

	"github.com/spf13/cobra"
)

// runFlags are the bootstrap overrides shared by test and simulate
type runFlags struct {
	iterations int
	workers    int
	seed       uint64
	timeout    time.Duration
	strict     bool
	histogram  bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.iterations, "iterations", 0, "Random partitions to draw (default KSBOOT_ITERATIONS)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Worker goroutines (default KSBOOT_WORKERS)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 42, "Random seed for deterministic operations (default KSBOOT_SEED)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Abort the run after this long (default KSBOOT_TIMEOUT)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Require the groups to reconstruct the dataset exactly")
	cmd.Flags().BoolVar(&f.histogram, "histogram", false, "Print the null distribution histogram to stderr")
}

func (f *runFlags) options(cmd *cobra.Command) app.RunOptions {
	opts := app.RunOptions{
		Iterations:     f.iterations,
		Workers:        f.workers,
		Timeout:        f.timeout,
		Strict:         f.strict,
		EmitDiagnostic: f.histogram,
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = partition.SeedPtr(f.seed)
	}
	return opts
}

func (g *globals) container(cmd *cobra.Command, histogram bool) (*container.Container, error) {
	var sink ports.DiagnosticSink
	if histogram {
		sink = diagnostic.NewHistogramSink(cmd.ErrOrStderr(), g.cfg.Diagnostic.HistogramBins, g.cfg.Diagnostic.HistogramWidth)
	}
	return container.New(g.cfg, g.logger, sink)
}

func newTestCmd(g *globals) *cobra.Command {
	var flags runFlags
	var file, sheet, valueCol, groupCol, group string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Bootstrap the observed split of a CSV or XLSX column",
		Long: `Split a numeric column by whether the group column equals --group and report
the fraction of random splits of the same sizes whose KS statistic is smaller.

Example: ksboot test --file cuts.csv --value-col score --group-col segment --group A --iterations 2000 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.container(cmd, flags.histogram)
			if err != nil {
				return err
			}
			sample, err := c.Reader(file, sheet).ReadLabelled(cmd.Context(), valueCol, groupCol, group)
			if err != nil {
				return err
			}
			manifest, err := c.Bootstrap.Run(cmd.Context(), sample, flags.options(cmd))
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), g.format, manifest)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX input file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet (default first sheet)")
	cmd.Flags().StringVar(&valueCol, "value-col", "", "Numeric column to test")
	cmd.Flags().StringVar(&groupCol, "group-col", "", "Column holding group labels")
	cmd.Flags().StringVar(&group, "group", "", "Label whose rows form the first group")
	for _, name := range []string{"file", "value-col", "group-col", "group"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newReplayCmd(g *globals) *cobra.Command {
	var manifestPath, file, sheet, valueCol, groupCol, group string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run a recorded manifest and check it reproduces",
		Long: `Re-run the bootstrap recorded in a JSON or YAML manifest against the same input
and fail unless the dataset, the seed's generator and the percentile all match.

Example: ksboot replay --manifest run.json --file cuts.csv --value-col score --group-col segment --group A`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recorded, err := readManifest(manifestPath)
			if err != nil {
				return err
			}
			c, err := g.container(cmd, false)
			if err != nil {
				return err
			}
			sample, err := c.Reader(file, sheet).ReadLabelled(cmd.Context(), valueCol, groupCol, group)
			if err != nil {
				return err
			}
			manifest, err := c.Bootstrap.Replay(cmd.Context(), sample, recorded)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), g.format, manifest)
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Manifest written by ksboot test")
	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX input file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet (default first sheet)")
	cmd.Flags().StringVar(&valueCol, "value-col", "", "Numeric column to test")
	cmd.Flags().StringVar(&groupCol, "group-col", "", "Column holding group labels")
	cmd.Flags().StringVar(&group, "group", "", "Label whose rows form the first group")
	for _, name := range []string{"manifest", "file", "value-col", "group-col", "group"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newSimulateCmd(g *globals) *cobra.Command {
	var n, k, iterations int
	var shift float64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Bootstrap a synthetic N(0,1) dataset",
		Long: `Without --shift, draw n N(0,1) values and test a random k-subset against its
complement; the percentile should look uniform. With --shift, draw k values from
N(0,1) and n-k from N(shift,1) and test that split; the percentile should be near 1.

Example: ksboot simulate --n 1000 --k 300 --shift 0.3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if k <= 0 || k >= n {
				return fmt.Errorf("--k must be between 1 and n-1, got %d", k)
			}
			c, err := g.container(cmd, false)
			if err != nil {
				return err
			}
			if iterations == 0 {
				iterations = g.cfg.Bootstrap.Iterations
			}

			var res *partition.BootstrapResult
			if cmd.Flags().Changed("shift") {
				res, err = c.Calibration.SeparationScenario(cmd.Context(), k, n-k, shift, iterations)
			} else {
				res, err = c.Calibration.RandomSplitScenario(cmd.Context(), n, k, iterations)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), g.format, res)
		},
	}

	cmd.Flags().IntVar(&n, "n", 1000, "Dataset size")
	cmd.Flags().IntVar(&k, "k", 300, "Size of the first group")
	cmd.Flags().Float64Var(&shift, "shift", 0, "Mean shift of the second group")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Random partitions to draw (default KSBOOT_ITERATIONS)")
	return cmd
}

func newCalibrateCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Check the statistic and the bootstrap on data with a known answer",
	}

	var n1, n2, trials int
	var alpha float64
	ksCmd := &cobra.Command{
		Use:   "ks",
		Short: "False positive rate of the KS test on same-distribution samples",
		Long:  "Example: ksboot calibrate ks --n1 2000 --n2 6000 --trials 1000",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.container(cmd, false)
			if err != nil {
				return err
			}
			report, err := c.Calibration.KSFalsePositiveRate(cmd.Context(), n1, n2, trials, alpha)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), g.format, report)
		},
	}
	ksCmd.Flags().IntVar(&n1, "n1", 2000, "First sample size")
	ksCmd.Flags().IntVar(&n2, "n2", 6000, "Second sample size")
	ksCmd.Flags().IntVar(&trials, "trials", 1000, "Number of trials")
	ksCmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance level")

	var n, k, nullTrials, iterations int
	nullCmd := &cobra.Command{
		Use:   "null",
		Short: "Distribution of bootstrap percentiles for random splits",
		Long:  "Example: ksboot calibrate null --n 1000 --k 300 --trials 200",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.container(cmd, false)
			if err != nil {
				return err
			}
			if iterations == 0 {
				iterations = g.cfg.Bootstrap.Iterations
			}
			report, err := c.Calibration.NullCalibration(cmd.Context(), n, k, nullTrials, iterations)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), g.format, report)
		},
	}
	nullCmd.Flags().IntVar(&n, "n", 1000, "Dataset size")
	nullCmd.Flags().IntVar(&k, "k", 300, "Size of the first group")
	nullCmd.Flags().IntVar(&nullTrials, "trials", 200, "Number of random splits")
	nullCmd.Flags().IntVar(&iterations, "iterations", 0, "Random partitions per trial (default KSBOOT_ITERATIONS)")

	cmd.AddCommand(ksCmd, nullCmd)
	return cmd
}

func newKSCmd(g *globals) *cobra.Command {
	var file, sheet, valueCol, groupCol, group string

	cmd := &cobra.Command{
		Use:   "ks",
		Short: "Print the two-sample KS statistic and p-value of a labelled column",
		Long:  "Example: ksboot ks --file cuts.csv --value-col score --group-col segment --group A",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.container(cmd, false)
			if err != nil {
				return err
			}
			sample, err := c.Reader(file, sheet).ReadLabelled(cmd.Context(), valueCol, groupCol, group)
			if err != nil {
				return err
			}
			result, err := c.Statistic.Analyze(sample.SubA, sample.SubB)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), g.format, result)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX input file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet (default first sheet)")
	cmd.Flags().StringVar(&valueCol, "value-col", "", "Numeric column to test")
	cmd.Flags().StringVar(&groupCol, "group-col", "", "Column holding group labels")
	cmd.Flags().StringVar(&group, "group", "", "Label whose rows form the first group")
	for _, name := range []string{"file", "value-col", "group-col", "group"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
