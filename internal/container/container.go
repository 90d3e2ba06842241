package container

import (
	"fmt"

	"ksboot/adapters/battery"
	"ksboot/adapters/excel"
	"ksboot/adapters/rng"
	"ksboot/adapters/sampling"
	"ksboot/adapters/stats/senses"
	"ksboot/app"
	"ksboot/internal"
	"ksboot/internal/config"
	"ksboot/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Adapters
	RNG       ports.RNGPort
	Statistic *senses.KolmogorovSmirnovSense
	Sampler   ports.SubsetSamplerPort

	// Engine and services
	Referee     *battery.PartitionReferee
	Bootstrap   *app.BootstrapService
	Calibration *app.CalibrationService
}

// New creates a new dependency injection container. sink may be nil.
func New(cfg *config.Config, logger *internal.Logger, sink ports.DiagnosticSink) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	}

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		RNG:       rng.NewAdapter(),
		Statistic: senses.NewKolmogorovSmirnovSense(),
		Sampler:   sampling.NewWithoutReplacement(),
	}

	opts := []battery.Option{
		battery.WithIterations(cfg.Bootstrap.Iterations),
		battery.WithWorkers(cfg.Bootstrap.Workers),
		battery.WithSeed(cfg.Bootstrap.Seed),
		battery.WithStrictPartition(cfg.Bootstrap.Strict),
		battery.WithLogger(logger),
	}
	if sink != nil {
		opts = append(opts, battery.WithDiagnosticSink(sink))
	}
	c.Referee = battery.NewPartitionReferee(c.Statistic, c.Sampler, c.RNG, opts...)

	c.Bootstrap = app.NewBootstrapService(c.Referee, c.RNG, cfg.Bootstrap, logger)
	c.Calibration = app.NewCalibrationService(c.Statistic, c.Sampler, c.Referee, c.RNG, cfg.Bootstrap.Seed, cfg.Bootstrap.Workers, logger)

	return c, nil
}

// Reader opens a labelled-sample reader for a CSV or XLSX file
func (c *Container) Reader(path, sheet string) ports.DatasetReaderPort {
	cfg := excel.DefaultExcelConfig(path)
	cfg.Sheet = sheet
	return excel.NewDataReader(cfg).WithLogger(c.Logger)
}
