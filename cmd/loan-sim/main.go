package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/loan-sim/internal/capacity"
	"github.com/iwvelando/loan-sim/internal/config"
	"github.com/iwvelando/loan-sim/internal/simulation"
	"github.com/iwvelando/loan-sim/pkg/constants"
	"github.com/iwvelando/loan-sim/pkg/output"
	"github.com/iwvelando/loan-sim/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
	case "json":
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	// Reports go to stdout, so logs never do.
	config.OutputPaths = []string{"stderr"}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// options are the parsed command line flags.
type options struct {
	configLocation string
	envFile        string
	outputFormat   string
	outputFile     string
	scenarios      string
	logLevel       string
	capacity       bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	flags := flag.NewFlagSet("loan-sim", flag.ContinueOnError)
	flags.StringVar(&opts.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "optional file of LOANSIM_* environment overrides")
	flags.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, xlsx, yaml")
	flags.StringVar(&opts.outputFile, "output-file", "", "write the report to this file instead of stdout")
	flags.StringVar(&opts.scenarios, "scenario", "", "comma-separated scenario ids whose schedules are written (default all)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.BoolVar(&opts.capacity, "capacity", false, "search the largest affordable principal and shortest term")
	err := flags.Parse(args)
	return opts, err
}

// loadEnvFile loads KEY=VALUE overrides without replacing variables already
// set in the environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func splitIDs(list string) []string {
	var ids []string
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// setup loads the environment and configuration, applies CLI overrides and
// builds the logger.
func setup(opts options) (*config.Configuration, *zap.Logger, error) {
	if err := loadEnvFile(opts.envFile); err != nil {
		return nil, nil, err
	}

	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", opts.configLocation, err)
	}

	// CLI overrides take precedence over config
	if opts.outputFormat != "" {
		conf.Output.Format = opts.outputFormat
	}
	if opts.outputFile != "" {
		conf.Output.File = opts.outputFile
	}
	if opts.capacity {
		conf.Capacity.Enabled = true
	}
	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		return nil, nil, err
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return conf, logger, nil
}

// run is setup followed by execute.
func run(ctx context.Context, opts options, stdout io.Writer) error {
	conf, logger, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	return execute(ctx, conf, logger, opts, stdout)
}

// execute simulates every scenario and writes the report to stdout or the
// configured output file.
func execute(ctx context.Context, conf *config.Configuration, logger *zap.Logger, opts options, stdout io.Writer) error {
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	result, err := simulation.Recompute(ctx, logger, conf.ToInputs())
	if err != nil {
		return fmt.Errorf("failed to compute simulation: %w", err)
	}

	report := output.Report{
		Simulation:  result,
		Warnings:    warnings,
		ScenarioIDs: splitIDs(opts.scenarios),
	}
	for _, id := range report.ScenarioIDs {
		if _, ok := result.Find(id); !ok {
			return fmt.Errorf("unknown scenario %q", id)
		}
	}

	if conf.Capacity.Enabled {
		runner, err := capacity.NewRunner(logger, result, conf.Capacity.Settings)
		if err != nil {
			return fmt.Errorf("failed to configure capacity search: %w", err)
		}
		report.Capacity, err = runner.Run(conf.Capacity.Scenarios...)
		if err != nil {
			return fmt.Errorf("capacity search failed: %w", err)
		}
	}

	if conf.Output.File == "" {
		if conf.Output.Format == constants.OutputFormatXLSX {
			return fmt.Errorf("xlsx output requires -output-file")
		}
		return output.Write(stdout, conf.Output.Format, report)
	}

	file, err := os.Create(conf.Output.File)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", conf.Output.File, err)
	}
	if err := output.Write(file, conf.Output.Format, report); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	logger.Info("report written",
		zap.String("op", "main"),
		zap.String("file", conf.Output.File),
		zap.String("format", conf.Output.Format),
		zap.String("runId", result.RunID),
	)
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	conf, logger, err := setup(opts)
	if err != nil {
		// No logger exists yet.
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q}\n", err.Error())
		os.Exit(1)
	}

	if err := execute(context.Background(), conf, logger, opts, os.Stdout); err != nil {
		fatal(logger, err)
	}
	_ = logger.Sync()
}

func fatal(logger *zap.Logger, err error) {
	logger.Fatal("loan-sim failed",
		zap.String("op", "main"),
		zap.Error(err),
	)
}
