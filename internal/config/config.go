// Package config defines the data structures related to configuration and
// includes functions for loading and validating the simulation input file.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-sim/internal/capacity"
	"github.com/iwvelando/loan-sim/internal/simulation"
	"github.com/iwvelando/loan-sim/pkg/cashflow"
	"github.com/iwvelando/loan-sim/pkg/constants"
	"github.com/iwvelando/loan-sim/pkg/datetime"
	"github.com/iwvelando/loan-sim/pkg/finance"
	"github.com/iwvelando/loan-sim/pkg/scenario"
	"github.com/iwvelando/loan-sim/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for loan-sim.
type Configuration struct {
	Application finance.LoanApplication      `mapstructure:"application" yaml:"application"`
	Statements  []finance.FinancialStatement `mapstructure:"statements" yaml:"statements,omitempty"`
	Metrics     *finance.FinancialMetrics    `mapstructure:"metrics" yaml:"metrics,omitempty"`
	Simulation  SimulationConfig             `mapstructure:"simulation" yaml:"simulation,omitempty"`
	// Scenarios replaces the default stress catalog when non-empty.
	Scenarios scenario.Catalog        `mapstructure:"scenarios" yaml:"scenarios,omitempty"`
	Fallback  cashflow.FallbackPolicy `mapstructure:"fallback" yaml:"fallback,omitempty"`
	Capacity  CapacityConfig          `mapstructure:"capacity" yaml:"capacity,omitempty"`
	Logging   LoggingConfig           `mapstructure:"logging" yaml:"logging,omitempty"`
	Output    OutputConfig            `mapstructure:"output" yaml:"output,omitempty"`
}

// SimulationConfig holds the user overrides and run options.
type SimulationConfig struct {
	simulation.Overrides `mapstructure:",squash" yaml:",inline"`
	// Horizon (YYYY-MM) triggers a warning when the loan matures after it.
	Horizon  string `mapstructure:"horizon" yaml:"horizon,omitempty"`
	Parallel bool   `mapstructure:"parallel" yaml:"parallel,omitempty"`
}

// CapacityConfig enables the capacity search and bounds it.
type CapacityConfig struct {
	capacity.Settings `mapstructure:",squash" yaml:",inline"`
	Enabled           bool `mapstructure:"enabled" yaml:"enabled,omitempty"`
	// Scenarios limits the search to these ids; empty means all.
	Scenarios []string `mapstructure:"scenarios" yaml:"scenarios,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, xlsx, yaml
	File   string `mapstructure:"file" yaml:"file,omitempty"`
}

// envKeys are bound explicitly so they can be overridden even when absent
// from the file.
var envKeys = []string{
	"simulation.loanAmountMan",
	"simulation.loanPeriod",
	"simulation.interestRate",
	"simulation.gracePeriod",
	"simulation.startDate",
	"simulation.parallel",
	"capacity.enabled",
	"capacity.floor",
	"logging.level",
	"logging.format",
	"output.format",
	"output.file",
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("unable to bind environment for %s: %w", key, err)
		}
	}
	return v, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. LOANSIM_* environment variables override file values,
// e.g. LOANSIM_SIMULATION_GRACEPERIOD=6.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.applyDefaults()
	return &configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
}

// Validate reports configuration errors that prevent a run.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := datetime.ValidateMonth(c.Simulation.StartDate); err != nil {
		return fmt.Errorf("simulation.startDate: %w", err)
	}
	if err := datetime.ValidateMonth(c.Simulation.Horizon); err != nil {
		return fmt.Errorf("simulation.horizon: %w", err)
	}
	if len(c.Scenarios) > 0 {
		if err := c.Scenarios.Validate(); err != nil {
			return fmt.Errorf("scenarios: %w", err)
		}
	}
	if err := c.Capacity.Settings.Validate(); err != nil {
		return err
	}
	for _, id := range c.Capacity.Scenarios {
		if _, ok := c.catalog().Find(id); !ok {
			return fmt.Errorf("capacity: unknown scenario %q", id)
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	term := c.Application.EffectiveLoanPeriod()
	if c.Simulation.LoanPeriod != nil {
		term = *c.Simulation.LoanPeriod
	}
	rate := c.Application.EffectiveInterestRate()
	if c.Simulation.InterestRate != nil {
		rate = *c.Simulation.InterestRate
	}

	validator := validation.ConfigValidator{
		LoanAmount:    c.Application.LoanAmount,
		LoanAmountMan: c.Simulation.LoanAmountMan,
		TermMonths:    term,
		GracePeriod:   c.Simulation.GracePeriod,
		InterestRate:  rate,
		StartDate:     c.Simulation.StartDate,
		Horizon:       c.Simulation.Horizon,
	}
	return validator.ValidateAll()
}

func (c *Configuration) catalog() scenario.Catalog {
	if len(c.Scenarios) == 0 {
		return scenario.DefaultCatalog()
	}
	return c.Scenarios
}

// ToInputs converts the configuration into simulation inputs.
func (c *Configuration) ToInputs() simulation.Inputs {
	return simulation.Inputs{
		Application: c.Application,
		Statements:  c.Statements,
		Metrics:     c.Metrics,
		Overrides:   c.Simulation.Overrides,
		Catalog:     c.catalog(),
		Fallback:    c.Fallback,
		Parallel:    c.Simulation.Parallel,
	}
}
