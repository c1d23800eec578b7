// Package scenario defines stress-test scenarios and composes them with the
// amortization simulator.
package scenario

import (
	"fmt"
	"strings"
)

// Kind tags the input a shock perturbs.
type Kind string

// Shock kinds.
const (
	KindRevenue Kind = "revenue"
	KindCost    Kind = "cost"
	KindRate    Kind = "rate"
)

// BaseID identifies the unshocked scenario every catalog carries.
const BaseID = "base"

// Scenario groups used for display.
const (
	GroupBase    = "base"
	GroupRevenue = "revenueDecline"
	GroupCost    = "costIncrease"
	GroupRate    = "rateIncrease"
)

// Shock is one perturbation. Magnitude is a percentage change for revenue
// and cost shocks and an additive delta in percentage points for rate shocks.
type Shock struct {
	Kind      Kind    `mapstructure:"kind" yaml:"kind"`
	Magnitude float64 `mapstructure:"magnitude" yaml:"magnitude"`
}

// Config describes one scenario. A scenario without shocks leaves its inputs
// unchanged.
type Config struct {
	ID          string  `mapstructure:"id" yaml:"id"`
	Label       string  `mapstructure:"label" yaml:"label"`
	Description string  `mapstructure:"description" yaml:"description,omitempty"`
	Group       string  `mapstructure:"group" yaml:"group,omitempty"`
	Shocks      []Shock `mapstructure:"shocks" yaml:"shocks,omitempty"`
}

func (c Config) shock(kind Kind) (float64, bool) {
	for _, s := range c.Shocks {
		if s.Kind == kind {
			return s.Magnitude, true
		}
	}
	return 0, false
}

// RevenueChangePct returns the configured revenue change in percent.
func (c Config) RevenueChangePct() (float64, bool) { return c.shock(KindRevenue) }

// CostChangePct returns the configured cost change in percent.
func (c Config) CostChangePct() (float64, bool) { return c.shock(KindCost) }

// InterestRateDelta returns the configured rate delta in percentage points.
func (c Config) InterestRateDelta() (float64, bool) { return c.shock(KindRate) }

// Catalog is an ordered list of scenarios.
type Catalog []Config

// DefaultCatalog returns the standard stress catalog: the base case,
// revenue declines of 10/20/30%, cost increases of 10/20% and rate increases
// of 0.5/1.0 points.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: BaseID, Label: "Base case", Description: "Average recent operating cash flow", Group: GroupBase},
		{ID: "revenue-10", Label: "Revenue -10%", Description: "Revenue down 10%", Group: GroupRevenue,
			Shocks: []Shock{{Kind: KindRevenue, Magnitude: -10}}},
		{ID: "revenue-20", Label: "Revenue -20%", Description: "Revenue down 20%", Group: GroupRevenue,
			Shocks: []Shock{{Kind: KindRevenue, Magnitude: -20}}},
		{ID: "revenue-30", Label: "Revenue -30%", Description: "Revenue down 30%", Group: GroupRevenue,
			Shocks: []Shock{{Kind: KindRevenue, Magnitude: -30}}},
		{ID: "cost+10", Label: "Costs +10%", Description: "Costs up 10%", Group: GroupCost,
			Shocks: []Shock{{Kind: KindCost, Magnitude: 10}}},
		{ID: "cost+20", Label: "Costs +20%", Description: "Costs up 20%", Group: GroupCost,
			Shocks: []Shock{{Kind: KindCost, Magnitude: 20}}},
		{ID: "rate+0.5", Label: "Rate +0.5%", Description: "Annual rate up 0.5 points", Group: GroupRate,
			Shocks: []Shock{{Kind: KindRate, Magnitude: 0.5}}},
		{ID: "rate+1.0", Label: "Rate +1.0%", Description: "Annual rate up 1.0 points", Group: GroupRate,
			Shocks: []Shock{{Kind: KindRate, Magnitude: 1.0}}},
	}
}

// Validate checks that the catalog has exactly one unshocked base scenario,
// unique non-empty IDs, known shock kinds and at most one shock per kind.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("scenario catalog is empty")
	}

	seen := make(map[string]struct{}, len(c))
	bases := 0
	for i, cfg := range c {
		id := strings.TrimSpace(cfg.ID)
		if id == "" {
			return fmt.Errorf("scenario %d has no id", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate scenario id %q", id)
		}
		seen[id] = struct{}{}

		kinds := make(map[Kind]struct{}, len(cfg.Shocks))
		for _, s := range cfg.Shocks {
			switch s.Kind {
			case KindRevenue, KindCost, KindRate:
			default:
				return fmt.Errorf("scenario %q: unknown shock kind %q", id, s.Kind)
			}
			if _, dup := kinds[s.Kind]; dup {
				return fmt.Errorf("scenario %q: more than one %s shock", id, s.Kind)
			}
			kinds[s.Kind] = struct{}{}
		}

		if id == BaseID {
			bases++
			if len(cfg.Shocks) > 0 {
				return fmt.Errorf("scenario %q must not apply any shock", BaseID)
			}
		}
	}

	if bases != 1 {
		return fmt.Errorf("scenario catalog must contain the %q scenario", BaseID)
	}
	return nil
}

// Find returns the scenario with the given id.
func (c Catalog) Find(id string) (Config, bool) {
	for _, cfg := range c {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return Config{}, false
}

// Groups returns scenario ids keyed by group, and the group order of first
// appearance.
func (c Catalog) Groups() (order []string, members map[string][]string) {
	members = make(map[string][]string)
	for _, cfg := range c {
		group := cfg.Group
		if group == "" {
			group = cfg.ID
		}
		if _, ok := members[group]; !ok {
			order = append(order, group)
		}
		members[group] = append(members[group], cfg.ID)
	}
	return order, members
}
