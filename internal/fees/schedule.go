/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fees

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Tier applies Pct to amounts up to and including UpTo. The last tier of a
// schedule has no upper bound.
type Tier struct {
	UpTo decimal.NullDecimal
	Pct  decimal.Decimal
}

// Schedule holds every constant the calculator depends on.
type Schedule struct {
	GatewayFixedFee    decimal.Decimal
	BreakEvenThreshold decimal.Decimal
	Tiers              []Tier
}

func DefaultSchedule() Schedule {
	return Schedule{
		GatewayFixedFee:    decimal.RequireFromString("0.80"),
		BreakEvenThreshold: decimal.RequireFromString("20.00"),
		Tiers: []Tier{
			{UpTo: bounded("100.00"), Pct: decimal.RequireFromString("0.04")},
			{UpTo: bounded("400.00"), Pct: decimal.RequireFromString("0.06")},
			{UpTo: bounded("700.00"), Pct: decimal.RequireFromString("0.08")},
			{Pct: decimal.RequireFromString("0.10")},
		},
	}
}

func bounded(v string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
}

type tierFile struct {
	UpTo string `yaml:"up_to"`
	Pct  string `yaml:"pct"`
}

type scheduleFile struct {
	GatewayFixedFee    string     `yaml:"gateway_fixed_fee"`
	BreakEvenThreshold string     `yaml:"break_even_threshold"`
	Tiers              []tierFile `yaml:"tiers"`
}

// LoadSchedule reads a YAML fee schedule. An empty path yields the default schedule.
func LoadSchedule(scheduleFilePath string) (Schedule, error) {
	if scheduleFilePath == "" {
		return DefaultSchedule(), nil
	}

	path := scheduleFilePath
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return Schedule{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, scheduleFilePath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("unable to read %s: %w", scheduleFilePath, err)
	}

	return ParseSchedule(data)
}

func ParseSchedule(data []byte) (Schedule, error) {
	var raw scheduleFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Schedule{}, fmt.Errorf("unable to parse fee schedule: %w", err)
	}

	defaults := DefaultSchedule()
	schedule := Schedule{
		GatewayFixedFee:    defaults.GatewayFixedFee,
		BreakEvenThreshold: defaults.BreakEvenThreshold,
	}

	var err error
	if raw.GatewayFixedFee != "" {
		if schedule.GatewayFixedFee, err = decimal.NewFromString(raw.GatewayFixedFee); err != nil {
			return Schedule{}, fmt.Errorf("invalid gateway_fixed_fee %q: %w", raw.GatewayFixedFee, err)
		}
	}
	if raw.BreakEvenThreshold != "" {
		if schedule.BreakEvenThreshold, err = decimal.NewFromString(raw.BreakEvenThreshold); err != nil {
			return Schedule{}, fmt.Errorf("invalid break_even_threshold %q: %w", raw.BreakEvenThreshold, err)
		}
	}

	if len(raw.Tiers) == 0 {
		schedule.Tiers = defaults.Tiers
	}
	for i, t := range raw.Tiers {
		pct, err := decimal.NewFromString(t.Pct)
		if err != nil {
			return Schedule{}, fmt.Errorf("tier at index %d has invalid pct %q: %w", i, t.Pct, err)
		}
		tier := Tier{Pct: pct}
		if t.UpTo != "" {
			upTo, err := decimal.NewFromString(t.UpTo)
			if err != nil {
				return Schedule{}, fmt.Errorf("tier at index %d has invalid up_to %q: %w", i, t.UpTo, err)
			}
			tier.UpTo = decimal.NullDecimal{Decimal: upTo, Valid: true}
		}
		schedule.Tiers = append(schedule.Tiers, tier)
	}

	if err := schedule.Validate(); err != nil {
		return Schedule{}, err
	}
	return schedule, nil
}

// Validate checks that the schedule can never produce a platform fee below the
// gateway cost for amounts at or above the break-even threshold. Every tier is
// checked at its lower bound: the threshold for the first tier and one cent
// above the previous up_to for the others.
func (s Schedule) Validate() error {
	if !s.GatewayFixedFee.IsPositive() {
		return fmt.Errorf("gateway fixed fee must be positive, got %s", s.GatewayFixedFee)
	}
	if s.BreakEvenThreshold.LessThan(s.GatewayFixedFee) {
		return fmt.Errorf("break-even threshold %s is below the gateway fixed fee %s", s.BreakEvenThreshold, s.GatewayFixedFee)
	}
	if len(s.Tiers) == 0 {
		return fmt.Errorf("fee schedule has no tiers")
	}

	one := decimal.NewFromInt(1)
	cent := decimal.New(1, -2)
	previous := s.BreakEvenThreshold
	lower := s.BreakEvenThreshold
	for i, tier := range s.Tiers {
		if tier.Pct.IsNegative() || tier.Pct.GreaterThanOrEqual(one) {
			return fmt.Errorf("tier at index %d: pct %s out of range [0,1)", i, tier.Pct)
		}
		last := i == len(s.Tiers)-1
		if last != !tier.UpTo.Valid {
			return fmt.Errorf("tier at index %d: only the last tier may be open-ended", i)
		}
		if tier.UpTo.Valid && !tier.UpTo.Decimal.GreaterThan(previous) {
			return fmt.Errorf("tier at index %d: up_to %s must exceed %s", i, tier.UpTo.Decimal, previous)
		}

		// The fee grows with the amount inside a tier, so its smallest
		// amount is the only one that can fall below the gateway cost.
		if lower.Mul(tier.Pct).Round(2).LessThan(s.GatewayFixedFee) {
			return fmt.Errorf("tier at index %d: pct %s does not cover the gateway fixed fee %s at %s",
				i, tier.Pct, s.GatewayFixedFee, lower.StringFixed(2))
		}

		if tier.UpTo.Valid {
			previous = tier.UpTo.Decimal
			lower = previous.Add(cent)
		}
	}

	return nil
}

// PctFor returns the platform percentage for an amount at or above the break-even threshold.
func (s Schedule) PctFor(amount decimal.Decimal) decimal.Decimal {
	for _, tier := range s.Tiers {
		if !tier.UpTo.Valid || amount.LessThanOrEqual(tier.UpTo.Decimal) {
			return tier.Pct
		}
	}
	return s.Tiers[len(s.Tiers)-1].Pct
}
