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
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount is below the minimum order value")

// Split is the division of an order amount between the platform, the gateway and the seller.
// PlatformFee is the gross amount retained by the platform and already includes GatewayCost.
type Split struct {
	Amount             decimal.Decimal `json:"amount"`
	PlatformPct        decimal.Decimal `json:"platform_pct"`
	PlatformFee        decimal.Decimal `json:"platform_fee"`
	FreelancerNet      decimal.Decimal `json:"freelancer_net"`
	GatewayCost        decimal.Decimal `json:"gateway_cost"`
	PlatformRealProfit decimal.Decimal `json:"platform_real_profit"`
}

type Calculator struct {
	schedule Schedule
}

func NewCalculator(schedule Schedule) *Calculator {
	return &Calculator{schedule: schedule}
}

func (c *Calculator) Schedule() Schedule {
	return c.schedule
}

func (c *Calculator) Calculate(amount decimal.Decimal) (Split, error) {
	s := c.schedule
	amount = amount.Round(2)

	if amount.LessThan(s.GatewayFixedFee) {
		return Split{}, fmt.Errorf("%w: %s < %s", ErrInvalidAmount, amount.StringFixed(2), s.GatewayFixedFee.StringFixed(2))
	}

	split := Split{
		Amount:      amount,
		GatewayCost: s.GatewayFixedFee,
	}

	if amount.LessThan(s.BreakEvenThreshold) {
		// platform only passes the gateway cost through
		split.PlatformPct = decimal.Zero
		split.PlatformFee = s.GatewayFixedFee
		split.PlatformRealProfit = decimal.Zero
	} else {
		split.PlatformPct = s.PctFor(amount)
		split.PlatformFee = amount.Mul(split.PlatformPct).Round(2)
		split.PlatformRealProfit = split.PlatformFee.Sub(s.GatewayFixedFee)
	}

	split.FreelancerNet = amount.Sub(split.PlatformFee)
	return split, nil
}
