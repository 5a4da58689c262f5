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

package gateway

import (
	"context"
	"errors"
	"net/http"

	"lykos-order-service/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrGatewayError = errors.New("payment gateway error")

const (
	EventBillingPaid = "billing.paid"
	StatusPending    = "PENDING"
)

type Customer struct {
	Name  string
	Email string
	TaxId string
}

// BillingRequest describes a one-time PIX charge for an order
type BillingRequest struct {
	OrderId  string
	GigId    string
	Title    string
	Amount   decimal.Decimal
	Customer Customer
}

// Billing is the normalized gateway response
type Billing struct {
	Id     string
	Url    string
	Status string
}

type Client interface {
	CreateBilling(ctx context.Context, req BillingRequest) (*Billing, error)
}

// New selects the AbacatePay backend when an API key is configured and the
// deterministic mock otherwise.
func New(cfg models.GatewayConfig, httpClient *http.Client) Client {
	if cfg.ApiKey == "" || cfg.ApiKey == "dummy_key" {
		zap.L().Warn("No AbacatePay API key configured, using mock billing backend",
			zap.String("sandbox_url", cfg.SandboxUrl))
		return NewMockClient(cfg.SandboxUrl)
	}
	return NewAbacatePayClient(cfg, httpClient)
}
