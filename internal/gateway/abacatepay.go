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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lykos-order-service/internal/models"

	"go.uber.org/zap"
)

const defaultTaxId = "00000000000"

type abacateProduct struct {
	ExternalId  string `json:"externalId"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

type abacateCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	TaxId string `json:"taxId"`
}

type abacateBillingRequest struct {
	Frequency     string           `json:"frequency"`
	Methods       []string         `json:"methods"`
	Products      []abacateProduct `json:"products"`
	Customer      abacateCustomer  `json:"customer"`
	ReturnUrl     string           `json:"returnUrl"`
	CompletionUrl string           `json:"completionUrl"`
}

type abacateBillingResponse struct {
	Data *struct {
		Id     string `json:"id"`
		Url    string `json:"url"`
		Status string `json:"status"`
	} `json:"data"`
	Error any `json:"error"`
}

type AbacatePayClient struct {
	apiKey        string
	baseUrl       string
	returnUrl     string
	completionUrl string
	httpClient    *http.Client
}

func NewAbacatePayClient(cfg models.GatewayConfig, httpClient *http.Client) *AbacatePayClient {
	return &AbacatePayClient{
		apiKey:        cfg.ApiKey,
		baseUrl:       strings.TrimRight(cfg.BaseUrl, "/"),
		returnUrl:     cfg.ReturnUrl,
		completionUrl: cfg.CompletionUrl,
		httpClient:    httpClient,
	}
}

func (c *AbacatePayClient) CreateBilling(ctx context.Context, req BillingRequest) (*Billing, error) {
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to encode billing: %v", ErrGatewayError, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/v1/billing/create", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to build request: %v", ErrGatewayError, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayError, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			zap.L().Warn("Failed to close gateway response body", zap.Error(closeErr))
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read response: %v", ErrGatewayError, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrGatewayError, resp.StatusCode, truncate(raw, 256))
	}

	var decoded abacateBillingResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: unable to decode response: %v", ErrGatewayError, err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayError, decoded.Error)
	}
	if decoded.Data == nil || decoded.Data.Id == "" {
		return nil, fmt.Errorf("%w: response carries no billing id", ErrGatewayError)
	}

	zap.L().Info("Billing created",
		zap.String("order_id", req.OrderId),
		zap.String("external_id", decoded.Data.Id),
		zap.String("status", decoded.Data.Status))

	return &Billing{
		Id:     decoded.Data.Id,
		Url:    decoded.Data.Url,
		Status: decoded.Data.Status,
	}, nil
}

func (c *AbacatePayClient) buildRequest(req BillingRequest) abacateBillingRequest {
	taxId := req.Customer.TaxId
	if taxId == "" {
		taxId = defaultTaxId
	}

	return abacateBillingRequest{
		Frequency: "ONE_TIME",
		Methods:   []string{models.PaymentMethodPix},
		Products: []abacateProduct{{
			ExternalId:  req.GigId,
			Name:        "Serviço: " + req.Title,
			Quantity:    1,
			Price:       req.Amount.Round(2).Shift(2).IntPart(),
			Description: fmt.Sprintf("Pedido #%s", req.OrderId),
		}},
		Customer: abacateCustomer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			TaxId: taxId,
		},
		ReturnUrl:     strings.ReplaceAll(c.returnUrl, "{order_id}", req.OrderId),
		CompletionUrl: c.completionUrl,
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
