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

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lykos-order-service/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrGigNotFound        = errors.New("gig not found in catalog")
	ErrCatalogUnavailable = errors.New("catalog service unavailable")
	ErrCatalogError       = errors.New("catalog service error")
	ErrPriceMismatch      = errors.New("amount is below the gig price")
)

const StatusActive = "ATIVO"

// Gig is the subset of a catalog listing the order service relies on
type Gig struct {
	Id           models.Ref          `json:"id"`
	Title        string              `json:"titulo"`
	Status       string              `json:"status"`
	Price        decimal.NullDecimal `json:"preco"`
	InitialPrice decimal.NullDecimal `json:"preco_inicial"`
	FreelancerId models.Ref          `json:"freelancer_id"`
}

func (g *Gig) IsActive() bool {
	return strings.EqualFold(g.Status, StatusActive)
}

// ListedPrice returns preco, falling back to preco_inicial for listings that
// only publish a starting price.
func (g *Gig) ListedPrice() decimal.Decimal {
	if g.Price.Valid {
		return g.Price.Decimal
	}
	if g.InitialPrice.Valid {
		return g.InitialPrice.Decimal
	}
	return decimal.Zero
}

type Client struct {
	baseUrl    string
	httpClient *http.Client
}

func NewClient(baseUrl string, httpClient *http.Client) *Client {
	return &Client{
		baseUrl:    strings.TrimRight(baseUrl, "/"),
		httpClient: httpClient,
	}
}

// GetGigDetails fetches a gig from the catalog service. No retries are attempted.
func (c *Client) GetGigDetails(ctx context.Context, gigId string) (*Gig, error) {
	endpoint := fmt.Sprintf("%s/gigs/%s/", c.baseUrl, url.PathEscape(gigId))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to build request: %v", ErrCatalogError, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("Catalog request failed", zap.String("gig_id", gigId), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			zap.L().Warn("Failed to close catalog response body", zap.Error(closeErr))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: gig %s", ErrGigNotFound, gigId)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d for gig %s", ErrCatalogError, resp.StatusCode, gigId)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read response: %v", ErrCatalogUnavailable, err)
	}

	var gig Gig
	if err := json.Unmarshal(body, &gig); err != nil {
		return nil, fmt.Errorf("%w: unable to decode gig %s: %v", ErrCatalogError, gigId, err)
	}
	if gig.Id == "" {
		gig.Id = models.Ref(gigId)
	}

	return &gig, nil
}

// ValidatePrice fails when the submitted amount is below the gig's listed price.
func ValidatePrice(gig *Gig, amount decimal.Decimal) error {
	price := gig.ListedPrice()
	if amount.LessThan(price) {
		return fmt.Errorf("%w: gig price is %s, got %s", ErrPriceMismatch, price.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}
