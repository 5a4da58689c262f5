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

package orders

import (
	"errors"

	"lykos-order-service/internal/catalog"
	"lykos-order-service/internal/fees"
	"lykos-order-service/internal/gateway"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrGigInactive        = errors.New("gig is not available for sale")
	ErrInvalidState       = errors.New("order is not in the required state")
	ErrMissingDeliverable = errors.New("a delivery link is required")
	ErrForbidden          = errors.New("caller is not allowed to perform this action")
	ErrOrderNotFound      = errors.New("order not found")
)

// Kind groups errors by how callers should react to them
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBusinessRule
	KindAuthorization
	KindNotFound
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindExternal:
		return "external"
	default:
		return "internal"
	}
}

var kindsBySentinel = []struct {
	err  error
	kind Kind
}{
	{ErrValidation, KindValidation},
	{fees.ErrInvalidAmount, KindBusinessRule},
	{catalog.ErrPriceMismatch, KindBusinessRule},
	{catalog.ErrGigNotFound, KindBusinessRule},
	{ErrGigInactive, KindBusinessRule},
	{ErrInvalidState, KindBusinessRule},
	{ErrMissingDeliverable, KindBusinessRule},
	{ErrForbidden, KindAuthorization},
	{ErrOrderNotFound, KindNotFound},
	{catalog.ErrCatalogUnavailable, KindExternal},
	{catalog.ErrCatalogError, KindExternal},
	{gateway.ErrGatewayError, KindExternal},
}

// Classify maps an error returned by Service to its Kind. Unknown errors are internal.
func Classify(err error) Kind {
	for _, s := range kindsBySentinel {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindInternal
}
