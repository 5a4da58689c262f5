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
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var mockNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("lykos-order-service/mock-billing"))

// MockClient fabricates billings without contacting the gateway. The same
// order id always yields the same billing id.
type MockClient struct {
	sandboxUrl string
}

func NewMockClient(sandboxUrl string) *MockClient {
	return &MockClient{sandboxUrl: strings.TrimRight(sandboxUrl, "/")}
}

func MockBillingId(orderId string) string {
	id := uuid.NewSHA1(mockNamespace, []byte(orderId))
	return "bill_" + hex.EncodeToString(id[:])[:10]
}

func (m *MockClient) CreateBilling(ctx context.Context, req BillingRequest) (*Billing, error) {
	id := MockBillingId(req.OrderId)

	zap.L().Info("Mock billing created",
		zap.String("order_id", req.OrderId),
		zap.String("external_id", id),
		zap.String("amount", req.Amount.StringFixed(2)))

	return &Billing{
		Id:     id,
		Url:    m.sandboxUrl + "/" + id,
		Status: StatusPending,
	}, nil
}
