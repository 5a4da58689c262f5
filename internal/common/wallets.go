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

package common

import (
	"context"
	"fmt"

	"lykos-order-service/internal/models"
	"lykos-order-service/internal/wallet"

	"go.uber.org/zap"
)

// SelectWallets retrieves wallets based on an optional seller filter.
// If freelancerFilter is provided, returns the single wallet for that seller.
// If freelancerFilter is empty, returns all wallets.
func SelectWallets(ctx context.Context, ledger *wallet.Ledger, freelancerFilter string, logger *zap.Logger) ([]models.Wallet, error) {
	if freelancerFilter != "" {
		logger.Info("Looking up wallet by freelancer", zap.String("freelancer_id", freelancerFilter))
		w, err := ledger.Get(ctx, freelancerFilter)
		if err != nil {
			return nil, fmt.Errorf("wallet not found: %w", err)
		}
		return []models.Wallet{*w}, nil
	}

	wallets, err := ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	logger.Info("Retrieved wallets", zap.Int("count", len(wallets)))
	return wallets, nil
}
