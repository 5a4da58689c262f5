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

package wallet

import (
	"context"
	"errors"
	"fmt"

	"lykos-order-service/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrBalanceMismatch = errors.New("wallet balance does not match its entries")

// Reconciliation compares stored balances with the balances implied by the entries
type Reconciliation struct {
	FreelancerId        string
	PendingBalance      decimal.Decimal
	AvailableBalance    decimal.Decimal
	CalculatedPending   decimal.Decimal
	CalculatedAvailable decimal.Decimal
	Entries             int
}

func (r Reconciliation) Balanced() bool {
	return r.PendingBalance.Equal(r.CalculatedPending) && r.AvailableBalance.Equal(r.CalculatedAvailable)
}

// Reconcile verifies that a wallet's balances match the sum of its entries.
func (l *Ledger) Reconcile(ctx context.Context, freelancerId string) (*Reconciliation, error) {
	zap.L().Info("Reconciling wallet", zap.String("freelancer_id", freelancerId))

	wallet, err := l.reader.GetWallet(ctx, freelancerId)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	entries, err := l.reader.ListWalletEntries(ctx, freelancerId)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet entries: %w", err)
	}

	result := CalculateBalances(entries)
	result.FreelancerId = freelancerId
	result.PendingBalance = wallet.PendingBalance
	result.AvailableBalance = wallet.AvailableBalance

	if !result.Balanced() {
		zap.L().Error("Wallet reconciliation failed",
			zap.String("freelancer_id", freelancerId),
			zap.String("pending_balance", result.PendingBalance.String()),
			zap.String("calculated_pending", result.CalculatedPending.String()),
			zap.String("available_balance", result.AvailableBalance.String()),
			zap.String("calculated_available", result.CalculatedAvailable.String()))
		return &result, fmt.Errorf("%w: pending=%s calculated=%s, available=%s calculated=%s", ErrBalanceMismatch,
			result.PendingBalance, result.CalculatedPending, result.AvailableBalance, result.CalculatedAvailable)
	}

	zap.L().Info("Wallet reconciliation successful",
		zap.String("freelancer_id", freelancerId),
		zap.String("pending_balance", result.PendingBalance.String()),
		zap.String("available_balance", result.AvailableBalance.String()))
	return &result, nil
}

// CalculateBalances replays wallet entries from zero.
func CalculateBalances(entries []models.WalletEntry) Reconciliation {
	result := Reconciliation{
		CalculatedPending:   decimal.Zero,
		CalculatedAvailable: decimal.Zero,
		Entries:             len(entries),
	}

	for _, entry := range entries {
		switch entry.EntryType {
		case models.WalletEntryCreditPending:
			result.CalculatedPending = result.CalculatedPending.Add(entry.Amount)
		case models.WalletEntryRelease:
			result.CalculatedPending = result.CalculatedPending.Sub(entry.Amount)
			result.CalculatedAvailable = result.CalculatedAvailable.Add(entry.Amount)
		case models.WalletEntryRepairCredit:
			result.CalculatedAvailable = result.CalculatedAvailable.Add(entry.Amount)
		}
	}

	return result
}
