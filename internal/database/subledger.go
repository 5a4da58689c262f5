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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lykos-order-service/internal/models"
	"lykos-order-service/internal/store"

	"github.com/shopspring/decimal"
)

func scanWallet(row rowScanner) (*models.Wallet, error) {
	var wallet models.Wallet
	var pendingStr, availableStr string

	err := row.Scan(&wallet.Id, &wallet.FreelancerId, &pendingStr, &availableStr,
		&wallet.Version, &wallet.CreatedAt, &wallet.UpdatedAt)
	if err != nil {
		return nil, err
	}

	wallet.PendingBalance, err = decimal.NewFromString(pendingStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pending balance '%s': %w", pendingStr, err)
	}
	wallet.AvailableBalance, err = decimal.NewFromString(availableStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse available balance '%s': %w", availableStr, err)
	}

	return &wallet, nil
}

func getWallet(ctx context.Context, q querier, freelancerId string) (*models.Wallet, error) {
	wallet, err := scanWallet(q.QueryRowContext(ctx, queryGetWallet, freelancerId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallet for %s: %w", freelancerId, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (u *unitOfWork) GetWallet(ctx context.Context, freelancerId string) (*models.Wallet, error) {
	return getWallet(ctx, u.q, freelancerId)
}

func (u *unitOfWork) InsertWallet(ctx context.Context, wallet *models.Wallet) error {
	_, err := u.q.ExecContext(ctx, queryInsertWallet,
		wallet.Id, wallet.FreelancerId, wallet.PendingBalance.String(), wallet.AvailableBalance.String(),
		wallet.Version, wallet.CreatedAt, wallet.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("wallet for %s already exists: %w", wallet.FreelancerId, store.ErrConcurrentModification)
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// UpdateWalletBalances writes the balances with optimistic locking on version.
func (u *unitOfWork) UpdateWalletBalances(ctx context.Context, wallet *models.Wallet) error {
	result, err := u.q.ExecContext(ctx, queryUpdateWalletBalances,
		wallet.PendingBalance.String(), wallet.AvailableBalance.String(), wallet.UpdatedAt,
		wallet.Id, wallet.Version)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("wallet update failed - %w", store.ErrConcurrentModification)
	}

	wallet.Version++
	return nil
}

func (u *unitOfWork) InsertWalletEntry(ctx context.Context, entry *models.WalletEntry) error {
	_, err := u.q.ExecContext(ctx, queryInsertWalletEntry,
		entry.Id, entry.WalletId, entry.FreelancerId, entry.OrderId, entry.EntryType,
		entry.Amount.String(), entry.PendingBefore.String(), entry.PendingAfter.String(),
		entry.AvailableBefore.String(), entry.AvailableAfter.String(), entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s for order %s", store.ErrDuplicateWalletEntry, entry.EntryType, entry.OrderId)
		}
		return fmt.Errorf("failed to insert wallet entry: %w", err)
	}
	return nil
}
