package database

import (
	"context"
	"fmt"

	"lykos-order-service/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetWallet returns the current wallet of a freelancer (O(1) lookup)
func (s *Service) GetWallet(ctx context.Context, freelancerId string) (*models.Wallet, error) {
	zap.L().Debug("Getting wallet", zap.String("freelancer_id", freelancerId))
	return getWallet(ctx, s.db, freelancerId)
}

// ListWallets returns every wallet ordered by freelancer
func (s *Service) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	rows, err := s.db.QueryContext(ctx, queryListWallets)
	if err != nil {
		zap.L().Error("Failed to list wallets", zap.Error(err))
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer closeRows(rows)

	wallets := []models.Wallet{}
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, *wallet)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during wallet row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating wallet rows: %w", err)
	}

	zap.L().Debug("Retrieved wallets", zap.Int("count", len(wallets)))
	return wallets, nil
}

// ListWalletEntries returns the movement history of a freelancer's wallet, oldest first
func (s *Service) ListWalletEntries(ctx context.Context, freelancerId string) ([]models.WalletEntry, error) {
	rows, err := s.db.QueryContext(ctx, queryListWalletEntries, freelancerId)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet entries: %w", err)
	}
	defer closeRows(rows)

	entries := []models.WalletEntry{}
	for rows.Next() {
		var entry models.WalletEntry
		var amountStr, pendingBeforeStr, pendingAfterStr, availableBeforeStr, availableAfterStr string

		err := rows.Scan(&entry.Id, &entry.WalletId, &entry.FreelancerId, &entry.OrderId, &entry.EntryType,
			&amountStr, &pendingBeforeStr, &pendingAfterStr, &availableBeforeStr, &availableAfterStr, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet entry: %w", err)
		}

		if entry.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
		}
		if entry.PendingBefore, err = decimal.NewFromString(pendingBeforeStr); err != nil {
			return nil, fmt.Errorf("failed to parse pending_before '%s': %w", pendingBeforeStr, err)
		}
		if entry.PendingAfter, err = decimal.NewFromString(pendingAfterStr); err != nil {
			return nil, fmt.Errorf("failed to parse pending_after '%s': %w", pendingAfterStr, err)
		}
		if entry.AvailableBefore, err = decimal.NewFromString(availableBeforeStr); err != nil {
			return nil, fmt.Errorf("failed to parse available_before '%s': %w", availableBeforeStr, err)
		}
		if entry.AvailableAfter, err = decimal.NewFromString(availableAfterStr); err != nil {
			return nil, fmt.Errorf("failed to parse available_after '%s': %w", availableAfterStr, err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet entry rows: %w", err)
	}

	return entries, nil
}
