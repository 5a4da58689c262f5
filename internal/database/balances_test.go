package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"lykos-order-service/internal/models"
	"lykos-order-service/internal/store"

	"github.com/shopspring/decimal"
)

func TestGetWallet_NoWallet(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetWallet(context.Background(), "nobody")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestWalletLifecycle(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	err := service.RunInTx(ctx, func(tx store.OrderTx) error {
		wallet := &models.Wallet{
			Id:               "wallet-1",
			FreelancerId:     "freelancer-1",
			PendingBalance:   decimal.Zero,
			AvailableBalance: decimal.Zero,
			Version:          1,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.InsertWallet(ctx, wallet); err != nil {
			return err
		}

		wallet.PendingBalance = decimal.RequireFromString("141.00")
		if err := tx.UpdateWalletBalances(ctx, wallet); err != nil {
			return err
		}
		if wallet.Version != 2 {
			t.Errorf("Expected version 2 after update, got %d", wallet.Version)
		}

		return tx.InsertWalletEntry(ctx, &models.WalletEntry{
			Id:              "entry-1",
			WalletId:        wallet.Id,
			FreelancerId:    wallet.FreelancerId,
			OrderId:         "order-1",
			EntryType:       models.WalletEntryCreditPending,
			Amount:          decimal.RequireFromString("141.00"),
			PendingBefore:   decimal.Zero,
			PendingAfter:    decimal.RequireFromString("141.00"),
			AvailableBefore: decimal.Zero,
			AvailableAfter:  decimal.Zero,
			CreatedAt:       now,
		})
	})
	if err != nil {
		t.Fatalf("Wallet transaction failed: %v", err)
	}

	wallet, err := service.GetWallet(ctx, "freelancer-1")
	if err != nil {
		t.Fatalf("GetWallet failed: %v", err)
	}
	if !wallet.PendingBalance.Equal(decimal.RequireFromString("141")) {
		t.Errorf("Expected pending 141, got %s", wallet.PendingBalance)
	}
	if !wallet.AvailableBalance.IsZero() {
		t.Errorf("Expected available 0, got %s", wallet.AvailableBalance)
	}

	entries, err := service.ListWalletEntries(ctx, "freelancer-1")
	if err != nil {
		t.Fatalf("ListWalletEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].EntryType != models.WalletEntryCreditPending {
		t.Errorf("Expected one credit_pending entry, got %+v", entries)
	}

	wallets, err := service.ListWallets(ctx)
	if err != nil {
		t.Fatalf("ListWallets failed: %v", err)
	}
	if len(wallets) != 1 {
		t.Errorf("Expected 1 wallet, got %d", len(wallets))
	}
}

func TestUpdateWalletBalances_StaleVersion(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	err := service.RunInTx(ctx, func(tx store.OrderTx) error {
		wallet := &models.Wallet{Id: "wallet-1", FreelancerId: "f", Version: 1, CreatedAt: now, UpdatedAt: now}
		if err := tx.InsertWallet(ctx, wallet); err != nil {
			return err
		}

		stale := *wallet
		if err := tx.UpdateWalletBalances(ctx, wallet); err != nil {
			return err
		}
		return tx.UpdateWalletBalances(ctx, &stale)
	})
	if !errors.Is(err, store.ErrConcurrentModification) {
		t.Errorf("Expected ErrConcurrentModification, got %v", err)
	}
}

func TestInsertWalletEntry_DuplicatePerOrder(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	err := service.RunInTx(ctx, func(tx store.OrderTx) error {
		if err := tx.InsertWallet(ctx, &models.Wallet{Id: "wallet-1", FreelancerId: "f", Version: 1, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		entry := models.WalletEntry{
			Id: "entry-1", WalletId: "wallet-1", FreelancerId: "f", OrderId: "order-1",
			EntryType: models.WalletEntryRelease, CreatedAt: now,
		}
		if err := tx.InsertWalletEntry(ctx, &entry); err != nil {
			return err
		}
		entry.Id = "entry-2"
		return tx.InsertWalletEntry(ctx, &entry)
	})
	if !errors.Is(err, store.ErrDuplicateWalletEntry) {
		t.Errorf("Expected ErrDuplicateWalletEntry, got %v", err)
	}
}
