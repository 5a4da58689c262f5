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
	"time"

	"lykos-order-service/internal/models"
	"lykos-order-service/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrNonPositiveAmount = errors.New("wallet movement amount must be positive")

// Reader is the read side of the wallet store
type Reader interface {
	GetWallet(ctx context.Context, freelancerId string) (*models.Wallet, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)
	ListWalletEntries(ctx context.Context, freelancerId string) ([]models.WalletEntry, error)
}

// Journal receives committed wallet movements. It is a mirror, never the
// source of truth, so failures are logged and swallowed.
type Journal interface {
	RecordEntry(ctx context.Context, entry models.WalletEntry) error
}

// Movement is the outcome of a ledger operation. Entry is nil when the
// operation did not move any funds.
type Movement struct {
	Wallet *models.Wallet
	Entry  *models.WalletEntry
}

type Ledger struct {
	reader  Reader
	journal Journal
	now     func() time.Time
}

func NewLedger(reader Reader, journal Journal) *Ledger {
	return &Ledger{
		reader:  reader,
		journal: journal,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreditPending adds the seller's expected net proceeds to the pending balance,
// provisioning the wallet on first use.
func (l *Ledger) CreditPending(ctx context.Context, tx store.WalletTx, freelancerId, orderId string, amount decimal.Decimal) (*Movement, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrNonPositiveAmount, amount)
	}

	now := l.now()
	wallet, err := tx.GetWallet(ctx, freelancerId)
	if errors.Is(err, store.ErrNotFound) {
		wallet, err = l.createWallet(ctx, tx, freelancerId, decimal.Zero, now)
	}
	if err != nil {
		return nil, err
	}

	entry := l.newEntry(wallet, orderId, models.WalletEntryCreditPending, amount, now)
	wallet.PendingBalance = wallet.PendingBalance.Add(amount)
	wallet.UpdatedAt = now
	entry.PendingAfter = wallet.PendingBalance
	entry.AvailableAfter = wallet.AvailableBalance

	if err := l.persist(ctx, tx, wallet, entry); err != nil {
		return nil, err
	}

	zap.L().Info("Pending balance credited",
		zap.String("freelancer_id", freelancerId),
		zap.String("order_id", orderId),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("pending_balance", wallet.PendingBalance.StringFixed(2)))

	return &Movement{Wallet: wallet, Entry: entry}, nil
}

// ReleaseFunds moves amount from pending to available. When the pending balance
// cannot cover it the call is a no-op. A missing wallet is recreated with the
// amount credited straight to available.
func (l *Ledger) ReleaseFunds(ctx context.Context, tx store.WalletTx, freelancerId, orderId string, amount decimal.Decimal) (*Movement, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrNonPositiveAmount, amount)
	}

	now := l.now()
	wallet, err := tx.GetWallet(ctx, freelancerId)
	if errors.Is(err, store.ErrNotFound) {
		return l.repairCredit(ctx, tx, freelancerId, orderId, amount, now)
	}
	if err != nil {
		return nil, err
	}

	if wallet.PendingBalance.LessThan(amount) {
		zap.L().Warn("Pending balance does not cover release, skipping",
			zap.String("freelancer_id", freelancerId),
			zap.String("order_id", orderId),
			zap.String("amount", amount.StringFixed(2)),
			zap.String("pending_balance", wallet.PendingBalance.StringFixed(2)))
		return &Movement{Wallet: wallet}, nil
	}

	entry := l.newEntry(wallet, orderId, models.WalletEntryRelease, amount, now)
	wallet.PendingBalance = wallet.PendingBalance.Sub(amount)
	wallet.AvailableBalance = wallet.AvailableBalance.Add(amount)
	wallet.UpdatedAt = now
	entry.PendingAfter = wallet.PendingBalance
	entry.AvailableAfter = wallet.AvailableBalance

	if err := l.persist(ctx, tx, wallet, entry); err != nil {
		return nil, err
	}

	zap.L().Info("Funds released",
		zap.String("freelancer_id", freelancerId),
		zap.String("order_id", orderId),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("pending_balance", wallet.PendingBalance.StringFixed(2)),
		zap.String("available_balance", wallet.AvailableBalance.StringFixed(2)))

	return &Movement{Wallet: wallet, Entry: entry}, nil
}

func (l *Ledger) repairCredit(ctx context.Context, tx store.WalletTx, freelancerId, orderId string, amount decimal.Decimal, now time.Time) (*Movement, error) {
	wallet, err := l.createWallet(ctx, tx, freelancerId, amount, now)
	if err != nil {
		return nil, err
	}

	entry := l.newEntry(wallet, orderId, models.WalletEntryRepairCredit, amount, now)
	entry.AvailableBefore = decimal.Zero
	entry.PendingAfter = wallet.PendingBalance
	entry.AvailableAfter = wallet.AvailableBalance

	if err := tx.InsertWalletEntry(ctx, entry); err != nil {
		return nil, err
	}

	zap.L().Warn("Wallet missing at release, credited available balance directly",
		zap.String("event", "wallet_consistency_repair"),
		zap.String("freelancer_id", freelancerId),
		zap.String("order_id", orderId),
		zap.String("amount", amount.StringFixed(2)))

	return &Movement{Wallet: wallet, Entry: entry}, nil
}

func (l *Ledger) createWallet(ctx context.Context, tx store.WalletTx, freelancerId string, available decimal.Decimal, now time.Time) (*models.Wallet, error) {
	wallet := &models.Wallet{
		Id:               uuid.New().String(),
		FreelancerId:     freelancerId,
		PendingBalance:   decimal.Zero,
		AvailableBalance: available,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := tx.InsertWallet(ctx, wallet); err != nil {
		return nil, err
	}

	zap.L().Info("Wallet created", zap.String("freelancer_id", freelancerId), zap.String("wallet_id", wallet.Id))
	return wallet, nil
}

func (l *Ledger) newEntry(wallet *models.Wallet, orderId string, entryType models.WalletEntryType, amount decimal.Decimal, now time.Time) *models.WalletEntry {
	return &models.WalletEntry{
		Id:              uuid.New().String(),
		WalletId:        wallet.Id,
		FreelancerId:    wallet.FreelancerId,
		OrderId:         orderId,
		EntryType:       entryType,
		Amount:          amount,
		PendingBefore:   wallet.PendingBalance,
		AvailableBefore: wallet.AvailableBalance,
		CreatedAt:       now,
	}
}

func (l *Ledger) persist(ctx context.Context, tx store.WalletTx, wallet *models.Wallet, entry *models.WalletEntry) error {
	if err := tx.UpdateWalletBalances(ctx, wallet); err != nil {
		return err
	}
	return tx.InsertWalletEntry(ctx, entry)
}

// Publish forwards committed movements to the journal, if one is configured.
func (l *Ledger) Publish(ctx context.Context, movements ...*Movement) {
	if l.journal == nil {
		return
	}
	for _, m := range movements {
		if m == nil || m.Entry == nil {
			continue
		}
		if err := l.journal.RecordEntry(ctx, *m.Entry); err != nil {
			zap.L().Error("Failed to mirror wallet entry",
				zap.String("entry_id", m.Entry.Id),
				zap.String("order_id", m.Entry.OrderId),
				zap.String("entry_type", string(m.Entry.EntryType)),
				zap.Error(err))
		}
	}
}

func (l *Ledger) Get(ctx context.Context, freelancerId string) (*models.Wallet, error) {
	return l.reader.GetWallet(ctx, freelancerId)
}

func (l *Ledger) List(ctx context.Context) ([]models.Wallet, error) {
	return l.reader.ListWallets(ctx)
}
