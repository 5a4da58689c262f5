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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"lykos-order-service/internal/common"
	"lykos-order-service/internal/config"
	"lykos-order-service/internal/formance"
	"lykos-order-service/internal/models"
	"lykos-order-service/internal/wallet"

	"go.uber.org/zap"
)

type walletStats struct {
	totalWallets  int
	mismatched    int
	mirrorDrifted int
}

func printWallet(w models.Wallet) {
	fmt.Printf("\n┌─ Freelancer: %s\n", w.FreelancerId)
	fmt.Printf("│  Wallet: %s (v%d, updated: %s)\n", w.Id, w.Version, w.UpdatedAt.Format("2006-01-02 15:04:05"))
	common.PrintBoxSeparator()
	common.PrintMoneyRow("pending", w.PendingBalance, false)
	common.PrintMoneyRow("available", w.AvailableBalance, true)
}

func printReconciliation(rec *wallet.Reconciliation) {
	status := "OK"
	if !rec.Balanced() {
		status = "MISMATCH"
	}
	fmt.Printf("   entries: %d, replayed pending %s / available %s [%s]\n",
		rec.Entries,
		rec.CalculatedPending.StringFixed(2),
		rec.CalculatedAvailable.StringFixed(2),
		status)
}

// compareMirror reports whether the Formance balances match the wallet.
func compareMirror(ctx context.Context, journal *formance.Service, w models.Wallet) (bool, error) {
	pending, available, err := journal.Balances(ctx, w.FreelancerId)
	if err != nil {
		return false, err
	}
	matches := pending.Equal(w.PendingBalance) && available.Equal(w.AvailableBalance)
	status := "OK"
	if !matches {
		status = "DRIFT"
	}
	fmt.Printf("   formance: pending %s / available %s [%s]\n",
		pending.StringFixed(2), available.StringFixed(2), status)
	return matches, nil
}

func processWallets(ctx context.Context, wallets []models.Wallet, ledger *wallet.Ledger, journal *formance.Service, reconcile bool, logger *zap.Logger) walletStats {
	stats := walletStats{}

	for _, w := range wallets {
		stats.totalWallets++
		printWallet(w)

		if !reconcile {
			continue
		}

		// A mismatch returns the reconciliation together with ErrBalanceMismatch
		rec, err := ledger.Reconcile(ctx, w.FreelancerId)
		if rec == nil {
			logger.Error("Failed to reconcile wallet",
				zap.String("freelancer_id", w.FreelancerId),
				zap.Error(err))
			continue
		}
		printReconciliation(rec)
		if errors.Is(err, wallet.ErrBalanceMismatch) {
			stats.mismatched++
		}

		if journal == nil {
			continue
		}
		matches, err := compareMirror(ctx, journal, w)
		if err != nil {
			logger.Warn("Failed to read Formance balances",
				zap.String("freelancer_id", w.FreelancerId),
				zap.Error(err))
			continue
		}
		if !matches {
			stats.mirrorDrifted++
		}
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	freelancerFlag := flag.String("freelancer", "", "Filter by freelancer id (optional)")
	reconcileFlag := flag.Bool("reconcile", false, "Replay wallet entries and compare with stored balances")
	flag.Parse()

	logger.Info("Starting wallet query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Read-only: no catalog or gateway needed
	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, ledger, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	var journal *formance.Service
	if *reconcileFlag {
		journal = common.InitializeJournal(ctx, cfg)
	}

	wallets, err := common.SelectWallets(ctx, ledger, *freelancerFlag, logger)
	if err != nil {
		logger.Fatal("Failed to load wallets", zap.Error(err))
	}

	common.PrintHeader("FREELANCER WALLET REPORT", common.DefaultWidth)

	stats := processWallets(ctx, wallets, ledger, journal, *reconcileFlag, logger)

	summary := fmt.Sprintf("SUMMARY: %d wallets", stats.totalWallets)
	if *reconcileFlag {
		summary += fmt.Sprintf(" (%d entry mismatches, %d mirror drifts)", stats.mismatched, stats.mirrorDrifted)
	}
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Wallet query completed",
		zap.Int("wallets", stats.totalWallets),
		zap.Int("mismatched", stats.mismatched),
		zap.Int("mirror_drifted", stats.mirrorDrifted))
}
