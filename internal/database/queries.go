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

const (
	// Schema
	querySchema = `
	-- Orders: authoritative record for financial values
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		freelancer_id TEXT NOT NULL,
		gig_id TEXT NOT NULL,
		package_title TEXT NOT NULL,
		amount TEXT NOT NULL,
		platform_fee TEXT NOT NULL,
		freelancer_net TEXT NOT NULL,
		gateway_fee TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		delivery_files TEXT,
		delivery_note TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		delivered_at TIMESTAMP,
		completed_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_orders_client_id ON orders(client_id);
	CREATE INDEX IF NOT EXISTS idx_orders_freelancer_id ON orders(freelancer_id);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

	-- Payment attempts against the gateway
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		external_id TEXT NOT NULL UNIQUE,
		payment_url TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'PENDING',
		payment_method TEXT NOT NULL DEFAULT 'PIX',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_order_id ON transactions(order_id);

	-- Seller wallets (current state)
	CREATE TABLE IF NOT EXISTS wallets (
		id TEXT PRIMARY KEY,
		freelancer_id TEXT NOT NULL UNIQUE,
		pending_balance TEXT NOT NULL DEFAULT '0',
		available_balance TEXT NOT NULL DEFAULT '0',
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	-- Wallet movements (audit trail)
	CREATE TABLE IF NOT EXISTS wallet_entries (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL REFERENCES wallets(id),
		freelancer_id TEXT NOT NULL,
		order_id TEXT NOT NULL,
		entry_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		pending_before TEXT NOT NULL,
		pending_after TEXT NOT NULL,
		available_before TEXT NOT NULL,
		available_after TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE(order_id, entry_type)
	);

	CREATE INDEX IF NOT EXISTS idx_wallet_entries_freelancer_id ON wallet_entries(freelancer_id);
	`

	// Order queries
	orderColumns = `
		id, client_id, freelancer_id, gig_id, package_title,
		amount, platform_fee, freelancer_net, gateway_fee, status,
		delivery_files, delivery_note, created_at, updated_at, delivered_at, completed_at`

	queryInsertOrder = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetOrder = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = ?`

	queryListOrders = `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	queryListParticipantOrders = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE client_id = ? OR freelancer_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	queryTransitionOrder = `
		UPDATE orders
		SET status = ?, delivery_files = ?, delivery_note = ?,
		    updated_at = ?, delivered_at = ?, completed_at = ?
		WHERE id = ? AND status = ?`

	// Payment transaction queries
	transactionColumns = `
		id, order_id, external_id, payment_url, status, payment_method, created_at, updated_at`

	queryInsertTransaction = `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTransactionByExternalId = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE external_id = ?`

	// %s is replaced with the placeholder list
	queryListTransactionsForOrders = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE order_id IN (%s)
		ORDER BY created_at, rowid`

	queryMarkTransactionPaid = `
		UPDATE transactions
		SET status = 'PAID', updated_at = ?
		WHERE external_id = ? AND status <> 'PAID'`

	// Wallet queries
	walletColumns = `
		id, freelancer_id, pending_balance, available_balance, version, created_at, updated_at`

	queryGetWallet = `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE freelancer_id = ?`

	queryListWallets = `
		SELECT ` + walletColumns + `
		FROM wallets
		ORDER BY freelancer_id`

	queryInsertWallet = `
		INSERT INTO wallets (` + walletColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryUpdateWalletBalances = `
		UPDATE wallets
		SET pending_balance = ?, available_balance = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	walletEntryColumns = `
		id, wallet_id, freelancer_id, order_id, entry_type, amount,
		pending_before, pending_after, available_before, available_after, created_at`

	queryInsertWalletEntry = `
		INSERT INTO wallet_entries (` + walletEntryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryListWalletEntries = `
		SELECT ` + walletEntryColumns + `
		FROM wallet_entries
		WHERE freelancer_id = ?
		ORDER BY created_at, rowid`
)
