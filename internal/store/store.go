package store

import (
	"context"
	"errors"
	"time"

	"lykos-order-service/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateTransaction   = errors.New("duplicate transaction")
	ErrDuplicateWalletEntry   = errors.New("duplicate wallet entry")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrBusy                   = errors.New("database busy")
)

// OrderFilter narrows ListOrders. An empty ParticipantId lists every order.
type OrderFilter struct {
	ParticipantId string
	Limit         int
}

// WalletTx is the slice of a unit of work the wallet ledger needs.
type WalletTx interface {
	GetWallet(ctx context.Context, freelancerId string) (*models.Wallet, error)
	InsertWallet(ctx context.Context, wallet *models.Wallet) error
	// UpdateWalletBalances persists balances only if the stored version still
	// equals wallet.Version, then bumps the version.
	UpdateWalletBalances(ctx context.Context, wallet *models.Wallet) error
	InsertWalletEntry(ctx context.Context, entry *models.WalletEntry) error
}

// OrderTx is a unit of work over orders, payment attempts and wallets.
// Everything done through it commits or rolls back together.
type OrderTx interface {
	WalletTx

	InsertOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, orderId string) (*models.Order, error)
	// TransitionOrder writes the order's status, delivery payload and timestamps
	// if the stored status still equals from. Reports whether a row changed.
	TransitionOrder(ctx context.Context, order *models.Order, from models.OrderStatus) (bool, error)

	InsertTransaction(ctx context.Context, transaction *models.Transaction) error
	GetTransactionByExternalId(ctx context.Context, externalId string) (*models.Transaction, error)
	// MarkTransactionPaid flips a payment attempt to PAID unless it already is.
	// Reports whether a row changed.
	MarkTransactionPaid(ctx context.Context, externalId string, at time.Time) (bool, error)
}

// OrderStore defines the contract a persistence backend must satisfy.
type OrderStore interface {
	// --- Units of work ---
	RunInTx(ctx context.Context, fn func(tx OrderTx) error) error

	// --- Orders ---
	GetOrder(ctx context.Context, orderId string) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	ListTransactions(ctx context.Context, orderIds ...string) (map[string][]models.Transaction, error)

	// --- Wallets ---
	GetWallet(ctx context.Context, freelancerId string) (*models.Wallet, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)
	ListWalletEntries(ctx context.Context, freelancerId string) ([]models.WalletEntry, error)

	// --- Lifecycle ---
	Close()
}
