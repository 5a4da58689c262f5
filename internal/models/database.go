package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

// IsTerminal reports whether no further transition can leave this status
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled || s == OrderStatusRefunded
}

// TransactionStatus is the state of a single payment attempt
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusPaid     TransactionStatus = "PAID"
	TransactionStatusFailed   TransactionStatus = "FAILED"
	TransactionStatusRefunded TransactionStatus = "REFUNDED"
)

const PaymentMethodPix = "PIX"

// Order is the authoritative record for an order's financial values
type Order struct {
	Id            string          `db:"id"`
	ClientId      string          `db:"client_id"`
	FreelancerId  string          `db:"freelancer_id"`
	GigId         string          `db:"gig_id"`
	PackageTitle  string          `db:"package_title"`
	Amount        decimal.Decimal `db:"amount"`
	PlatformFee   decimal.Decimal `db:"platform_fee"`
	FreelancerNet decimal.Decimal `db:"freelancer_net"`
	GatewayFee    decimal.Decimal `db:"gateway_fee"`
	Status        OrderStatus     `db:"status"`
	DeliveryFiles sql.NullString  `db:"delivery_files"`
	DeliveryNote  sql.NullString  `db:"delivery_note"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	DeliveredAt   sql.NullTime    `db:"delivered_at"`
	CompletedAt   sql.NullTime    `db:"completed_at"`
}

// Transaction is one payment attempt against the gateway for an order
type Transaction struct {
	Id            string            `db:"id"`
	OrderId       string            `db:"order_id"`
	ExternalId    string            `db:"external_id"`
	PaymentUrl    string            `db:"payment_url"`
	Status        TransactionStatus `db:"status"`
	PaymentMethod string            `db:"payment_method"`
	CreatedAt     time.Time         `db:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}

// Wallet holds a seller's escrowed and withdrawable balances
type Wallet struct {
	Id               string          `db:"id"`
	FreelancerId     string          `db:"freelancer_id"`
	PendingBalance   decimal.Decimal `db:"pending_balance"`
	AvailableBalance decimal.Decimal `db:"available_balance"`
	Version          int64           `db:"version"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// WalletEntryType identifies the ledger movement recorded in a wallet entry
type WalletEntryType string

const (
	WalletEntryCreditPending WalletEntryType = "credit_pending"
	WalletEntryRelease       WalletEntryType = "release"
	WalletEntryRepairCredit  WalletEntryType = "repair_credit"
)

// WalletEntry is the immutable audit trail of a wallet movement
type WalletEntry struct {
	Id              string          `db:"id"`
	WalletId        string          `db:"wallet_id"`
	FreelancerId    string          `db:"freelancer_id"`
	OrderId         string          `db:"order_id"`
	EntryType       WalletEntryType `db:"entry_type"`
	Amount          decimal.Decimal `db:"amount"`
	PendingBefore   decimal.Decimal `db:"pending_before"`
	PendingAfter    decimal.Decimal `db:"pending_after"`
	AvailableBefore decimal.Decimal `db:"available_before"`
	AvailableAfter  decimal.Decimal `db:"available_after"`
	CreatedAt       time.Time       `db:"created_at"`
}
