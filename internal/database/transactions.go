package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lykos-order-service/internal/models"
	"lykos-order-service/internal/store"

	"go.uber.org/zap"
)

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var transaction models.Transaction
	err := row.Scan(&transaction.Id, &transaction.OrderId, &transaction.ExternalId, &transaction.PaymentUrl,
		&transaction.Status, &transaction.PaymentMethod, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// InsertTransaction records a payment attempt. The gateway billing id is unique
// across all attempts.
func (u *unitOfWork) InsertTransaction(ctx context.Context, transaction *models.Transaction) error {
	_, err := u.q.ExecContext(ctx, queryInsertTransaction,
		transaction.Id, transaction.OrderId, transaction.ExternalId, transaction.PaymentUrl,
		transaction.Status, transaction.PaymentMethod, transaction.CreatedAt, transaction.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			zap.L().Warn("Duplicate external transaction Id detected",
				zap.String("external_id", transaction.ExternalId),
				zap.String("order_id", transaction.OrderId))
			return fmt.Errorf("%w: external_id %s already exists", store.ErrDuplicateTransaction, transaction.ExternalId)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) GetTransactionByExternalId(ctx context.Context, externalId string) (*models.Transaction, error) {
	transaction, err := scanTransaction(u.q.QueryRowContext(ctx, queryGetTransactionByExternalId, externalId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", externalId, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

func (u *unitOfWork) MarkTransactionPaid(ctx context.Context, externalId string, at time.Time) (bool, error) {
	result, err := u.q.ExecContext(ctx, queryMarkTransactionPaid, at, externalId)
	if err != nil {
		return false, fmt.Errorf("failed to mark transaction paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// ListTransactions returns the payment attempts of the given orders, oldest first,
// keyed by order id.
func (s *Service) ListTransactions(ctx context.Context, orderIds ...string) (map[string][]models.Transaction, error) {
	byOrder := make(map[string][]models.Transaction, len(orderIds))
	if len(orderIds) == 0 {
		return byOrder, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orderIds)), ",")
	args := make([]any, len(orderIds))
	for i, id := range orderIds {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(queryListTransactionsForOrders, placeholders), args...)
	if err != nil {
		zap.L().Error("Failed to list transactions", zap.Int("order_count", len(orderIds)), zap.Error(err))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		byOrder[transaction.OrderId] = append(byOrder[transaction.OrderId], *transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return byOrder, nil
}
