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
	"go.uber.org/zap"
)

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var amountStr, platformFeeStr, freelancerNetStr, gatewayFeeStr string

	err := row.Scan(&order.Id, &order.ClientId, &order.FreelancerId, &order.GigId, &order.PackageTitle,
		&amountStr, &platformFeeStr, &freelancerNetStr, &gatewayFeeStr, &order.Status,
		&order.DeliveryFiles, &order.DeliveryNote, &order.CreatedAt, &order.UpdatedAt,
		&order.DeliveredAt, &order.CompletedAt)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"amount", amountStr, &order.Amount},
		{"platform_fee", platformFeeStr, &order.PlatformFee},
		{"freelancer_net", freelancerNetStr, &order.FreelancerNet},
		{"gateway_fee", gatewayFeeStr, &order.GatewayFee},
	}
	for _, f := range fields {
		value, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s '%s': %w", f.name, f.raw, err)
		}
		*f.dst = value
	}

	return &order, nil
}

func getOrder(ctx context.Context, q querier, orderId string) (*models.Order, error) {
	order, err := scanOrder(q.QueryRowContext(ctx, queryGetOrder, orderId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderId, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (u *unitOfWork) InsertOrder(ctx context.Context, order *models.Order) error {
	_, err := u.q.ExecContext(ctx, queryInsertOrder,
		order.Id, order.ClientId, order.FreelancerId, order.GigId, order.PackageTitle,
		order.Amount.StringFixed(2), order.PlatformFee.StringFixed(2),
		order.FreelancerNet.StringFixed(2), order.GatewayFee.StringFixed(2), order.Status,
		order.DeliveryFiles, order.DeliveryNote, order.CreatedAt, order.UpdatedAt,
		order.DeliveredAt, order.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (u *unitOfWork) GetOrder(ctx context.Context, orderId string) (*models.Order, error) {
	return getOrder(ctx, u.q, orderId)
}

func (u *unitOfWork) TransitionOrder(ctx context.Context, order *models.Order, from models.OrderStatus) (bool, error) {
	result, err := u.q.ExecContext(ctx, queryTransitionOrder,
		order.Status, order.DeliveryFiles, order.DeliveryNote,
		order.UpdatedAt, order.DeliveredAt, order.CompletedAt,
		order.Id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		zap.L().Debug("Order transition skipped",
			zap.String("order_id", order.Id),
			zap.String("from", string(from)),
			zap.String("to", string(order.Status)))
	}
	return rowsAffected > 0, nil
}

func (s *Service) GetOrder(ctx context.Context, orderId string) (*models.Order, error) {
	return getOrder(ctx, s.db, orderId)
}

func (s *Service) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	var rows *sql.Rows
	var err error
	if filter.ParticipantId == "" {
		rows, err = s.db.QueryContext(ctx, queryListOrders, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, queryListParticipantOrders, filter.ParticipantId, filter.ParticipantId, limit)
	}
	if err != nil {
		zap.L().Error("Failed to list orders", zap.String("participant_id", filter.ParticipantId), zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer closeRows(rows)

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}

	zap.L().Debug("Listed orders", zap.String("participant_id", filter.ParticipantId), zap.Int("count", len(orders)))
	return orders, nil
}
