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

package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lykos-order-service/internal/catalog"
	"lykos-order-service/internal/fees"
	"lykos-order-service/internal/gateway"
	"lykos-order-service/internal/models"
	"lykos-order-service/internal/store"
	"lykos-order-service/internal/wallet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Catalog is the gig lookup the order service depends on
type Catalog interface {
	GetGigDetails(ctx context.Context, gigId string) (*catalog.Gig, error)
}

// OrderDetails is an order together with its payment attempts, oldest first
type OrderDetails struct {
	Order        models.Order
	Transactions []models.Transaction
}

func (d *OrderDetails) PaymentUrl() string {
	if len(d.Transactions) == 0 {
		return ""
	}
	return d.Transactions[len(d.Transactions)-1].PaymentUrl
}

type WebhookOutcome string

const (
	WebhookProcessed WebhookOutcome = "processed"
	WebhookDuplicate WebhookOutcome = "duplicate"
	WebhookIgnored   WebhookOutcome = "ignored"
)

const (
	busyAttempts = 5
	busyBackoff  = 100 * time.Millisecond
)

type Service struct {
	store        store.OrderStore
	catalog      Catalog
	gateway      gateway.Client
	fees         *fees.Calculator
	ledger       *wallet.Ledger
	now          func() time.Time
	busyAttempts int
	busyBackoff  time.Duration
}

func NewService(orderStore store.OrderStore, catalogClient Catalog, gatewayClient gateway.Client, calculator *fees.Calculator, ledger *wallet.Ledger) *Service {
	return &Service{
		store:   orderStore,
		catalog: catalogClient,
		gateway: gatewayClient,
		fees:    calculator,
		ledger:  ledger,
		now:     func() time.Time { return time.Now().UTC() },

		busyAttempts: busyAttempts,
		busyBackoff:  busyBackoff,
	}
}

// Create validates the gig against the catalog, computes the split and then,
// in one unit of work, stores the order, credits the seller's pending balance,
// opens a billing at the gateway and records the payment attempt.
func (s *Service) Create(ctx context.Context, caller models.Caller, input CreateOrderInput) (*OrderDetails, error) {
	if caller.UserId == "" {
		return nil, ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	gig, err := s.catalog.GetGigDetails(ctx, input.GigId)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if !gig.IsActive() {
		return nil, fmt.Errorf("%w: gig %s has status %q", ErrGigInactive, input.GigId, gig.Status)
	}
	if err := catalog.ValidatePrice(gig, input.Amount); err != nil {
		return nil, err
	}

	split, err := s.fees.Calculate(input.Amount)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(gig.Title)
	if title == "" {
		title = "Gig"
	}

	now := s.now()
	order := models.Order{
		Id:            uuid.New().String(),
		ClientId:      caller.UserId,
		FreelancerId:  input.FreelancerId,
		GigId:         input.GigId,
		PackageTitle:  fmt.Sprintf("%s (Snapshot)", title),
		Amount:        split.Amount,
		PlatformFee:   split.PlatformFee,
		FreelancerNet: split.FreelancerNet,
		GatewayFee:    split.GatewayCost,
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var transaction models.Transaction
	var movement *wallet.Movement

	err = s.store.RunInTx(ctx, func(tx store.OrderTx) error {
		if err := tx.InsertOrder(ctx, &order); err != nil {
			return err
		}

		var err error
		movement, err = s.ledger.CreditPending(ctx, tx, order.FreelancerId, order.Id, order.FreelancerNet)
		if err != nil {
			return fmt.Errorf("failed to credit pending balance: %w", err)
		}

		billing, err := s.gateway.CreateBilling(ctx, gateway.BillingRequest{
			OrderId: order.Id,
			GigId:   order.GigId,
			Title:   title,
			Amount:  order.Amount,
			Customer: gateway.Customer{
				Name:  input.CustomerName,
				Email: input.CustomerEmail,
				TaxId: input.CustomerCpf,
			},
		})
		if err != nil {
			return fmt.Errorf("billing creation failed: %w", err)
		}

		transaction = models.Transaction{
			Id:            uuid.New().String(),
			OrderId:       order.Id,
			ExternalId:    billing.Id,
			PaymentUrl:    billing.Url,
			Status:        models.TransactionStatusPending,
			PaymentMethod: models.PaymentMethodPix,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return tx.InsertTransaction(ctx, &transaction)
	})
	if err != nil {
		zap.L().Error("Order creation rolled back",
			zap.String("gig_id", input.GigId),
			zap.String("client_id", caller.UserId),
			zap.String("kind", Classify(err).String()),
			zap.Error(err))
		return nil, err
	}

	s.ledger.Publish(ctx, movement)

	zap.L().Info("Order created",
		zap.String("order_id", order.Id),
		zap.String("client_id", order.ClientId),
		zap.String("freelancer_id", order.FreelancerId),
		zap.String("amount", order.Amount.StringFixed(2)),
		zap.String("platform_fee", order.PlatformFee.StringFixed(2)),
		zap.String("freelancer_net", order.FreelancerNet.StringFixed(2)),
		zap.String("external_id", transaction.ExternalId))

	return &OrderDetails{Order: order, Transactions: []models.Transaction{transaction}}, nil
}

// HandleWebhook applies a gateway notification. Only billing.paid events are
// acted on; redelivery of an already applied event is a no-op.
func (s *Service) HandleWebhook(ctx context.Context, event models.WebhookEvent) (WebhookOutcome, error) {
	externalId := strings.TrimSpace(event.Data.Id)
	if event.Event != gateway.EventBillingPaid || externalId == "" {
		zap.L().Info("Ignoring webhook event", zap.String("event", event.Event), zap.String("external_id", externalId))
		return WebhookIgnored, nil
	}

	var outcome WebhookOutcome
	var orderId string

	err := s.runInTxRetrying(ctx, "webhook", func(tx store.OrderTx) error {
		outcome = WebhookProcessed
		transaction, err := tx.GetTransactionByExternalId(ctx, externalId)
		if errors.Is(err, store.ErrNotFound) {
			outcome = WebhookIgnored
			return nil
		}
		if err != nil {
			return err
		}
		orderId = transaction.OrderId

		now := s.now()
		changed, err := tx.MarkTransactionPaid(ctx, externalId, now)
		if err != nil {
			return err
		}
		if !changed {
			outcome = WebhookDuplicate
			return nil
		}

		order, err := tx.GetOrder(ctx, transaction.OrderId)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending {
			zap.L().Warn("Payment confirmed for order that is no longer pending",
				zap.String("order_id", order.Id),
				zap.String("status", string(order.Status)),
				zap.String("external_id", externalId))
			return nil
		}

		order.Status = models.OrderStatusInProgress
		order.UpdatedAt = now
		_, err = tx.TransitionOrder(ctx, order, models.OrderStatusPending)
		return err
	})
	if err != nil {
		return WebhookIgnored, fmt.Errorf("failed to apply webhook for %s: %w", externalId, err)
	}

	switch outcome {
	case WebhookIgnored:
		zap.L().Warn("Webhook for unknown billing ignored", zap.String("external_id", externalId))
	case WebhookDuplicate:
		zap.L().Info("Duplicate webhook, payment already confirmed",
			zap.String("external_id", externalId),
			zap.String("order_id", orderId))
	default:
		zap.L().Info("Payment confirmed",
			zap.String("external_id", externalId),
			zap.String("order_id", orderId))
	}

	return outcome, nil
}

// Deliver attaches the freelancer's deliverable and moves the order to DELIVERED.
func (s *Service) Deliver(ctx context.Context, caller models.Caller, orderId string, input DeliverInput) (*OrderDetails, error) {
	var order *models.Order

	err := s.runInTxRetrying(ctx, "deliver", func(tx store.OrderTx) error {
		var err error
		order, err = s.loadVisible(ctx, tx, caller, orderId)
		if err != nil {
			return err
		}

		if order.FreelancerId != caller.UserId {
			return fmt.Errorf("%w: only the order's freelancer can deliver", ErrForbidden)
		}
		if order.Status != models.OrderStatusInProgress {
			return fmt.Errorf("%w: order must be %s to be delivered, is %s", ErrInvalidState, models.OrderStatusInProgress, order.Status)
		}
		if err := input.Validate(); err != nil {
			return err
		}

		now := s.now()
		order.Status = models.OrderStatusDelivered
		order.DeliveryFiles = sql.NullString{String: strings.TrimSpace(input.DeliveryFiles), Valid: true}
		order.DeliveryNote = sql.NullString{String: input.DeliveryNote, Valid: true}
		order.DeliveredAt = sql.NullTime{Time: now, Valid: true}
		order.UpdatedAt = now

		changed, err := tx.TransitionOrder(ctx, order, models.OrderStatusInProgress)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("%w: order changed concurrently", ErrInvalidState)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Order delivered",
		zap.String("order_id", order.Id),
		zap.String("freelancer_id", order.FreelancerId))

	return s.withTransactions(ctx, order)
}

// Complete accepts the delivery and releases the freelancer's net proceeds.
func (s *Service) Complete(ctx context.Context, caller models.Caller, orderId string) (*OrderDetails, error) {
	var order *models.Order
	var movement *wallet.Movement

	err := s.runInTxRetrying(ctx, "complete", func(tx store.OrderTx) error {
		var err error
		order, err = s.loadVisible(ctx, tx, caller, orderId)
		if err != nil {
			return err
		}

		if order.ClientId != caller.UserId {
			return fmt.Errorf("%w: only the order's client can complete it", ErrForbidden)
		}
		if order.Status != models.OrderStatusDelivered {
			return fmt.Errorf("%w: order must be %s to be completed, is %s", ErrInvalidState, models.OrderStatusDelivered, order.Status)
		}

		now := s.now()
		order.Status = models.OrderStatusCompleted
		order.CompletedAt = sql.NullTime{Time: now, Valid: true}
		order.UpdatedAt = now

		changed, err := tx.TransitionOrder(ctx, order, models.OrderStatusDelivered)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("%w: order changed concurrently", ErrInvalidState)
		}

		movement, err = s.ledger.ReleaseFunds(ctx, tx, order.FreelancerId, order.Id, order.FreelancerNet)
		if err != nil {
			return fmt.Errorf("failed to release funds: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.ledger.Publish(ctx, movement)

	zap.L().Info("Order completed",
		zap.String("order_id", order.Id),
		zap.String("freelancer_id", order.FreelancerId),
		zap.String("freelancer_net", order.FreelancerNet.StringFixed(2)),
		zap.Bool("released", movement.Entry != nil))

	return s.withTransactions(ctx, order)
}

// List returns every order for staff callers and otherwise the orders where the
// caller is the client or the freelancer, newest first.
func (s *Service) List(ctx context.Context, caller models.Caller) ([]OrderDetails, error) {
	if caller.UserId == "" && !caller.IsStaff {
		return nil, ErrForbidden
	}

	filter := store.OrderFilter{}
	if !caller.IsStaff {
		filter.ParticipantId = caller.UserId
	}

	orderList, err := s.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(orderList))
	for i, o := range orderList {
		ids[i] = o.Id
	}
	transactions, err := s.store.ListTransactions(ctx, ids...)
	if err != nil {
		return nil, err
	}

	details := make([]OrderDetails, len(orderList))
	for i, o := range orderList {
		details[i] = OrderDetails{Order: o, Transactions: transactions[o.Id]}
	}
	return details, nil
}

// Get returns a single order visible to the caller.
func (s *Service) Get(ctx context.Context, caller models.Caller, orderId string) (*OrderDetails, error) {
	order, err := s.store.GetOrder(ctx, orderId)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderId)
	}
	if err != nil {
		return nil, err
	}
	if !canSee(caller, order) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderId)
	}
	return s.withTransactions(ctx, order)
}

// runInTxRetrying reruns fn from scratch while the write lock is held by
// another unit of work, such as an order creation waiting on the gateway.
// Order creation itself is never retried because it calls the gateway.
func (s *Service) runInTxRetrying(ctx context.Context, operation string, fn func(tx store.OrderTx) error) error {
	backoff := s.busyBackoff
	for attempt := 1; ; attempt++ {
		err := s.store.RunInTx(ctx, fn)
		if !errors.Is(err, store.ErrBusy) || attempt >= s.busyAttempts {
			return err
		}

		zap.L().Warn("Database busy, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (s *Service) loadVisible(ctx context.Context, tx store.OrderTx, caller models.Caller, orderId string) (*models.Order, error) {
	order, err := tx.GetOrder(ctx, orderId)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderId)
	}
	if err != nil {
		return nil, err
	}
	if !canSee(caller, order) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderId)
	}
	return order, nil
}

func (s *Service) withTransactions(ctx context.Context, order *models.Order) (*OrderDetails, error) {
	transactions, err := s.store.ListTransactions(ctx, order.Id)
	if err != nil {
		return nil, err
	}
	return &OrderDetails{Order: *order, Transactions: transactions[order.Id]}, nil
}

func canSee(caller models.Caller, order *models.Order) bool {
	if caller.IsStaff {
		return true
	}
	return caller.UserId != "" && (caller.UserId == order.ClientId || caller.UserId == order.FreelancerId)
}
