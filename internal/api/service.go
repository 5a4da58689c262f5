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

package api

import (
	"context"
	"fmt"
	"net/http"

	"lykos-order-service/internal/models"
	"lykos-order-service/internal/orders"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// OrderService is the order state machine as seen by the HTTP layer
type OrderService interface {
	Create(ctx context.Context, caller models.Caller, input orders.CreateOrderInput) (*orders.OrderDetails, error)
	HandleWebhook(ctx context.Context, event models.WebhookEvent) (orders.WebhookOutcome, error)
	Deliver(ctx context.Context, caller models.Caller, orderId string, input orders.DeliverInput) (*orders.OrderDetails, error)
	Complete(ctx context.Context, caller models.Caller, orderId string) (*orders.OrderDetails, error)
	List(ctx context.Context, caller models.Caller) ([]orders.OrderDetails, error)
	Get(ctx context.Context, caller models.Caller, orderId string) (*orders.OrderDetails, error)
}

// OrderApi serves the order endpoints
type OrderApi struct {
	orders        OrderService
	db            Pinger
	jwtSecret     []byte
	webhookSecret string
}

func NewOrderApi(orderService OrderService, db Pinger, auth models.AuthConfig, gatewayCfg models.GatewayConfig) *OrderApi {
	return &OrderApi{
		orders:        orderService,
		db:            db,
		jwtSecret:     []byte(auth.JwtSecret),
		webhookSecret: gatewayCfg.WebhookSecret,
	}
}

// Routes builds the router. The webhook is registered before the {id} routes
// and is the only order endpoint that skips authentication.
func (a *OrderApi) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", a.health)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/webhook", a.webhook)

		r.Group(func(r chi.Router) {
			r.Use(a.authenticated)
			r.Get("/", a.listOrders)
			r.Post("/", a.createOrder)
			r.Get("/{id}", a.getOrder)
			r.Post("/{id}/deliver", a.deliverOrder)
			r.Post("/{id}/complete", a.completeOrder)
		})
	})

	return r
}

func (a *OrderApi) HealthCheck(ctx context.Context) error {
	if err := a.db.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func (a *OrderApi) health(w http.ResponseWriter, r *http.Request) {
	if err := a.HealthCheck(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
