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

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Ref is an identifier issued by another service. Peers encode ids either as
// JSON numbers or strings, so both are accepted and normalized to a string.
type Ref string

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("reference must be a string or a number: %w", err)
	}
	*r = Ref(n.String())
	return nil
}

func (r Ref) String() string {
	return string(r)
}

// CreateOrderRequest is the body accepted by POST /orders
type CreateOrderRequest struct {
	GigId         Ref             `json:"gig_id"`
	FreelancerId  Ref             `json:"freelancer_id"`
	Amount        decimal.Decimal `json:"amount"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerCpf   string          `json:"customer_cpf"`
}

// DeliverOrderRequest is the body accepted by POST /orders/{id}/deliver
type DeliverOrderRequest struct {
	DeliveryFiles string `json:"delivery_files"`
	DeliveryNote  string `json:"delivery_note"`
}

// WebhookEvent is the payload delivered by the payment gateway
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Id string `json:"id"`
	} `json:"data"`
}

// TransactionView is the public representation of a payment attempt
type TransactionView struct {
	Id            string            `json:"id"`
	ExternalId    string            `json:"external_id"`
	PaymentUrl    string            `json:"payment_url"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod string            `json:"payment_method"`
	CreatedAt     time.Time         `json:"created_at"`
}

// OrderView is the public representation of an order. Financial fields are
// read-only and rendered with two decimal places.
type OrderView struct {
	Id            string            `json:"id"`
	ClientId      string            `json:"client_id"`
	FreelancerId  string            `json:"freelancer_id"`
	GigId         string            `json:"gig_id"`
	PackageTitle  string            `json:"package_title"`
	Amount        string            `json:"amount"`
	PlatformFee   string            `json:"platform_fee"`
	FreelancerNet string            `json:"freelancer_net"`
	GatewayFee    string            `json:"gateway_fee"`
	Status        OrderStatus       `json:"status"`
	DeliveryFiles *string           `json:"delivery_files"`
	DeliveryNote  *string           `json:"delivery_note"`
	PaymentUrl    string            `json:"payment_url"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeliveredAt   *time.Time        `json:"delivered_at,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	Transactions  []TransactionView `json:"transactions"`
}

// NewOrderView builds the public view of an order and its payment attempts.
// PaymentUrl is taken from the most recent attempt.
func NewOrderView(order *Order, transactions []Transaction) OrderView {
	view := OrderView{
		Id:            order.Id,
		ClientId:      order.ClientId,
		FreelancerId:  order.FreelancerId,
		GigId:         order.GigId,
		PackageTitle:  order.PackageTitle,
		Amount:        order.Amount.StringFixed(2),
		PlatformFee:   order.PlatformFee.StringFixed(2),
		FreelancerNet: order.FreelancerNet.StringFixed(2),
		GatewayFee:    order.GatewayFee.StringFixed(2),
		Status:        order.Status,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Transactions:  make([]TransactionView, len(transactions)),
	}
	if order.DeliveryFiles.Valid {
		view.DeliveryFiles = &order.DeliveryFiles.String
	}
	if order.DeliveryNote.Valid {
		view.DeliveryNote = &order.DeliveryNote.String
	}
	if order.DeliveredAt.Valid {
		view.DeliveredAt = &order.DeliveredAt.Time
	}
	if order.CompletedAt.Valid {
		view.CompletedAt = &order.CompletedAt.Time
	}

	for i, tx := range transactions {
		view.Transactions[i] = TransactionView{
			Id:            tx.Id,
			ExternalId:    tx.ExternalId,
			PaymentUrl:    tx.PaymentUrl,
			Status:        tx.Status,
			PaymentMethod: tx.PaymentMethod,
			CreatedAt:     tx.CreatedAt,
		}
		if i == len(transactions)-1 {
			view.PaymentUrl = tx.PaymentUrl
		}
	}

	return view
}

// WebhookAck is the body returned to the gateway for every webhook delivery
type WebhookAck struct {
	Received bool `json:"received"`
}
