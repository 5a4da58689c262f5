package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lykos-order-service/internal/catalog"
	"lykos-order-service/internal/gateway"
	"lykos-order-service/internal/models"
	"lykos-order-service/internal/orders"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeOrders struct {
	err         error
	caller      models.Caller
	createInput orders.CreateOrderInput
	orderId     string
	webhooks    []models.WebhookEvent
}

func sampleDetails() *orders.OrderDetails {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &orders.OrderDetails{
		Order: models.Order{
			Id:            "order-1",
			ClientId:      "7",
			FreelancerId:  "9",
			GigId:         "3",
			PackageTitle:  "Logo (Snapshot)",
			Amount:        decimal.RequireFromString("150.00"),
			PlatformFee:   decimal.RequireFromString("9.00"),
			FreelancerNet: decimal.RequireFromString("141.00"),
			GatewayFee:    decimal.RequireFromString("0.80"),
			Status:        models.OrderStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		Transactions: []models.Transaction{{
			Id:            "tx-1",
			OrderId:       "order-1",
			ExternalId:    "bill_abc",
			PaymentUrl:    "https://pay.example.com/bill_abc",
			Status:        models.TransactionStatusPending,
			PaymentMethod: models.PaymentMethodPix,
			CreatedAt:     now,
		}},
	}
}

func (f *fakeOrders) Create(_ context.Context, caller models.Caller, input orders.CreateOrderInput) (*orders.OrderDetails, error) {
	f.caller, f.createInput = caller, input
	if f.err != nil {
		return nil, f.err
	}
	return sampleDetails(), nil
}

func (f *fakeOrders) HandleWebhook(_ context.Context, event models.WebhookEvent) (orders.WebhookOutcome, error) {
	f.webhooks = append(f.webhooks, event)
	if f.err != nil {
		return orders.WebhookIgnored, f.err
	}
	return orders.WebhookProcessed, nil
}

func (f *fakeOrders) Deliver(_ context.Context, caller models.Caller, orderId string, _ orders.DeliverInput) (*orders.OrderDetails, error) {
	f.caller, f.orderId = caller, orderId
	if f.err != nil {
		return nil, f.err
	}
	return sampleDetails(), nil
}

func (f *fakeOrders) Complete(_ context.Context, caller models.Caller, orderId string) (*orders.OrderDetails, error) {
	f.caller, f.orderId = caller, orderId
	if f.err != nil {
		return nil, f.err
	}
	return sampleDetails(), nil
}

func (f *fakeOrders) List(_ context.Context, caller models.Caller) ([]orders.OrderDetails, error) {
	f.caller = caller
	if f.err != nil {
		return nil, f.err
	}
	return []orders.OrderDetails{*sampleDetails()}, nil
}

func (f *fakeOrders) Get(_ context.Context, caller models.Caller, orderId string) (*orders.OrderDetails, error) {
	f.caller, f.orderId = caller, orderId
	if f.err != nil {
		return nil, f.err
	}
	return sampleDetails(), nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestApi(svc *fakeOrders, webhookSecret string) http.Handler {
	return NewOrderApi(svc, fakePinger{},
		models.AuthConfig{JwtSecret: testSecret},
		models.GatewayConfig{WebhookSecret: webhookSecret}).Routes()
}

func token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func do(h http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrder(t *testing.T) {
	svc := &fakeOrders{}
	h := newTestApi(svc, "")

	body := `{"gig_id": 3, "freelancer_id": "9", "amount": 150, "customer_name": "Ana", "customer_email": "ana@example.com", "customer_cpf": "12345678901"}`
	rec := do(h, http.MethodPost, "/orders", token(t, jwt.MapClaims{"user_id": 7}), body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, models.Caller{UserId: "7"}, svc.caller)
	assert.Equal(t, "3", svc.createInput.GigId)
	assert.Equal(t, "9", svc.createInput.FreelancerId)
	assert.True(t, svc.createInput.Amount.Equal(decimal.NewFromInt(150)))

	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "https://pay.example.com/bill_abc", view["payment_url"])
	assert.Equal(t, "9.00", view["platform_fee"])
	assert.Equal(t, "141.00", view["freelancer_net"])
	assert.Equal(t, "PENDING", view["status"])
}

func TestCreateOrderMalformedBody(t *testing.T) {
	h := newTestApi(&fakeOrders{}, "")

	rec := do(h, http.MethodPost, "/orders", token(t, jwt.MapClaims{"user_id": "7"}), `{"amount": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthentication(t *testing.T) {
	h := newTestApi(&fakeOrders{}, "")

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"missing user id", token(t, jwt.MapClaims{"is_staff": true})},
		{"expired", token(t, jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodGet, "/orders", tt.auth, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	rec := do(h, http.MethodGet, "/orders", "Bearer "+other, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffClaim(t *testing.T) {
	svc := &fakeOrders{}
	h := newTestApi(svc, "")

	rec := do(h, http.MethodGet, "/orders", token(t, jwt.MapClaims{"user_id": "admin", "is_staff": true}), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Caller{UserId: "admin", IsStaff: true}, svc.caller)

	var views []models.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, 1)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: amount is required", orders.ErrValidation), http.StatusBadRequest},
		{orders.ErrInvalidState, http.StatusBadRequest},
		{catalog.ErrPriceMismatch, http.StatusBadRequest},
		{orders.ErrForbidden, http.StatusForbidden},
		{orders.ErrOrderNotFound, http.StatusNotFound},
		{fmt.Errorf("billing: %w", gateway.ErrGatewayError), http.StatusBadRequest},
		{errors.New("disk I/O error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		svc := &fakeOrders{err: tt.err}
		h := newTestApi(svc, "")
		rec := do(h, http.MethodPost, "/orders/order-1/complete", token(t, jwt.MapClaims{"user_id": 7}), "")
		assert.Equal(t, tt.want, rec.Code, "%v", tt.err)
		assert.Equal(t, "order-1", svc.orderId)
	}

	svc := &fakeOrders{err: errors.New("secret detail")}
	rec := do(newTestApi(svc, ""), http.MethodGet, "/orders/order-1", token(t, jwt.MapClaims{"user_id": 7}), "")
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestDeliverRoute(t *testing.T) {
	svc := &fakeOrders{}
	h := newTestApi(svc, "")

	rec := do(h, http.MethodPost, "/orders/order-9/deliver", token(t, jwt.MapClaims{"user_id": 9}),
		`{"delivery_files": "https://files.example.com/x.zip", "delivery_note": "done"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "order-9", svc.orderId)
	assert.Equal(t, "9", svc.caller.UserId)
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	payload := `{"event": "billing.paid", "data": {"id": "bill_abc"}}`

	tests := []struct {
		name string
		svc  *fakeOrders
		body string
	}{
		{"processed", &fakeOrders{}, payload},
		{"service error", &fakeOrders{err: errors.New("database is locked")}, payload},
		{"malformed", &fakeOrders{}, `{not json`},
		{"empty", &fakeOrders{}, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestApi(tt.svc, ""), http.MethodPost, "/orders/webhook", "", tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"received": true}`, rec.Body.String())
		})
	}
}

func TestWebhookSecret(t *testing.T) {
	payload := `{"event": "billing.paid", "data": {"id": "bill_abc"}}`

	svc := &fakeOrders{}
	h := newTestApi(svc, "s3cret")

	rec := do(h, http.MethodPost, "/orders/webhook?webhookSecret=wrong", "", payload)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.webhooks)

	rec = do(h, http.MethodPost, "/orders/webhook?webhookSecret=s3cret", "", payload)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.webhooks, 1)
	assert.Equal(t, "bill_abc", svc.webhooks[0].Data.Id)
}

func TestHealth(t *testing.T) {
	h := NewOrderApi(&fakeOrders{}, fakePinger{}, models.AuthConfig{}, models.GatewayConfig{}).Routes()
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "", "").Code)

	h = NewOrderApi(&fakeOrders{}, fakePinger{err: errors.New("closed")}, models.AuthConfig{}, models.GatewayConfig{}).Routes()
	assert.Equal(t, http.StatusServiceUnavailable, do(h, http.MethodGet, "/health", "", "").Code)
}

func TestParseCallerRejections(t *testing.T) {
	a := NewOrderApi(&fakeOrders{}, fakePinger{}, models.AuthConfig{JwtSecret: testSecret}, models.GatewayConfig{})

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-jwt", none, strings.TrimPrefix(token(t, jwt.MapClaims{"user_id": true}), "Bearer ")} {
		_, err := a.parseCaller(raw)
		require.Error(t, err, "token %q", raw)
		assert.NotContains(t, err.Error(), "%!w", "token %q", raw)
	}

	caller, err := a.parseCaller(strings.TrimPrefix(token(t, jwt.MapClaims{"user_id": 42.0, "is_staff": true}), "Bearer "))
	require.NoError(t, err)
	assert.Equal(t, models.Caller{UserId: "42", IsStaff: true}, caller)
}
