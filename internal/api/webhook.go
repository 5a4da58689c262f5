package api

import (
	"crypto/subtle"
	"net/http"

	"lykos-order-service/internal/models"

	"go.uber.org/zap"
)

// webhook acknowledges every delivery with 200 so the gateway never retries
// into a loop. Failures are logged and left for reconciliation.
func (a *OrderApi) webhook(w http.ResponseWriter, r *http.Request) {
	ack := models.WebhookAck{Received: true}

	if a.webhookSecret != "" {
		got := r.URL.Query().Get("webhookSecret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.webhookSecret)) != 1 {
			zap.L().Warn("Webhook secret mismatch, event ignored",
				zap.String("remote_addr", r.RemoteAddr))
			writeJSON(w, http.StatusOK, ack)
			return
		}
	}

	var event models.WebhookEvent
	if err := decodeBody(r, &event); err != nil {
		zap.L().Warn("Malformed webhook payload ignored", zap.Error(err))
		writeJSON(w, http.StatusOK, ack)
		return
	}

	outcome, err := a.orders.HandleWebhook(r.Context(), event)
	if err != nil {
		zap.L().Error("Failed to process webhook",
			zap.String("event", event.Event),
			zap.String("external_id", event.Data.Id),
			zap.Error(err))
	} else {
		zap.L().Info("Webhook handled",
			zap.String("event", event.Event),
			zap.String("external_id", event.Data.Id),
			zap.String("outcome", string(outcome)))
	}

	writeJSON(w, http.StatusOK, ack)
}
