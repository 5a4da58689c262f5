package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"lykos-order-service/internal/orders"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeOrderError maps an order service error to an HTTP status. Internal
// errors never leak their message.
func writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	kind := orders.Classify(err)
	fields := []zap.Field{
		zap.String("kind", kind.String()),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}

	switch kind {
	case orders.KindValidation, orders.KindBusinessRule:
		zap.L().Info("Order request rejected", fields...)
		writeError(w, http.StatusBadRequest, err.Error())
	case orders.KindAuthorization:
		zap.L().Warn("Order request forbidden", fields...)
		writeError(w, http.StatusForbidden, err.Error())
	case orders.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case orders.KindExternal:
		zap.L().Error("External service failure", fields...)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error("Order request failed", fields...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}
