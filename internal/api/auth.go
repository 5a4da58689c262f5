package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"lykos-order-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// authenticated extracts the caller from a bearer token issued by the auth
// service and stores it in the request context.
func (a *OrderApi) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		caller, err := a.parseCaller(parts[1])
		if err != nil {
			zap.L().Debug("Rejected bearer token", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(models.WithCaller(r.Context(), caller)))
	})
}

func (a *OrderApi) parseCaller(tokenStr string) (models.Caller, error) {
	if len(a.jwtSecret) == 0 {
		return models.Caller{}, fmt.Errorf("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return models.Caller{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return models.Caller{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Caller{}, fmt.Errorf("invalid token claims")
	}

	userId, err := claimString(claims["user_id"])
	if err != nil {
		return models.Caller{}, err
	}
	isStaff, _ := claims["is_staff"].(bool)

	return models.Caller{UserId: userId, IsStaff: isStaff}, nil
}

// claimString accepts user ids encoded as JSON numbers or strings.
func claimString(v any) (string, error) {
	switch id := v.(type) {
	case string:
		if id != "" {
			return id, nil
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("user_id claim missing or wrong type")
}
