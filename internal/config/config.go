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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"lykos-order-service/internal/models"
)

const busyTimeoutMargin = 5 * time.Second

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	readTimeout, err := getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	idleTimeout, err := getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	catalogTimeout, err := getEnvDuration("CATALOG_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	gatewayTimeout, err := getEnvDuration("ABACATEPAY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	// Order creation holds the write lock while the gateway answers, so every
	// other writer must be willing to wait longer than that.
	busyTimeout, err := getEnvDuration("DB_BUSY_TIMEOUT", gatewayTimeout+busyTimeoutMargin)
	if err != nil {
		return nil, err
	}
	if busyTimeout < gatewayTimeout+busyTimeoutMargin {
		return nil, fmt.Errorf("DB_BUSY_TIMEOUT %s must be at least ABACATEPAY_TIMEOUT %s plus %s",
			busyTimeout, gatewayTimeout, busyTimeoutMargin)
	}

	return &models.Config{
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "orders.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			BusyTimeout:     busyTimeout,
		},
		Http: models.HttpConfig{
			Addr:            getEnvString("HTTP_ADDR", ":8000"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			IdleTimeout:     idleTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Auth: models.AuthConfig{
			JwtSecret: os.Getenv("JWT_SECRET"),
		},
		Catalog: models.CatalogConfig{
			BaseUrl: getEnvString("CATALOG_BASE_URL", "http://catalog-service:8000/api/catalog"),
			Timeout: catalogTimeout,
		},
		Gateway: models.GatewayConfig{
			ApiKey:        os.Getenv("ABACATEPAY_API_KEY"),
			BaseUrl:       getEnvString("ABACATEPAY_BASE_URL", "https://api.abacatepay.com"),
			SandboxUrl:    getEnvString("ABACATEPAY_SANDBOX_URL", "https://abacatepay.com/pay/simulado"),
			ReturnUrl:     getEnvString("ABACATEPAY_RETURN_URL", "https://lykos.com.br/u/orders/{order_id}"),
			CompletionUrl: getEnvString("ABACATEPAY_COMPLETION_URL", "https://api.lykos.com.br/api/v1/webhooks/abacatepay"),
			WebhookSecret: os.Getenv("ABACATEPAY_WEBHOOK_SECRET"),
			Timeout:       gatewayTimeout,
		},
		Fees: models.FeesConfig{
			ScheduleFile: os.Getenv("FEE_SCHEDULE_FILE"),
		},
		Formance: models.FormanceConfig{
			StackURL:     os.Getenv("FORMANCE_STACK_URL"),
			ClientID:     os.Getenv("FORMANCE_CLIENT_ID"),
			ClientSecret: os.Getenv("FORMANCE_CLIENT_SECRET"),
			LedgerName:   getEnvString("FORMANCE_LEDGER_NAME", "lykos-wallets"),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
