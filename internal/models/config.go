package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Http     HttpConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Gateway  GatewayConfig
	Fees     FeesConfig
	Formance FormanceConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	BusyTimeout     time.Duration
}

// HttpConfig holds the API server settings
type HttpConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig holds the shared secret used to verify tokens issued by the auth service
type AuthConfig struct {
	JwtSecret string
}

// CatalogConfig holds catalog service lookup settings
type CatalogConfig struct {
	BaseUrl string
	Timeout time.Duration
}

// GatewayConfig holds AbacatePay settings. An empty ApiKey selects the mock backend.
type GatewayConfig struct {
	ApiKey        string
	BaseUrl       string
	SandboxUrl    string
	ReturnUrl     string // may contain {order_id}
	CompletionUrl string
	WebhookSecret string
	Timeout       time.Duration
}

// FeesConfig points to an optional fee schedule override
type FeesConfig struct {
	ScheduleFile string
}

// FormanceConfig holds the optional ledger mirror settings
type FormanceConfig struct {
	StackURL     string
	ClientID     string
	ClientSecret string
	LedgerName   string
}

// Enabled reports whether enough settings are present to reach a Formance stack.
func (c FormanceConfig) Enabled() bool {
	return c.StackURL != "" && c.ClientID != "" && c.ClientSecret != ""
}
