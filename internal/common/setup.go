package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lykos-order-service/internal/catalog"
	"lykos-order-service/internal/database"
	"lykos-order-service/internal/fees"
	"lykos-order-service/internal/formance"
	"lykos-order-service/internal/gateway"
	"lykos-order-service/internal/models"
	"lykos-order-service/internal/orders"
	"lykos-order-service/internal/wallet"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// A missing .env is fine: variables may come from the shell or the container
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService      *database.Service
	Calculator     *fees.Calculator
	Ledger         *wallet.Ledger
	OrderService   *orders.Service
	JournalService *formance.Service // nil when Formance is not configured
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices wires the database, the outbound integrations and the
// order state machine.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	calculator, err := InitializeCalculator(cfg)
	if err != nil {
		return nil, err
	}

	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	catalogHttp, err := NewHttpClient(cfg.Catalog.Timeout)
	if err != nil {
		dbService.Close()
		return nil, fmt.Errorf("unable to create catalog http client: %w", err)
	}
	gatewayHttp, err := NewHttpClient(cfg.Gateway.Timeout)
	if err != nil {
		dbService.Close()
		return nil, fmt.Errorf("unable to create gateway http client: %w", err)
	}

	journalService := InitializeJournal(ctx, cfg)

	var journal wallet.Journal
	if journalService != nil {
		journal = journalService
	}
	ledger := wallet.NewLedger(dbService, journal)

	orderService := orders.NewService(
		dbService,
		catalog.NewClient(cfg.Catalog.BaseUrl, catalogHttp),
		gateway.New(cfg.Gateway, gatewayHttp),
		calculator,
		ledger,
	)

	return &Services{
		DbService:      dbService,
		Calculator:     calculator,
		Ledger:         ledger,
		OrderService:   orderService,
		JournalService: journalService,
	}, nil
}

// InitializeDatabaseOnly initializes the database and wallet ledger without
// outbound integrations. Useful for read-only tools.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, *wallet.Ledger, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return dbService, wallet.NewLedger(dbService, nil), nil
}

// InitializeCalculator loads the fee schedule and validates it.
func InitializeCalculator(cfg *models.Config) (*fees.Calculator, error) {
	schedule, err := fees.LoadSchedule(cfg.Fees.ScheduleFile)
	if err != nil {
		return nil, fmt.Errorf("unable to load fee schedule: %w", err)
	}
	zap.L().Info("Fee schedule loaded",
		zap.String("file", cfg.Fees.ScheduleFile),
		zap.String("gateway_fixed_fee", schedule.GatewayFixedFee.StringFixed(2)),
		zap.Int("tiers", len(schedule.Tiers)))
	return fees.NewCalculator(schedule), nil
}

// InitializeJournal connects to Formance when configured. The mirror is
// optional, so failures are logged and nil is returned.
func InitializeJournal(ctx context.Context, cfg *models.Config) *formance.Service {
	if !cfg.Formance.Enabled() {
		zap.L().Info("Formance not configured, wallet mirror disabled")
		return nil
	}
	journalService, err := formance.NewService(ctx, cfg.Formance)
	if err != nil {
		zap.L().Warn("Formance unavailable, wallet mirror disabled", zap.Error(err))
		return nil
	}
	return journalService
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
