package formance

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"lykos-order-service/internal/models"
	"lykos-order-service/internal/wallet"

	v3 "github.com/formancehq/formance-sdk-go/v3"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/sdkerrors"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var _ wallet.Journal = (*Service)(nil)

const (
	// Asset is the Formance UMN notation for Brazilian reais in centavos
	Asset     = "BRL/2"
	precision = 2
)

// Service mirrors committed wallet entries into a Formance Stack ledger.
type Service struct {
	client *v3.Formance
	ledger string
}

// NewService connects to the stack and creates the ledger if it does not exist yet.
func NewService(ctx context.Context, cfg models.FormanceConfig) (*Service, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("formance config requires StackURL, ClientID, and ClientSecret")
	}
	if cfg.LedgerName == "" {
		cfg.LedgerName = "lykos-wallets"
	}

	zap.L().Info("Connecting to Formance Stack",
		zap.String("stack_url", cfg.StackURL),
		zap.String("ledger", cfg.LedgerName))

	client := v3.New(
		v3.WithServerURL(cfg.StackURL),
		v3.WithSecurity(shared.Security{
			ClientID:     v3.Pointer(cfg.ClientID),
			ClientSecret: v3.Pointer(cfg.ClientSecret),
		}),
	)

	svc := &Service{client: client, ledger: cfg.LedgerName}
	if err := svc.ensureLedger(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger exists: %w", err)
	}

	zap.L().Info("Formance journal initialized", zap.String("ledger", cfg.LedgerName))
	return svc, nil
}

func (s *Service) ensureLedger(ctx context.Context) error {
	_, err := s.client.Ledger.V2.CreateLedger(ctx, operations.V2CreateLedgerRequest{
		Ledger: s.ledger,
		V2CreateLedgerRequest: shared.V2CreateLedgerRequest{
			Metadata: map[string]string{
				"application": "lykos-order-service",
			},
		},
	})
	if err != nil {
		var apiErr *sdkerrors.V2ErrorResponse
		if errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumLedgerAlreadyExists {
			zap.L().Info("Ledger already exists", zap.String("ledger", s.ledger))
			return nil
		}
		return err
	}
	zap.L().Info("Ledger created", zap.String("ledger", s.ledger))
	return nil
}

// ---------- helpers ----------

func pendingAccount(freelancerId string) string {
	return "freelancers:" + freelancerId + ":pending"
}

func availableAccount(freelancerId string) string {
	return "freelancers:" + freelancerId + ":available"
}

// toMinorUnits renders an amount in centavos, e.g. 141.00 -> "14100".
func toMinorUnits(amount decimal.Decimal) string {
	return amount.Shift(precision).Round(0).BigInt().String()
}

func fromMinorUnits(raw *big.Int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -precision)
}

func isConflictError(err error) bool {
	var apiErr *sdkerrors.V2ErrorResponse
	return errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumConflict
}

func isNotFoundError(err error) bool {
	var apiErr *sdkerrors.V2ErrorResponse
	return errors.As(err, &apiErr) && apiErr.ErrorCode == shared.V2ErrorsEnumNotFound
}
