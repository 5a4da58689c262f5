package formance

import (
	"context"
	"fmt"

	v3 "github.com/formancehq/formance-sdk-go/v3"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Balances returns the mirrored pending and available balances for a seller.
// Accounts that were never used read as zero.
func (s *Service) Balances(ctx context.Context, freelancerId string) (pending, available decimal.Decimal, err error) {
	pending, err = s.accountBalance(ctx, pendingAccount(freelancerId))
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	available, err = s.accountBalance(ctx, availableAccount(freelancerId))
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return pending, available, nil
}

func (s *Service) accountBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	zap.L().Debug("Getting account balance from Formance", zap.String("address", address))

	resp, err := s.client.Ledger.V2.GetAccount(ctx, operations.V2GetAccountRequest{
		Ledger:  s.ledger,
		Address: address,
		Expand:  v3.Pointer("volumes"),
	})
	if err != nil {
		if isNotFoundError(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to get account %s: %w", address, err)
	}
	return volumeBalance(resp.V2AccountResponse.Data.Volumes), nil
}

func volumeBalance(vols map[string]shared.V2Volume) decimal.Decimal {
	vol, ok := vols[Asset]
	if !ok {
		return decimal.Zero
	}
	if vol.Balance != nil {
		return fromMinorUnits(vol.Balance)
	}
	if vol.Input == nil {
		return decimal.Zero
	}
	result := fromMinorUnits(vol.Input)
	if vol.Output != nil {
		result = result.Sub(fromMinorUnits(vol.Output))
	}
	return result
}
