package formance

import (
	"context"
	"fmt"

	"lykos-order-service/internal/models"

	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"go.uber.org/zap"
)

// Numscript templates, one per wallet entry type. Metadata is written with
// set_tx_meta() so each Formance transaction carries its order context.

const numscriptCreditPending = `vars {
  asset $asset
  number $amount
  account $freelancer_id
  string $order_id
  string $entry_id
}

send [$asset $amount] (
  source = @platform:escrow allowing unbounded overdraft
  destination = @freelancers:$freelancer_id:pending
)

set_tx_meta("event_type", "credit_pending")
set_tx_meta("order_id", $order_id)
set_tx_meta("entry_id", $entry_id)
`

const numscriptRelease = `vars {
  asset $asset
  number $amount
  account $freelancer_id
  string $order_id
  string $entry_id
}

send [$asset $amount] (
  source = @freelancers:$freelancer_id:pending
  destination = @freelancers:$freelancer_id:available
)

set_tx_meta("event_type", "release")
set_tx_meta("order_id", $order_id)
set_tx_meta("entry_id", $entry_id)
`

const numscriptRepairCredit = `vars {
  asset $asset
  number $amount
  account $freelancer_id
  string $order_id
  string $entry_id
}

send [$asset $amount] (
  source = @platform:repairs allowing unbounded overdraft
  destination = @freelancers:$freelancer_id:available
)

set_tx_meta("event_type", "repair_credit")
set_tx_meta("order_id", $order_id)
set_tx_meta("entry_id", $entry_id)
`

func numscriptFor(entryType models.WalletEntryType) (string, error) {
	switch entryType {
	case models.WalletEntryCreditPending:
		return numscriptCreditPending, nil
	case models.WalletEntryRelease:
		return numscriptRelease, nil
	case models.WalletEntryRepairCredit:
		return numscriptRepairCredit, nil
	default:
		return "", fmt.Errorf("unsupported wallet entry type %q", entryType)
	}
}

// buildPostTransaction turns a wallet entry into a Formance transaction.
// The entry id is the reference, so replays collide instead of double posting.
func buildPostTransaction(entry models.WalletEntry) (shared.V2PostTransaction, error) {
	script, err := numscriptFor(entry.EntryType)
	if err != nil {
		return shared.V2PostTransaction{}, err
	}

	createdAt := entry.CreatedAt
	return shared.V2PostTransaction{
		Reference: &entry.Id,
		Timestamp: &createdAt,
		Script: &shared.V2PostTransactionScript{
			Plain: script,
			Vars: map[string]string{
				"asset":         Asset,
				"amount":        toMinorUnits(entry.Amount),
				"freelancer_id": entry.FreelancerId,
				"order_id":      entry.OrderId,
				"entry_id":      entry.Id,
			},
		},
	}, nil
}

// RecordEntry posts a committed wallet entry to the ledger. An entry that was
// already posted is treated as success.
func (s *Service) RecordEntry(ctx context.Context, entry models.WalletEntry) error {
	postTx, err := buildPostTransaction(entry)
	if err != nil {
		return err
	}

	_, err = s.client.Ledger.V2.CreateTransaction(ctx, operations.V2CreateTransactionRequest{
		Ledger:            s.ledger,
		V2PostTransaction: postTx,
	})
	if err != nil {
		if isConflictError(err) {
			zap.L().Debug("Wallet entry already mirrored", zap.String("entry_id", entry.Id))
			return nil
		}
		return fmt.Errorf("error recording wallet entry %s: %w", entry.Id, err)
	}

	zap.L().Info("Wallet entry mirrored in Formance",
		zap.String("entry_id", entry.Id),
		zap.String("entry_type", string(entry.EntryType)),
		zap.String("freelancer_id", entry.FreelancerId),
		zap.String("amount", entry.Amount.StringFixed(2)))
	return nil
}
