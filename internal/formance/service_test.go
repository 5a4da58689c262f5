package formance

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"lykos-order-service/internal/models"

	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"github.com/shopspring/decimal"
)

// ---------- Unit tests for pure helpers (no Formance stack needed) ----------

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"141.00", "14100"},
		{"0.80", "80"},
		{"1234.55", "123455"},
		{"9", "900"},
	}
	for _, tt := range tests {
		if got := toMinorUnits(decimal.RequireFromString(tt.amount)); got != tt.want {
			t.Errorf("toMinorUnits(%s) = %s, want %s", tt.amount, got, tt.want)
		}
	}
}

func TestFromMinorUnits(t *testing.T) {
	if got := fromMinorUnits(big.NewInt(14100)); !got.Equal(decimal.RequireFromString("141")) {
		t.Errorf("expected 141, got %s", got)
	}
	if got := fromMinorUnits(nil); !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
}

func TestAccountAddresses(t *testing.T) {
	if got := pendingAccount("42"); got != "freelancers:42:pending" {
		t.Errorf("unexpected pending account %q", got)
	}
	if got := availableAccount("42"); got != "freelancers:42:available" {
		t.Errorf("unexpected available account %q", got)
	}
}

func TestVolumeBalance(t *testing.T) {
	vols := map[string]shared.V2Volume{
		Asset: {Input: big.NewInt(20000), Output: big.NewInt(5900)},
	}
	if got := volumeBalance(vols); !got.Equal(decimal.RequireFromString("141")) {
		t.Errorf("expected 141 from input-output, got %s", got)
	}

	vols[Asset] = shared.V2Volume{Balance: big.NewInt(900), Input: big.NewInt(1), Output: big.NewInt(1)}
	if got := volumeBalance(vols); !got.Equal(decimal.RequireFromString("9")) {
		t.Errorf("expected explicit balance 9, got %s", got)
	}

	if got := volumeBalance(map[string]shared.V2Volume{"USD/2": {Balance: big.NewInt(1)}}); !got.IsZero() {
		t.Errorf("expected zero for other assets, got %s", got)
	}
}

func TestBuildPostTransaction(t *testing.T) {
	entry := models.WalletEntry{
		Id:           "entry-1",
		FreelancerId: "42",
		OrderId:      "order-1",
		EntryType:    models.WalletEntryRelease,
		Amount:       decimal.RequireFromString("141.00"),
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	postTx, err := buildPostTransaction(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if postTx.Reference == nil || *postTx.Reference != "entry-1" {
		t.Errorf("reference must be the entry id")
	}
	if postTx.Timestamp == nil || !postTx.Timestamp.Equal(entry.CreatedAt) {
		t.Errorf("timestamp must be the entry time")
	}
	vars := postTx.Script.Vars
	if vars["amount"] != "14100" || vars["asset"] != "BRL/2" || vars["freelancer_id"] != "42" {
		t.Errorf("unexpected vars %v", vars)
	}
	if !strings.Contains(postTx.Script.Plain, `set_tx_meta("event_type", "release")`) {
		t.Errorf("release entry must use the release script")
	}
}

func TestBuildPostTransactionScripts(t *testing.T) {
	sources := map[models.WalletEntryType]string{
		models.WalletEntryCreditPending: "@platform:escrow",
		models.WalletEntryRelease:       "@freelancers:$freelancer_id:pending",
		models.WalletEntryRepairCredit:  "@platform:repairs",
	}
	for entryType, source := range sources {
		postTx, err := buildPostTransaction(models.WalletEntry{Id: "e", EntryType: entryType, Amount: decimal.NewFromInt(1)})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", entryType, err)
		}
		if !strings.Contains(postTx.Script.Plain, "source = "+source) {
			t.Errorf("%s: expected source %s", entryType, source)
		}
	}

	if _, err := buildPostTransaction(models.WalletEntry{EntryType: "refund"}); err == nil {
		t.Error("expected error for unknown entry type")
	}
}
