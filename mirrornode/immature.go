package mirrornode

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

// immatureRecord is the subset of fields contract-result and log records
// carry that determine maturity (spec.md §3: block_number == null,
// transaction_index == null, or block_hash == "0x" means the consensus node
// has not yet finalized the record).
type immatureRecord struct {
	BlockNumber     *Number `json:"block_number"`
	TransactionIndex *Number `json:"transaction_index"`
	BlockHash       string  `json:"block_hash"`
}

func (r immatureRecord) isImmature() bool {
	return r.BlockNumber == nil || r.TransactionIndex == nil || r.BlockHash == "0x"
}

// ImmaturePollDelay is the fixed delay between immature-record retries
// (spec.md §4.2 leaves the exact interval to the implementation; this
// mirrors the mirror node's own block-close cadence of ~2s).
var ImmaturePollDelay = 2 * time.Second

// PollUntilMature repeatedly runs fetch until every record it returns is
// mature, retrying up to retryCount times (spec.md §4.2's immature-record
// polling, §6.3's exactly-k+1-calls property). It raises
// relayerrors.DependentServiceImmatureRecords if records are still immature
// on the final attempt.
func PollUntilMature(ctx context.Context, retryCount int, fetch func(ctx context.Context) ([]json.RawMessage, error)) ([]json.RawMessage, error) {
	var last []json.RawMessage

	for attempt := 0; attempt <= retryCount; attempt++ {
		records, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		last = records

		if allMature(records) {
			return records, nil
		}

		if attempt == retryCount {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(ImmaturePollDelay):
		}
	}

	return last, relayerrors.DependentServiceImmatureRecords(retryCount)
}

func allMature(records []json.RawMessage) bool {
	for _, raw := range records {
		var r immatureRecord
		if err := Decode(raw, &r); err != nil {
			// malformed record: treat as mature so a decode issue surfaces
			// through the caller's own unmarshal instead of looping forever.
			continue
		}
		if r.isImmature() {
			return false
		}
	}
	return true
}
