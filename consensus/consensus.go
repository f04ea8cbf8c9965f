// Package consensus submits decoded Ethereum transactions through the
// Hedera consensus-node SDK (spec.md §4.6, component C6). Raw-transaction
// decoding reuses go-ethereum's own types.Transaction.UnmarshalBinary plus
// .To()/.Data() accessors exactly the way ethtxn.AsMessageWithSigner
// extracts fields without performing signature recovery (a non-goal here).
package consensus

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/sendlock"
)

// DecodedTransaction is the subset of an RLP-encoded Ethereum transaction
// the consensus submission path needs, extracted without any signature
// verification (spec.md's explicit non-goal).
type DecodedTransaction struct {
	To   *[20]byte
	Data []byte
	Gas  uint64
}

// DecodeRawTransaction unmarshals rawBytes (the already hex-decoded RLP) into a
// go-ethereum types.Transaction and extracts the fields the file-chunking
// and fee-computation steps need.
func DecodeRawTransaction(rawBytes []byte) (*DecodedTransaction, error) {
	var tx types.Transaction
	if err := tx.UnmarshalBinary(rawBytes); err != nil {
		return nil, fmt.Errorf("consensus: failed to decode raw transaction: %w", err)
	}

	var to *[20]byte
	if addr := tx.To(); addr != nil {
		arr := [20]byte(*addr)
		to = &arr
	}

	return &DecodedTransaction{
		To:   to,
		Data: tx.Data(),
		Gas:  tx.Gas(),
	}, nil
}

// FileOp is one step of the auxiliary-file path used when call data exceeds
// the inline chunk size (spec.md §4.6 step 3).
type FileOp struct {
	Create bool // true for the first chunk, false for an "append-all" op
	Chunk  []byte
}

// PlanFileChunks splits data into FileOps bounded by maxChunks, the first
// marked Create and the rest append operations (spec.md §4.6 step 3:
// "write the first chunk via a create op and the remainder via an
// append-all op, chunked by configured chunk size, bounded by max-chunks").
func PlanFileChunks(data []byte, chunkSize, maxChunks int) ([]FileOp, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("consensus: chunk size must be positive")
	}

	var ops []FileOp
	for offset := 0; offset < len(data); offset += chunkSize {
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		ops = append(ops, FileOp{Create: offset == 0, Chunk: data[offset:end]})
		if len(ops) > maxChunks {
			return nil, fmt.Errorf("consensus: call data requires %d chunks, exceeding max of %d", len(ops), maxChunks)
		}
	}
	return ops, nil
}

// ShouldInlineCallData reports whether dataLen fits on the transaction
// directly rather than needing the auxiliary-file path (spec.md §4.6 step
// 2: "call data length <= chunk size OR jumbo-tx is enabled").
func ShouldInlineCallData(dataLen, chunkSize int, jumboEnabled bool) bool {
	return dataLen <= chunkSize || jumboEnabled
}

// feeSafetyFactor multiplies the network gas price to derive
// maxTransactionFee (spec.md §4.6 step 4); chosen to match the mirror
// node's own margin for gas-price volatility between estimate and submit.
const feeSafetyFactor = int64(2)

// ComputeMaxTransactionFee derives maxTransactionFee from the current
// network gas price (spec.md §4.6 step 4).
func ComputeMaxTransactionFee(gas uint64, networkGasPriceTinybars *big.Int) *big.Int {
	fee := new(big.Int).SetUint64(gas)
	fee.Mul(fee, networkGasPriceTinybars)
	fee.Mul(fee, big.NewInt(feeSafetyFactor))
	return fee
}

// ExecuteResult is the outcome of one consensus-node submission.
type ExecuteResult struct {
	TransactionID string
	Status        string
}

// Client submits decoded transactions through an SDKClient, handling the
// inline-vs-file-chunked decision, fee computation, gas-allowance
// subsidy, error normalisation, and the lock-release finally path (spec.md
// §4.6).
type Client struct {
	sdk    SDKClient
	lock   sendlock.Locker
	events EventSink

	chunkSize           int
	maxChunks           int
	jumboEnabled        bool
	maxGasAllowanceHbar int64
	subsidised          map[[20]byte]struct{}

	lockWaitTimeout time.Duration
	lockMaxHold     time.Duration
}

// EventSink receives the EXECUTE_TRANSACTION event (spec.md §4.6 step 7);
// the relay package's event bus implements it.
type EventSink interface {
	EmitExecuteTransaction(record ExecuteTransactionEvent)
}

// ExecuteTransactionEvent is the {transactionId, txKind, operatorId, ctx,
// originalCaller} tuple spec.md §4.6 asks to be emitted for metrics.
type ExecuteTransactionEvent struct {
	TransactionID  string
	TxKind         string
	OperatorID     string
	OriginalCaller string
}

// NewClient builds a consensus submission Client.
func NewClient(sdk SDKClient, lock sendlock.Locker, events EventSink, chunkSize, maxChunks int, jumboEnabled bool, maxGasAllowanceHbar int64, subsidised map[[20]byte]struct{}, lockWaitTimeout, lockMaxHold time.Duration) *Client {
	return &Client{
		sdk:                 sdk,
		lock:                lock,
		events:              events,
		chunkSize:           chunkSize,
		maxChunks:           maxChunks,
		jumboEnabled:        jumboEnabled,
		maxGasAllowanceHbar: maxGasAllowanceHbar,
		subsidised:          subsidised,
		lockWaitTimeout:     lockWaitTimeout,
		lockMaxHold:         lockMaxHold,
	}
}

// SendRawTransaction runs the full spec.md §4.6 pipeline: acquire the
// sender lock, decode, chunk-or-inline, compute fees, execute, normalise
// errors, and release the lock in a finally path regardless of outcome.
func (c *Client) SendRawTransaction(ctx context.Context, sender string, rawBytes []byte, networkGasPriceTinybars *big.Int, originalCaller string) (*ExecuteResult, error) {
	sessionKey, err := c.lock.Acquire(ctx, sender, c.lockWaitTimeout, c.lockMaxHold)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.lock.Release(ctx, sender, sessionKey) }()

	decoded, err := DecodeRawTransaction(rawBytes)
	if err != nil {
		return nil, err
	}

	submission := Submission{
		To:   decoded.To,
		Data: decoded.Data,
	}

	if ShouldInlineCallData(len(decoded.Data), c.chunkSize, c.jumboEnabled) {
		submission.InlineData = decoded.Data
	} else {
		ops, err := PlanFileChunks(decoded.Data, c.chunkSize, c.maxChunks)
		if err != nil {
			return nil, err
		}
		fileID, err := c.sdk.UploadFile(ctx, ops)
		if err != nil {
			return nil, relayerrors.NewSDKClientError("FILE_UPLOAD_FAILED", err)
		}
		submission.CallDataFileID = fileID
	}

	submission.MaxTransactionFee = ComputeMaxTransactionFee(decoded.Gas, networkGasPriceTinybars)

	if decoded.To != nil && c.isSubsidised(*decoded.To) {
		submission.MaxGasAllowanceHbar = c.maxGasAllowanceHbar
	}

	resp, execErr := c.sdk.Execute(ctx, submission)

	c.events.EmitExecuteTransaction(ExecuteTransactionEvent{
		TransactionID:  txIDOf(resp),
		TxKind:         "eth_sendRawTransaction",
		OperatorID:     c.sdk.OperatorID(),
		OriginalCaller: originalCaller,
	})

	if execErr != nil {
		sdkErr := relayerrors.NewSDKClientError(statusOf(execErr), execErr)
		if relayerrors.IsWrongNonce(sdkErr) {
			return nil, sdkErr
		}
		if resp != nil {
			return &ExecuteResult{TransactionID: resp.TransactionID, Status: resp.Status}, sdkErr
		}
		return nil, sdkErr
	}

	return &ExecuteResult{TransactionID: resp.TransactionID, Status: resp.Status}, nil
}

func (c *Client) isSubsidised(addr [20]byte) bool {
	_, ok := c.subsidised[addr]
	return ok
}

func txIDOf(resp *Submitted) string {
	if resp == nil {
		return ""
	}
	return resp.TransactionID
}

// statusOf extracts a status string from an SDK-returned error; SDKError
// implementations surface their own status code via the sdkStatus
// interface, anything else is reported as UNKNOWN.
func statusOf(err error) string {
	type sdkStatus interface{ Status() string }
	if s, ok := err.(sdkStatus); ok {
		return s.Status()
	}
	return "UNKNOWN"
}
