package consensus

import (
	"context"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/sendlock"
)

// legacyRLPTx builds an RLP-encoded (unsigned, zero-valued signature)
// legacy transaction with the given recipient and call data, enough for
// DecodeRawTransaction's field extraction -- no signature verification is
// performed anywhere on this path (spec.md's explicit non-goal).
func legacyRLPTx(t *testing.T, to *[20]byte, data []byte) []byte {
	t.Helper()

	var recipient *common.Address
	if to != nil {
		addr := common.Address(*to)
		recipient = &addr
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		To:       recipient,
		Value:    big.NewInt(0),
		Data:     data,
	})

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func TestShouldInlineCallData(t *testing.T) {
	require.True(t, ShouldInlineCallData(100, 4096, false))
	require.False(t, ShouldInlineCallData(5000, 4096, false))
	require.True(t, ShouldInlineCallData(5000, 4096, true), "jumbo-tx enabled should always inline")
}

func TestPlanFileChunks(t *testing.T) {
	data := make([]byte, 100)
	ops, err := PlanFileChunks(data, 40, 10)
	require.NoError(t, err)
	require.Len(t, ops, 3)
	require.True(t, ops[0].Create)
	require.False(t, ops[1].Create)
	require.False(t, ops[2].Create)
	require.Len(t, ops[2].Chunk, 20)
}

func TestPlanFileChunksExceedsMax(t *testing.T) {
	data := make([]byte, 100)
	_, err := PlanFileChunks(data, 10, 2)
	require.Error(t, err)
}

func TestComputeMaxTransactionFee(t *testing.T) {
	fee := ComputeMaxTransactionFee(21000, big.NewInt(10))
	require.Equal(t, big.NewInt(21000*10*2), fee)
}

type fakeSDK struct {
	executeErr    error
	executeStatus string
	uploadedOps   [][]FileOp
}

func (f *fakeSDK) UploadFile(ctx context.Context, ops []FileOp) (string, error) {
	f.uploadedOps = append(f.uploadedOps, ops)
	return "0.0.999", nil
}

func (f *fakeSDK) Execute(ctx context.Context, submission Submission) (*Submitted, error) {
	if f.executeErr != nil {
		return nil, f.executeErr
	}
	return &Submitted{TransactionID: "0.0.1@1-1", Status: f.executeStatus}, nil
}

func (f *fakeSDK) OperatorID() string { return "0.0.2" }

type fakeEvents struct {
	events []ExecuteTransactionEvent
}

func (f *fakeEvents) EmitExecuteTransaction(e ExecuteTransactionEvent) {
	f.events = append(f.events, e)
}

type wrongNonceErr struct{}

func (wrongNonceErr) Error() string  { return "wrong nonce" }
func (wrongNonceErr) Status() string { return "WRONG_NONCE" }

func TestSendRawTransactionInlinesSmallCallData(t *testing.T) {
	sdk := &fakeSDK{executeStatus: "SUCCESS"}
	events := &fakeEvents{}
	c := NewClient(sdk, sendlock.NewLocalLocker(slog.Default()), events, 4096, 20, false, 0, nil, time.Second, time.Minute)

	raw := legacyRLPTx(t, nil, make([]byte, 100))
	result, err := c.SendRawTransaction(context.Background(), "0xabc", raw, big.NewInt(1), "0xabc")
	require.NoError(t, err)
	require.Equal(t, "SUCCESS", result.Status)
	require.Empty(t, sdk.uploadedOps, "small call data should be inlined, not uploaded as a file")
	require.Len(t, events.events, 1)
	require.Equal(t, "eth_sendRawTransaction", events.events[0].TxKind)
}

func TestSendRawTransactionChunksLargeCallData(t *testing.T) {
	sdk := &fakeSDK{executeStatus: "SUCCESS"}
	c := NewClient(sdk, sendlock.NewLocalLocker(slog.Default()), &fakeEvents{}, 100, 50, false, 0, nil, time.Second, time.Minute)

	raw := legacyRLPTx(t, nil, make([]byte, 500))
	_, err := c.SendRawTransaction(context.Background(), "0xabc", raw, big.NewInt(1), "0xabc")
	require.NoError(t, err)
	require.Len(t, sdk.uploadedOps, 1)
	require.Len(t, sdk.uploadedOps[0], 5)
}

func TestSendRawTransactionWrongNonceIsRethrownImmediately(t *testing.T) {
	sdk := &fakeSDK{executeErr: wrongNonceErr{}}
	c := NewClient(sdk, sendlock.NewLocalLocker(slog.Default()), &fakeEvents{}, 4096, 20, false, 0, nil, time.Second, time.Minute)

	raw := legacyRLPTx(t, nil, make([]byte, 10))
	_, err := c.SendRawTransaction(context.Background(), "0xabc", raw, big.NewInt(1), "0xabc")
	require.Error(t, err)
	require.True(t, relayerrors.IsWrongNonce(err))
}

func TestSendRawTransactionReleasesLockOnError(t *testing.T) {
	sdk := &fakeSDK{executeErr: wrongNonceErr{}}
	locker := sendlock.NewLocalLocker(slog.Default())
	c := NewClient(sdk, locker, &fakeEvents{}, 4096, 20, false, 0, nil, 20*time.Millisecond, time.Minute)

	raw := legacyRLPTx(t, nil, make([]byte, 10))
	ctx := context.Background()
	_, err := c.SendRawTransaction(ctx, "0xabc", raw, big.NewInt(1), "0xabc")
	require.Error(t, err)

	// If the lock were not released in the finally path, this second
	// acquire would time out.
	key, err := locker.Acquire(ctx, "0xabc", time.Second, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, key)
}
