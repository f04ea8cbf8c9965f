package rpcdispatch

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/hbarlimit"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/mirrornode"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/requestctx"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/workerpool"
)

// registerEth binds the eth_* namespace named in spec.md §6.
func registerEth(r *Registry, deps Deps) {
	r.Register("eth", "chainId", handleEthChainID(deps), nil)
	r.Register("eth", "blockNumber", handleEthBlockNumber(deps), nil)
	r.Register("eth", "getBlockByNumber", handleEthGetBlockByNumber(deps), padTrailingFalse(2))
	r.Register("eth", "getBlockReceipts", handleEthGetBlockReceipts(deps), nil)
	r.Register("eth", "getLogs", handleEthGetLogs(deps), nil)
	r.Register("eth", "sendRawTransaction", handleEthSendRawTransaction(deps), nil)
}

// padTrailingFalse pads params out to n entries with JSON `false`, the
// rearranger shape spec.md §4.8 calls for when trailing optional booleans
// (e.g. eth_getBlockByNumber's fullTransactionObjects) are omitted by the
// caller.
func padTrailingFalse(n int) Rearranger {
	return func(params []RawMessage) ([]RawMessage, error) {
		for len(params) < n {
			params = append(params, RawMessage("false"))
		}
		return params, nil
	}
}

func handleEthChainID(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		emitExecuteQuery(deps, "eth_chainId")
		return hexUint64(deps.Config.ChainID), nil
	}
}

func handleEthBlockNumber(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		emitExecuteQuery(deps, "eth_blockNumber")
		block, err := deps.Mirror.GetBlock(ctx, "latest", int64(deps.Config.CacheTTL.Milliseconds()))
		if err != nil {
			return nil, err
		}
		return blockNumberHex(block)
	}
}

// emitExecuteQuery publishes an EXECUTE_QUERY record for a read-only
// method when deps carries an event sink; a no-op otherwise.
func emitExecuteQuery(deps Deps, method string) {
	if deps.Events != nil {
		deps.Events.EmitExecuteQuery(method)
	}
}

// GetBlockArgs is the arg type for workerpool.TaskGetBlock.
type GetBlockArgs struct {
	Tag          string
	DefaultTTLMs int64
}

func handleEthGetBlockByNumber(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		emitExecuteQuery(deps, "eth_getBlockByNumber")
		tag, err := requireParamString(params, 0)
		if err != nil {
			return nil, relayerrors.InvalidParams(err.Error())
		}
		args := GetBlockArgs{
			Tag:          normalizeBlockTag(tag),
			DefaultTTLMs: int64(deps.Config.CacheTTL.Milliseconds()),
		}

		if deps.Workers == nil {
			return deps.Mirror.GetBlock(ctx, args.Tag, args.DefaultTTLMs)
		}
		result, err := deps.Workers.Run(ctx, workerpool.Task{Type: workerpool.TaskGetBlock, Args: args})
		if err != nil {
			return nil, workerpool.UnwrapError(err)
		}
		return result, nil
	}
}

// GetBlockReceiptsArgs is the arg type for workerpool.TaskGetBlockReceipts.
type GetBlockReceiptsArgs struct {
	BlockHash string
	PageMax   int
}

func handleEthGetBlockReceipts(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		emitExecuteQuery(deps, "eth_getBlockReceipts")
		hash, err := requireParamString(params, 0)
		if err != nil {
			return nil, relayerrors.InvalidParams(err.Error())
		}
		pageMax := deps.Config.MirrorNodeContractResultsPgMax
		if pageMax <= 0 {
			pageMax = 25
		}
		args := GetBlockReceiptsArgs{BlockHash: hash, PageMax: pageMax}

		if deps.Workers == nil {
			return FetchBlockReceipts(ctx, deps.Mirror, deps.Config.MirrorNodeRequestRetryCount, args)
		}
		result, err := deps.Workers.Run(ctx, workerpool.Task{Type: workerpool.TaskGetBlockReceipts, Args: args})
		if err != nil {
			return nil, workerpool.UnwrapError(err)
		}
		return result, nil
	}
}

// FetchBlockReceipts performs the mirror-node call workerpool.TaskGetBlockReceipts
// runs, shared between the direct path (deps.Workers == nil) and the
// handler relay.New registers with the pool.
func FetchBlockReceipts(ctx context.Context, mirror *mirrornode.Client, retryCount int, args GetBlockReceiptsArgs) ([]RawMessage, error) {
	path := "contracts/results?block.hash=" + args.BlockHash
	return mirrornode.PollUntilMature(ctx, retryCount, func(ctx context.Context) ([]RawMessage, error) {
		return mirror.GetPaginatedResults(ctx, mirrornode.Request{
			Method:    mirrornode.MethodGET,
			Path:      path,
			PathLabel: mirrornode.PathLabel(path),
		}, "results", args.PageMax)
	})
}

func normalizeBlockTag(tag string) string {
	if tag == "earliest" {
		return "0"
	}
	return tag
}

// logsFilter mirrors the eth_getLogs filter object (spec.md §6); only the
// fields the mirror node's contracts/results/logs endpoint accepts as query
// parameters are modelled.
type logsFilter struct {
	BlockHash string   `json:"blockHash"`
	FromBlock string   `json:"fromBlock"`
	ToBlock   string   `json:"toBlock"`
	Address   string   `json:"address"`
	Topics    []string `json:"topics"`
}

// GetLogsArgs is the arg type for workerpool.TaskGetLogs.
type GetLogsArgs struct {
	Filter     logsFilter
	PageMax    int
	RetryCount int
}

func handleEthGetLogs(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		emitExecuteQuery(deps, "eth_getLogs")
		var filter logsFilter
		if err := paramObject(params, 0, &filter); err != nil {
			return nil, relayerrors.InvalidParams(err.Error())
		}

		pageMax := deps.Config.MirrorNodeContractResultsLogsPgMax
		if pageMax <= 0 {
			pageMax = 25
		}
		args := GetLogsArgs{Filter: filter, PageMax: pageMax, RetryCount: deps.Config.MirrorNodeRequestRetryCount}

		if deps.Workers == nil {
			return FetchLogs(ctx, deps.Mirror, args)
		}
		result, err := deps.Workers.Run(ctx, workerpool.Task{Type: workerpool.TaskGetLogs, Args: args})
		if err != nil {
			return nil, workerpool.UnwrapError(err)
		}
		return result, nil
	}
}

// FetchLogs performs the mirror-node call workerpool.TaskGetLogs runs,
// shared between the direct path and the pool-registered handler.
func FetchLogs(ctx context.Context, mirror *mirrornode.Client, args GetLogsArgs) ([]RawMessage, error) {
	path := "contracts/results/logs" + logsQuery(args.Filter)
	return mirrornode.PollUntilMature(ctx, args.RetryCount, func(ctx context.Context) ([]RawMessage, error) {
		return mirror.GetPaginatedResults(ctx, mirrornode.Request{
			Method:    mirrornode.MethodGET,
			Path:      path,
			PathLabel: mirrornode.PathLabel(path),
		}, "logs", args.PageMax)
	})
}

func logsQuery(f logsFilter) string {
	var parts []string
	if f.BlockHash != "" {
		parts = append(parts, "block.hash="+f.BlockHash)
	}
	if f.FromBlock != "" {
		parts = append(parts, "timestamp=gte:"+f.FromBlock)
	}
	if f.ToBlock != "" {
		parts = append(parts, "timestamp=lte:"+f.ToBlock)
	}
	if f.Address != "" {
		parts = append(parts, "address="+f.Address)
	}
	for i, t := range f.Topics {
		parts = append(parts, fmt.Sprintf("topic%d=%s", i, t))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

func handleEthSendRawTransaction(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		rawHex, err := requireParamString(params, 0)
		if err != nil {
			return nil, relayerrors.InvalidParams(err.Error())
		}
		rawBytes, err := hex.DecodeString(strings.TrimPrefix(rawHex, "0x"))
		if err != nil {
			return nil, relayerrors.InvalidParams("raw transaction must be 0x-prefixed hex")
		}

		var tx ethtypes.Transaction
		if err := tx.UnmarshalBinary(rawBytes); err != nil {
			return nil, relayerrors.InvalidParams("failed to decode raw transaction: " + err.Error())
		}

		signer := ethtypes.LatestSignerForChainID(new(big.Int).SetUint64(deps.Config.ChainID))
		sender, err := ethtypes.Sender(signer, &tx)
		if err != nil {
			return nil, relayerrors.InvalidParams("could not recover sender from signature: " + err.Error())
		}
		senderHex := sender.Hex()

		clientIP := ""
		if rc, ok := requestctx.FromContext(ctx); ok {
			clientIP = rc.ClientIP
		}

		fees, err := deps.Mirror.Get(ctx, "network/fees", clientIP)
		if err != nil {
			return nil, err
		}
		gasPrice := gasPriceTinybarsFrom(fees)
		estimatedFeeTinybars := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(tx.Gas())).Int64()

		if deps.Limiter != nil {
			exceeded, err := deps.Limiter.ShouldLimit(ctx, hbarlimit.TxKindEthSendRawTransaction, senderHex, clientIP, senderHex, estimatedFeeTinybars)
			if err != nil {
				return nil, err
			}
			if exceeded {
				return nil, relayerrors.HbarRateLimitExceeded(senderHex)
			}
		}

		if deps.Pool != nil {
			if err := deps.Pool.SaveTransaction(ctx, senderHex, rawHex); err != nil {
				return nil, err
			}
		}

		result, execErr := deps.Consensus.SendRawTransaction(ctx, senderHex, rawBytes, gasPrice, senderHex)

		if deps.Pool != nil {
			_ = deps.Pool.RemoveTransaction(ctx, senderHex, rawHex)
		}

		if execErr != nil {
			return nil, execErr
		}

		if deps.Limiter != nil {
			deps.Limiter.RecordSpend(senderHex, clientIP, gasPrice.Int64())
		}

		if deps.Events != nil {
			deps.Events.EmitEthExecution(senderHex, "eth_sendRawTransaction")
		}

		return result.TransactionID, nil
	}
}

// gasPriceTinybarsFrom extracts the current network gas price from the
// mirror node's network/fees response, defaulting to 1 if the shape is
// unexpected rather than failing the whole submission over a fee estimate.
func gasPriceTinybarsFrom(fees map[string]any) *big.Int {
	if fees == nil {
		return big.NewInt(1)
	}
	list, ok := fees["fees"].([]any)
	if !ok || len(list) == 0 {
		return big.NewInt(1)
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return big.NewInt(1)
	}
	n, ok := first["gas"].(mirrornode.Number)
	if !ok {
		return big.NewInt(1)
	}
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return big.NewInt(1)
	}
	return big.NewInt(v)
}

func blockNumberHex(block map[string]any) (string, error) {
	if block == nil {
		return "0x0", nil
	}
	n, ok := block["number"].(mirrornode.Number)
	if !ok {
		return "0x0", nil
	}
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return "", fmt.Errorf("rpcdispatch: unexpected block number shape: %w", err)
	}
	return hexInt64(v), nil
}

func hexUint64(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

func hexInt64(v int64) string {
	return "0x" + strconv.FormatInt(v, 16)
}
