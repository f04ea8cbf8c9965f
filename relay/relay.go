package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	rediscache "github.com/goware/cachestore-redis"
	cachestore "github.com/goware/cachestore2"
	"github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/config"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/consensus"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/hbarlimit"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/mirrornode"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relaycache"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/rpcdispatch"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/sendlock"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/txpool"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/util"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/workerpool"
)

// Relay is the single long-lived object holding every component's
// singleton (spec.md §5's "connection pools ... are long-lived singletons
// with explicit teardown"). Construct with New, tear down with Close.
type Relay struct {
	cfg config.Config
	log *slog.Logger

	redis *redis.Client

	Cache     relaycache.Cache
	Counters  *relaycache.Registry
	Mirror    *mirrornode.Client
	Pool      *txpool.Pool
	Locker    sendlock.Locker
	Limiter   *hbarlimit.Limiter
	Consensus *consensus.Client
	Bus       *Bus
	Workers   *workerpool.Pool
	Registry  *rpcdispatch.Registry

	hederaClient *hedera.Client
	stopCounters chan struct{}
}

// OperatorConfig carries the consensus-node operator identity, which
// spec.md's recognised configuration surface (§6) does not itself name
// (it is a credential, not a tunable) and so is passed separately from
// config.Config.
type OperatorConfig struct {
	Network    string // "mainnet", "testnet", "previewnet"
	OperatorID string
	PrivateKey string

	// Subsidised is the set of EVM recipient addresses that receive an
	// extra gas allowance on submission (spec.md §4.6, glossary "Subsidised
	// transaction").
	Subsidised []string

	// SpendingPlans and the evm/ip address bindings feed hbarlimit.NewLimiter
	// directly (spec.md §4.5).
	SpendingPlans    []hbarlimit.SpendingPlan
	EVMAddressToPlan map[string]string
	IPAddressToPlan  map[string]string
	DefaultPlanID    string
}

// New constructs every component from cfg and op, wires them together, and
// registers every RPC method (spec.md §4, component C9). The caller must
// call Close when done.
func New(cfg config.Config, op OperatorConfig, log *slog.Logger) (*Relay, error) {
	cfg = config.WithDefaults(cfg)
	if log == nil {
		log = slog.Default()
	}

	r := &Relay{cfg: cfg, log: log}

	localCache, err := relaycache.NewLocalCache(cfg.CacheMax, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("relay: failed to build local cache: %w", err)
	}
	var baseCache relaycache.Cache = localCache
	cacheType := relaycache.CacheTypeLocal

	if cfg.RedisURL != "" {
		rdb, backend, err := newRedisBackend(cfg)
		if err != nil {
			return nil, err
		}
		r.redis = rdb
		remoteCache := relaycache.NewRemoteCache(backend, rdb, cfg.CacheTTL, cfg.MultiSet)
		baseCache = remoteCache
		cacheType = relaycache.CacheTypeRemote
	}

	r.Counters = relaycache.NewRegistry()
	measured := relaycache.NewMeasurableCache(baseCache, r.Counters, cacheType)
	r.Cache = relaycache.NewSafeCache(measured, log)

	mirror, err := mirrornode.NewClient(cfg, r.Cache, log)
	if err != nil {
		return nil, fmt.Errorf("relay: failed to build mirror node client: %w", err)
	}
	r.Mirror = mirror

	r.Pool = txpool.NewPool(r.newTxPoolStore(cfg), cfg.EnableTxPool)
	r.Locker = r.newLocker(cfg, log)

	r.Limiter = hbarlimit.NewLimiter(op.SpendingPlans, op.EVMAddressToPlan, op.IPAddressToPlan, op.DefaultPlanID)

	r.Bus = NewBus(log, util.NoopAlerter())

	hederaClient, operatorID, err := newHederaClient(op)
	if err != nil {
		return nil, err
	}
	r.hederaClient = hederaClient

	sdkClient := consensus.NewHederaSDKClient(hederaClient, operatorID, cfg.SDKRequestTimeout)
	subsidised, err := subsidisedSet(op.Subsidised)
	if err != nil {
		return nil, err
	}
	r.Consensus = consensus.NewClient(
		sdkClient, r.Locker, r.Bus,
		cfg.FileAppendChunkSize, cfg.FileAppendMaxChunks, cfg.JumboTxEnabled,
		cfg.MaxGasAllowanceHbar, subsidised,
		cfg.ConsensusMaxExecTime, cfg.ConsensusMaxExecTime,
	)

	r.Workers = workerpool.New(cfg.WorkersPoolMaxThreads)
	r.Workers.Register(workerpool.TaskGetBlock, func(ctx context.Context, args any) (any, error) {
		a := args.(rpcdispatch.GetBlockArgs)
		return r.Mirror.GetBlock(ctx, a.Tag, a.DefaultTTLMs)
	})
	r.Workers.Register(workerpool.TaskGetBlockReceipts, func(ctx context.Context, args any) (any, error) {
		a := args.(rpcdispatch.GetBlockReceiptsArgs)
		return rpcdispatch.FetchBlockReceipts(ctx, r.Mirror, cfg.MirrorNodeRequestRetryCount, a)
	})
	r.Workers.Register(workerpool.TaskGetLogs, func(ctx context.Context, args any) (any, error) {
		a := args.(rpcdispatch.GetLogsArgs)
		return rpcdispatch.FetchLogs(ctx, r.Mirror, a)
	})
	r.stopCounters = make(chan struct{})
	go r.drainWorkerCounters()

	r.Registry = rpcdispatch.NewRegistry()
	rpcdispatch.RegisterAll(r.Registry, rpcdispatch.Deps{
		Mirror:    r.Mirror,
		Pool:      r.Pool,
		Consensus: r.Consensus,
		Limiter:   r.Limiter,
		Config:    cfg,
		Workers:   r.Workers,
		Events:    r.Bus,
	})

	if err := r.Pool.Reset(context.Background()); err != nil {
		log.Warn("relay: failed to reset pending pool on startup", "error", err)
	}

	return r, nil
}

// drainWorkerCounters applies counter updates posted by in-flight worker
// tasks to the shared cache registry -- the parent-side half of spec.md
// §4.7's "forwards the counter update to the parent via a typed message",
// workerpool.CounterMessage being the message and relaycache.Registry the
// only mutator of its own counters.
func (r *Relay) drainWorkerCounters() {
	for {
		select {
		case msg := <-r.Workers.Counters():
			r.Counters.IncrCacheMethodCall(msg.CallingMethod, relaycache.CacheType(msg.CacheType), msg.Method)
		case <-r.stopCounters:
			return
		}
	}
}

// Close tears down every long-lived connection (spec.md §5).
func (r *Relay) Close(ctx context.Context) error {
	close(r.stopCounters)
	if r.hederaClient != nil {
		_ = r.hederaClient.Close()
	}
	if r.redis != nil {
		return r.redis.Close()
	}
	return nil
}

func (r *Relay) newTxPoolStore(cfg config.Config) txpool.Store {
	if r.redis != nil {
		return txpool.NewRemoteStore(r.redis, cfg.PendingTransactionStorageTTL)
	}
	return txpool.NewLocalStore()
}

func (r *Relay) newLocker(cfg config.Config, log *slog.Logger) sendlock.Locker {
	if r.redis != nil {
		return sendlock.NewRemoteLocker(r.redis, log)
	}
	return sendlock.NewLocalLocker(log)
}

// newRedisBackend builds both the cachestore2.Backend (for RemoteCache's
// get/set path) and the direct *redis.Client handle (for list/counter ops
// and for txpool/sendlock's native Redis operations) from one configured
// URL, the same dual-handle shape relaycache.RemoteCache documents.
func newRedisBackend(cfg config.Config) (*redis.Client, cachestore.Backend, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("relay: invalid RedisURL: %w", err)
	}
	rdb := redis.NewClient(opts)

	host, portStr, err := splitHostPort(opts.Addr)
	if err != nil {
		return nil, nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, nil, fmt.Errorf("relay: invalid redis port %q: %w", portStr, err)
	}

	backend, err := rediscache.NewBackend(&rediscache.Config{
		Enabled: true,
		Host:    host,
		Port:    uint16(port),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("relay: failed to build redis cachestore backend: %w", err)
	}
	return rdb, backend, nil
}

func splitHostPort(addr string) (string, string, error) {
	idx := strings.LastIndexByte(addr, ':')
	if idx < 0 {
		return "", "", fmt.Errorf("relay: redis address %q missing port", addr)
	}
	return addr[:idx], addr[idx+1:], nil
}

func subsidisedSet(addresses []string) (map[[20]byte]struct{}, error) {
	set := make(map[[20]byte]struct{}, len(addresses))
	for _, addr := range addresses {
		a, err := parseEVMAddress(addr)
		if err != nil {
			return nil, err
		}
		set[a] = struct{}{}
	}
	return set, nil
}

func parseEVMAddress(s string) ([20]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	var out [20]byte
	if len(s) != 40 {
		return out, fmt.Errorf("relay: %q is not a 20-byte hex address", s)
	}
	for i := 0; i < 20; i++ {
		b, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return out, fmt.Errorf("relay: %q is not valid hex: %w", s, err)
		}
		out[i] = byte(b)
	}
	return out, nil
}

func newHederaClient(op OperatorConfig) (*hedera.Client, hedera.AccountID, error) {
	var client *hedera.Client
	switch op.Network {
	case "mainnet":
		client = hedera.ClientForMainnet()
	case "previewnet":
		client = hedera.ClientForPreviewnet()
	default:
		client = hedera.ClientForTestnet()
	}

	operatorID, err := hedera.AccountIDFromString(op.OperatorID)
	if err != nil {
		return nil, hedera.AccountID{}, fmt.Errorf("relay: invalid operator account id: %w", err)
	}
	operatorKey, err := hedera.PrivateKeyFromString(op.PrivateKey)
	if err != nil {
		return nil, hedera.AccountID{}, fmt.Errorf("relay: invalid operator private key: %w", err)
	}
	client.SetOperator(operatorID, operatorKey)

	return client, operatorID, nil
}
