// Package config defines the relay's recognised configuration surface
// (spec.md §6), following ethrpc.Config's pattern of a typed struct plus a
// package-level Default value instead of the source's optional-chaining
// over an untyped env map.
package config

import "time"

// Config enumerates every recognised option from spec.md §6. Zero values are
// replaced by Default's fields wherever the caller leaves them unset; see
// WithDefaults.
type Config struct {
	// Cache (C1)
	CacheMax int
	CacheTTL time.Duration

	// Shared remote cache / pool / lock backend
	RedisURL               string
	RedisReconnectDelay     time.Duration
	MultiSet                bool

	Test bool

	// Mirror node client (C2)
	MirrorNodeURL                      string
	MirrorNodeURLWeb3                  string
	MirrorNodeTimeout                  time.Duration
	MirrorNodeMaxRedirects             int
	MirrorNodeHTTPKeepAlive            bool
	MirrorNodeHTTPKeepAliveMsecs       time.Duration
	MirrorNodeHTTPMaxSockets           int
	MirrorNodeHTTPMaxTotalSockets      int
	MirrorNodeHTTPSocketTimeout        time.Duration
	MirrorNodeRetries                  int
	MirrorNodeRetryDelay               time.Duration
	MirrorNodeRequestRetryCount        int
	MirrorNodeRetryCodes               []int
	MirrorNodeAgentCacheableDNS        bool
	MirrorNodeLimitParam               int
	MirrorNodeContractResultsPgMax     int
	MirrorNodeContractResultsLogsPgMax int
	MirrorNodeURLHeaderXApiKey         string
	UseMirrorNodeModularizedServices   bool
	EthCallAcceptedErrors              []int

	// Consensus submission (C6)
	SDKRequestTimeout      time.Duration
	ConsensusMaxExecTime   time.Duration
	FileAppendChunkSize    int
	FileAppendMaxChunks    int
	JumboTxEnabled         bool
	MaxGasAllowanceHbar    int64

	// HBAR limiter (C5)
	HbarRateLimitDuration time.Duration

	// Worker pool (C7)
	WorkersPoolMinThreads int
	WorkersPoolMaxThreads int

	ClientTransportSecurity bool
	ChainID                 uint64
	ReadOnly                bool

	// Pending pool (C3)
	EnableTxPool                  bool
	PendingTransactionStorageTTL  time.Duration

	GetRecordDefaultToConsensusNode bool

	LogLevel  string
	DebugMode bool
}

// Default mirrors the relied-upon defaults in spec.md §6, chosen the same
// way ethrpc.DefaultJSONRPCConfig fixes a BlockTime default.
var Default = Config{
	CacheMax: 1000,
	CacheTTL: 60 * time.Second,

	RedisReconnectDelay: 5 * time.Second,

	MirrorNodeTimeout:             10 * time.Second,
	MirrorNodeMaxRedirects:        5,
	MirrorNodeHTTPKeepAlive:       true,
	MirrorNodeHTTPKeepAliveMsecs:  1 * time.Second,
	MirrorNodeHTTPMaxSockets:      300,
	MirrorNodeHTTPMaxTotalSockets: 300,
	MirrorNodeHTTPSocketTimeout:   60 * time.Second,
	MirrorNodeRetries:             3,
	MirrorNodeRetryDelay:          500 * time.Millisecond,
	MirrorNodeRequestRetryCount:   10,
	MirrorNodeRetryCodes:          []int{408, 429, 500, 502, 503, 504},
	MirrorNodeLimitParam:          100,
	MirrorNodeContractResultsPgMax:     25,
	MirrorNodeContractResultsLogsPgMax: 25,
	EthCallAcceptedErrors:              []int{400, 404},

	SDKRequestTimeout:    10 * time.Second,
	ConsensusMaxExecTime: 15 * time.Second,
	FileAppendChunkSize:  4096,
	FileAppendMaxChunks:  20,
	MaxGasAllowanceHbar:  0,

	HbarRateLimitDuration: 80 * time.Second,

	WorkersPoolMinThreads: 4,
	WorkersPoolMaxThreads: 16,

	ChainID: 0x128, // 296 == Hedera testnet chain id, used in seed test scenario 1

	EnableTxPool:                 true,
	PendingTransactionStorageTTL: 10 * time.Minute,

	LogLevel: "info",
}

// WithDefaults returns a copy of c with every zero-valued field replaced by
// Default's corresponding field.
func WithDefaults(c Config) Config {
	d := Default
	if c.CacheMax != 0 {
		d.CacheMax = c.CacheMax
	}
	if c.CacheTTL != 0 {
		d.CacheTTL = c.CacheTTL
	}
	if c.RedisURL != "" {
		d.RedisURL = c.RedisURL
	}
	if c.RedisReconnectDelay != 0 {
		d.RedisReconnectDelay = c.RedisReconnectDelay
	}
	d.MultiSet = c.MultiSet || d.MultiSet
	d.Test = c.Test
	if c.MirrorNodeURL != "" {
		d.MirrorNodeURL = c.MirrorNodeURL
	}
	if c.MirrorNodeURLWeb3 != "" {
		d.MirrorNodeURLWeb3 = c.MirrorNodeURLWeb3
	}
	if c.MirrorNodeTimeout != 0 {
		d.MirrorNodeTimeout = c.MirrorNodeTimeout
	}
	if c.MirrorNodeRetries != 0 {
		d.MirrorNodeRetries = c.MirrorNodeRetries
	}
	if c.MirrorNodeRetryDelay != 0 {
		d.MirrorNodeRetryDelay = c.MirrorNodeRetryDelay
	}
	if c.MirrorNodeRequestRetryCount != 0 {
		d.MirrorNodeRequestRetryCount = c.MirrorNodeRequestRetryCount
	}
	if len(c.MirrorNodeRetryCodes) != 0 {
		d.MirrorNodeRetryCodes = c.MirrorNodeRetryCodes
	}
	if len(c.EthCallAcceptedErrors) != 0 {
		d.EthCallAcceptedErrors = c.EthCallAcceptedErrors
	}
	if c.FileAppendChunkSize != 0 {
		d.FileAppendChunkSize = c.FileAppendChunkSize
	}
	if c.FileAppendMaxChunks != 0 {
		d.FileAppendMaxChunks = c.FileAppendMaxChunks
	}
	d.JumboTxEnabled = c.JumboTxEnabled || d.JumboTxEnabled
	if c.MaxGasAllowanceHbar != 0 {
		d.MaxGasAllowanceHbar = c.MaxGasAllowanceHbar
	}
	if c.HbarRateLimitDuration != 0 {
		d.HbarRateLimitDuration = c.HbarRateLimitDuration
	}
	if c.WorkersPoolMinThreads != 0 {
		d.WorkersPoolMinThreads = c.WorkersPoolMinThreads
	}
	if c.WorkersPoolMaxThreads != 0 {
		d.WorkersPoolMaxThreads = c.WorkersPoolMaxThreads
	}
	d.ClientTransportSecurity = c.ClientTransportSecurity || d.ClientTransportSecurity
	if c.ChainID != 0 {
		d.ChainID = c.ChainID
	}
	d.ReadOnly = c.ReadOnly || d.ReadOnly
	if !c.EnableTxPool {
		// false cannot be told apart from unset here, so it keeps Default's
		// true: an unset Config never silently disables the pool.
	} else {
		d.EnableTxPool = true
	}
	if c.PendingTransactionStorageTTL != 0 {
		d.PendingTransactionStorageTTL = c.PendingTransactionStorageTTL
	}
	d.GetRecordDefaultToConsensusNode = c.GetRecordDefaultToConsensusNode || d.GetRecordDefaultToConsensusNode
	if c.LogLevel != "" {
		d.LogLevel = c.LogLevel
	}
	d.DebugMode = c.DebugMode || d.DebugMode
	return d
}
