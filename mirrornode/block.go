package mirrornode

import (
	"context"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relaycache"
)

// GetBlock fetches a block by number or hash ("latest", "0x12", or a 0x-hash
// all resolve through this single path), cached under the relay's default
// TTL (spec.md §4.2's caching list).
func (c *Client) GetBlock(ctx context.Context, idOrTag string, defaultTTLMs int64) (map[string]any, error) {
	path := "blocks/" + idOrTag
	key := "block:" + idOrTag

	return relaycache.GetOrFetch(ctx, c.cache, key, defaultTTLMs, func(ctx context.Context) (map[string]any, error) {
		res, err := c.do(ctx, Request{Method: MethodGET, Path: path, PathLabel: PathLabel(path)})
		if err != nil {
			return nil, err
		}
		if res == nil || len(res.body) == 0 {
			return nil, nil
		}
		return RawMap(res.body)
	})
}

// GetEarliestBlock returns block 0, the relay's reference point for
// "earliest"-tagged requests, cached under the default TTL.
func (c *Client) GetEarliestBlock(ctx context.Context, defaultTTLMs int64) (map[string]any, error) {
	return c.GetBlock(ctx, "0", defaultTTLMs)
}

// Get issues a plain GET against path, used by callers (the dispatcher's eth
// namespace handlers) that don't need pagination, maturity polling, or
// entity resolution -- just the raw, BigInt-safe decoded response.
func (c *Client) Get(ctx context.Context, path string, forwardedForIP string) (map[string]any, error) {
	res, err := c.do(ctx, Request{
		Method:         MethodGET,
		Path:           path,
		PathLabel:      PathLabel(path),
		ForwardedForIP: forwardedForIP,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.body) == 0 {
		return nil, nil
	}
	return RawMap(res.body)
}

// GetWeb3 issues a plain GET against the mirror node's Web3 JSON-RPC-
// compatible surface rather than its REST surface (spec.md §4.2's dual
// endpoint set), used by debug_traceTransaction and similar methods that the
// mirror node only serves from the Web3-compatible port.
func (c *Client) GetWeb3(ctx context.Context, path string, forwardedForIP string) (map[string]any, error) {
	res, err := c.do(ctx, Request{
		Method:         MethodGET,
		Path:           path,
		PathLabel:      PathLabel(path),
		ForwardedForIP: forwardedForIP,
		UseWeb3:        true,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.body) == 0 {
		return nil, nil
	}
	return RawMap(res.body)
}

// Post issues a POST with body against path (used for contracts/call),
// returning the raw BigInt-safe decoded response.
func (c *Client) Post(ctx context.Context, path string, body []byte, forwardedForIP string) (map[string]any, int, error) {
	res, err := c.do(ctx, Request{
		Method:         MethodPOST,
		Path:           path,
		PathLabel:      PathLabel(path),
		Body:           body,
		ForwardedForIP: forwardedForIP,
	})
	if err != nil {
		return nil, 0, err
	}
	if res == nil || len(res.body) == 0 {
		return nil, statusOf(res), nil
	}

	m, err := RawMap(res.body)
	return m, res.status, err
}
