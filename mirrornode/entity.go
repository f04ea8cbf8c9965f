package mirrornode

import (
	"context"
	"fmt"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relaycache"
)

// EntityKind is one of the three mirror-node entity families an id can
// resolve to (spec.md §4.2's resolveEntityType).
type EntityKind string

const (
	EntityContract EntityKind = "contract"
	EntityAccount  EntityKind = "account"
	EntityToken    EntityKind = "token"
)

// ResolvedEntity is the {type, entity} pair resolveEntityType returns.
type ResolvedEntity struct {
	Kind   EntityKind      `json:"type"`
	Entity map[string]any `json:"entity"`
}

// ResolveEntityType caches a resolved entity id for the caller-supplied
// ttlMs; the spec only calls out a one-day TTL for "is valid contract", so
// other resolutions use whatever TTL the caller passes.
func (c *Client) ResolveEntityType(ctx context.Context, id string, typesToSearch []EntityKind, ttlMs int64) (ResolvedEntity, error) {
	key := "entity-type:" + id
	return relaycache.GetOrFetch(ctx, c.cache, key, ttlMs, func(ctx context.Context) (ResolvedEntity, error) {
		return c.resolveEntityTypeUncached(ctx, id, typesToSearch)
	})
}

func (c *Client) resolveEntityTypeUncached(ctx context.Context, id string, typesToSearch []EntityKind) (ResolvedEntity, error) {
	if wants(typesToSearch, EntityContract) {
		if entity, ok := c.tryFetchEntity(ctx, EntityContract, id); ok {
			return ResolvedEntity{Kind: EntityContract, Entity: entity}, nil
		}
	}

	type probeResult struct {
		kind   EntityKind
		entity map[string]any
		ok     bool
	}

	remaining := make([]EntityKind, 0, 2)
	if wants(typesToSearch, EntityAccount) {
		remaining = append(remaining, EntityAccount)
	}
	if wants(typesToSearch, EntityToken) {
		remaining = append(remaining, EntityToken)
	}

	resultCh := make(chan probeResult, len(remaining))
	for _, kind := range remaining {
		kind := kind
		go func() {
			entity, ok := c.tryFetchEntity(ctx, kind, id)
			resultCh <- probeResult{kind: kind, entity: entity, ok: ok}
		}()
	}

	for range remaining {
		r := <-resultCh
		if r.ok {
			return ResolvedEntity{Kind: r.kind, Entity: r.entity}, nil
		}
	}

	return ResolvedEntity{}, fmt.Errorf("mirrornode: no entity of types %v found for id %q", typesToSearch, id)
}

func (c *Client) tryFetchEntity(ctx context.Context, kind EntityKind, id string) (map[string]any, bool) {
	var path string
	switch kind {
	case EntityContract:
		path = "contracts/" + id
	case EntityAccount:
		path = "accounts/" + id
	case EntityToken:
		path = "tokens/" + id
	}

	res, err := c.do(ctx, Request{Method: MethodGET, Path: path, PathLabel: PathLabel(path)})
	if err != nil || res == nil || len(res.body) == 0 {
		return nil, false
	}

	entity, err := RawMap(res.body)
	if err != nil {
		return nil, false
	}
	return entity, true
}

func wants(types []EntityKind, kind EntityKind) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == kind {
			return true
		}
	}
	return false
}

// IsValidContract reports whether id resolves to a contract, cached for a
// full day per spec.md §4.2.
func (c *Client) IsValidContract(ctx context.Context, id string) (bool, error) {
	const oneDayMs = int64(24 * 60 * 60 * 1000)
	key := "is-valid-contract:" + id
	return relaycache.GetOrFetch(ctx, c.cache, key, oneDayMs, func(ctx context.Context) (bool, error) {
		_, ok := c.tryFetchEntity(ctx, EntityContract, id)
		return ok, nil
	})
}
