package mirrornode

import (
	"context"
	"encoding/json"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

// links mirrors the "links" envelope every paginated mirror-node list
// response carries (spec.md §3's PaginationCursor).
type links struct {
	Next *string `json:"next"`
}

// page is the generic shape of one paginated response page: a named
// property holding the items, plus the pagination envelope.
type page struct {
	Items json.RawMessage `json:"-"`
	Links links           `json:"links"`
}

// GetPaginatedResults follows result.links.next starting from req, decoding
// each page's `property` array into accumulated raw item messages, and
// stops when links.next is absent or pageMax pages have been fetched
// (spec.md §3's getPaginatedResults). Reaching pageMax raises
// relayerrors.PaginationMax instead of silently truncating.
func (c *Client) GetPaginatedResults(ctx context.Context, req Request, property string, pageMax int) ([]json.RawMessage, error) {
	items := []json.RawMessage{}
	next := req

	for i := 0; i < pageMax; i++ {
		res, err := c.do(ctx, next)
		if err != nil {
			return nil, err
		}
		if len(res.body) == 0 {
			return items, nil
		}

		var raw map[string]json.RawMessage
		if err := Decode(res.body, &raw); err != nil {
			return nil, err
		}

		if propItems, ok := raw[property]; ok {
			var batch []json.RawMessage
			if err := Decode(propItems, &batch); err != nil {
				return nil, err
			}
			items = append(items, batch...)
		}

		var l links
		if linksRaw, ok := raw["links"]; ok {
			if err := Decode(linksRaw, &l); err != nil {
				return nil, err
			}
		}

		if l.Next == nil || *l.Next == "" {
			return items, nil
		}

		next = Request{
			Method:         req.Method,
			Path:           *l.Next,
			PathLabel:      req.PathLabel,
			ForwardedForIP: req.ForwardedForIP,
			UseWeb3:        req.UseWeb3,
		}
	}

	return nil, relayerrors.PaginationMax(pageMax)
}
