// Package mirrornode implements the retrying HTTP client over the Hedera
// mirror node's REST and Web3 surfaces (spec.md §4.2, component C2). It
// follows ethrpc.Provider.Do's shape -- a single *http.Client, a
// goware/breaker retry loop, and a typed error on exhaustion -- generalized
// from a single JSON-RPC-over-POST endpoint into many REST path templates.
package mirrornode

import (
	"encoding/json"
	"strings"
)

// HTTPMethod is the verb a Request is issued with.
type HTTPMethod string

const (
	MethodGET  HTTPMethod = "GET"
	MethodPOST HTTPMethod = "POST"
)

// Request describes one call to the mirror node (spec.md §3's
// MirrorRequest). PathLabel is a template with placeholders removed (e.g.
// "accounts/{address}") used both as a metrics label and as the key into
// the accepted-error table.
type Request struct {
	Method         HTTPMethod
	Path           string
	PathLabel      string
	Body           json.RawMessage
	Retries        int // not read by Client; every request uses the client's configured retries
	ForwardedForIP string
	UseWeb3        bool
}

// PathLabel strips addresses, hashes and timestamp/id segments from path so
// the remaining template can serve as a stable metric/cache/accepted-error
// table key, e.g. "accounts/0xabc.../allowances" ->
// "accounts/{address}/allowances".
func PathLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		base, query, hasQuery := seg, "", false
		if idx := strings.IndexByte(seg, '?'); idx >= 0 {
			base, query, hasQuery = seg[:idx], seg[idx:], true
		}
		switch {
		case isHexLiteral(base, 42):
			base = "{address}"
		case isHexLiteral(base, 66):
			base = "{hash}"
		case isTimestampOrID(base):
			base = "{timestamp}"
		}
		if hasQuery {
			segments[i] = base + query
		} else {
			segments[i] = base
		}
	}
	return strings.Join(segments, "/")
}

func isHexLiteral(s string, length int) bool {
	if len(s) != length || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, r := range s[2:] {
		if !isHexDigit(r) {
			return false
		}
	}
	return true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isTimestampOrID reports whether s looks like a Hedera consensus timestamp
// ("1234567890.123456789"), a shard.realm.num entity id ("0.0.1234"), an
// entity num, or a plain decimal id -- any of which should be templated out
// of the path label.
func isTimestampOrID(s string) bool {
	if s == "" {
		return false
	}
	dots := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
		case r == '-':
			// allowed anywhere, used by timestamp ranges like gt:123-456
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return dots <= 2
}
