package mirrornode

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode unmarshals a mirror-node response body into v using stdlib
// encoding/json with UseNumber enabled, so integers wider than 2^53 (gas
// values, tinybar balances, HBAR supply) survive the round trip as
// json.Number instead of being rounded through float64 (spec.md §3/§4.2's
// BigInt-safety requirement). This is deliberately NOT bytedance/sonic,
// which decodes numbers into float64 internally -- every other package in
// this relay may use sonic for opaque or internal values, but anything that
// crosses the mirror-node wire boundary goes through this decoder instead.
func Decode(body []byte, v any) error {
	if len(body) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("mirrornode: failed to decode response: %w", err)
	}
	return nil
}

// Number is a json.Number alias used in mirror-node response structs for any
// field that may exceed 2^53 (e.g. "amount", "gas_used", "balance").
type Number = json.Number

// RawMap decodes body into a generic map for callers that only need to
// inspect a handful of top-level fields (e.g. error-message extraction),
// still BigInt-safe for any nested numeric field they subsequently read.
func RawMap(body []byte) (map[string]any, error) {
	var m map[string]any
	if err := Decode(body, &m); err != nil {
		return nil, err
	}
	return m, nil
}
