package relaycache

import (
	"encoding/binary"
	"fmt"

	"github.com/bytedance/sonic"
)

// Counter and list values are stored as opaque []byte like everything else
// in Cache, so both LocalCache and RemoteCache share these codecs. The same
// sonic config also backs GetValue/SetValue, which cache decoded mirror-node
// payloads (blocks, entities); UseNumber keeps their numbers as json.Number
// on a cache hit, so values wider than 2^53 are not rounded through float64
// and a cached block has the same shape as a freshly fetched one.
var sonicAPI = sonic.Config{UseNumber: true}.Froze()

func encodeInt64(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func decodeInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("relaycache: corrupt counter encoding (%d bytes)", len(b))
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func encodeList(list [][]byte) []byte {
	out, err := sonicAPI.Marshal(list)
	if err != nil {
		// list of []byte always marshals; this would only fail on OOM.
		return []byte("[]")
	}
	return out
}

func decodeList(b []byte) ([][]byte, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var list [][]byte
	if err := sonicAPI.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}
