package relay

import (
	"context"
	"testing"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/config"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/util"
)

// Integration tests against a real Hedera network read credentials from a
// local, gitignored relay-test.json, the same optional-config-file pattern
// ethgas_test.go uses (util.ReadTestConfig returns an empty map, not an
// error, when the file is absent -- so these tests skip cleanly in CI).
func TestMain_buildsAgainstRealNetwork(t *testing.T) {
	testConfig, err := util.ReadTestConfig("../relay-test.json")
	if err != nil {
		t.Fatal(err)
	}

	operatorID := testConfig["HEDERA_OPERATOR_ID"]
	operatorKey := testConfig["HEDERA_OPERATOR_KEY"]
	if operatorID == "" || operatorKey == "" {
		t.Skip("no relay-test.json with HEDERA_OPERATOR_ID/HEDERA_OPERATOR_KEY, skipping live network test")
	}

	cfg := config.WithDefaults(config.Config{
		MirrorNodeURL: testConfig["MIRROR_NODE_URL"],
	})
	op := OperatorConfig{
		Network:       testConfig["HEDERA_NETWORK"],
		OperatorID:    operatorID,
		PrivateKey:    operatorKey,
		DefaultPlanID: "default",
	}

	r, err := New(cfg, op, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close(context.Background())

	if r.Consensus == nil {
		t.Fatal("expected a live consensus client")
	}
}
