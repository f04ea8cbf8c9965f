package util

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadTestConfig loads a flat string map from testConfigFile (e.g. this
// module's relay-test.json), used by relay/relay_integration_test.go to
// pick up real Hedera operator credentials for a live-network smoke test.
// A missing file is not an error: it returns an empty map so the calling
// test can skip instead of failing when no such file is checked out.
func ReadTestConfig(testConfigFile string) (map[string]string, error) {
	config := map[string]string{}

	_, err := os.Stat(testConfigFile)
	if err != nil {
		return config, nil
	}

	data, err := os.ReadFile(testConfigFile)
	if err != nil {
		return nil, fmt.Errorf("%s file could not be read", testConfigFile)
	}

	err = json.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("%s file json parsing error", testConfigFile)
	}

	return config, nil
}
