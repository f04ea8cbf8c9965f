package mirrornode

import "testing"

func TestPathLabel(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"accounts/0x0000000000000000000000000000000000000001", "accounts/{address}"},
		{"transactions/0x1234567890123456789012345678901234567890123456789012345678901234", "transactions/{hash}"},
		{"contracts/0.0.1234/results/1234567890.123456789", "contracts/{timestamp}/results/{timestamp}"},
		{"accounts/0.0.5?limit=10", "accounts/{timestamp}?limit=10"},
		{"network/supply", "network/supply"},
	}

	for _, tc := range cases {
		if got := PathLabel(tc.path); got != tc.want {
			t.Errorf("PathLabel(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestAcceptedErrorsDefaults(t *testing.T) {
	a := DefaultAcceptedErrors()
	if !a.Accepts("accounts/{address}", 404) {
		t.Error("expected accounts/{address} to accept 404")
	}
	if a.Accepts("accounts/{address}", 500) {
		t.Error("did not expect accounts/{address} to accept 500")
	}
	if a.Accepts("unknown/{address}", 404) {
		t.Error("did not expect an untabled path label to accept anything")
	}
}

func TestAcceptedErrorsExtend(t *testing.T) {
	a := DefaultAcceptedErrors()
	a.Extend(ContractCallPathLabel, []int{400, 404})
	if !a.Accepts(ContractCallPathLabel, 400) {
		t.Error("expected extended contracts/call to accept 400")
	}
}
