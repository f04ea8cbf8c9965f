package mirrornode

// AcceptedErrors maps a path label template to the set of HTTP status codes
// that, for that endpoint, mean "empty result" rather than "error" (spec.md
// §3's MirrorRequest / §4.2's "Accepted errors"). The zero value accepts
// nothing; DefaultAcceptedErrors covers the common "not found" case, and
// callers extend it via
// config.Config.EthCallAcceptedErrors for eth_call specifically.
type AcceptedErrors map[string]map[int]struct{}

// DefaultAcceptedErrors seeds the table with the endpoints spec.md §3 calls
// out by name ("primarily {404}").
func DefaultAcceptedErrors() AcceptedErrors {
	notFoundOnly := []string{
		"accounts/{address}",
		"contracts/{address}",
		"contracts/{address}/results",
		"contracts/{address}/results/{hash}",
		"contracts/results/{hash}",
		"contracts/results/{hash}/actions",
		"tokens/{address}",
		"transactions/{hash}",
	}

	table := make(AcceptedErrors, len(notFoundOnly))
	for _, label := range notFoundOnly {
		table[label] = setOf(404)
	}
	return table
}

func setOf(codes ...int) map[int]struct{} {
	s := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Accepts reports whether status is an accepted/empty-result status for
// pathLabel. The contract-call endpoint is handled specially by the caller
// (spec.md §4.2: HTTP 400 there means "contract reverted", not an error).
func (a AcceptedErrors) Accepts(pathLabel string, status int) bool {
	set, ok := a[pathLabel]
	if !ok {
		return false
	}
	_, accepted := set[status]
	return accepted
}

// Extend merges extra accepted statuses for pathLabel, used to apply
// config.Config.EthCallAcceptedErrors onto "contracts/call".
func (a AcceptedErrors) Extend(pathLabel string, statuses []int) {
	set, ok := a[pathLabel]
	if !ok {
		set = make(map[int]struct{})
		a[pathLabel] = set
	}
	for _, s := range statuses {
		set[s] = struct{}{}
	}
}

const ContractCallPathLabel = "contracts/call"

// ContractRevertStatus is the HTTP status the contract-call endpoint uses to
// report a normal (non-error) contract revert (spec.md §4.2).
const ContractRevertStatus = 400
