package consensus

import (
	"context"
	"math/big"
)

// Submission is the fully-prepared transaction the SDKClient executes:
// either InlineData or CallDataFileID is set, never both (spec.md §4.6
// steps 2-3).
type Submission struct {
	To                  *[20]byte
	Data                []byte
	InlineData          []byte
	CallDataFileID      string
	MaxTransactionFee   *big.Int
	MaxGasAllowanceHbar int64
}

// Submitted is the consensus node's immediate response to an Execute call.
type Submitted struct {
	TransactionID string
	Status        string
}

// SDKClient abstracts the Hedera consensus-node SDK the same way
// ethrpc.Interface abstracts a JSON-RPC node: the relay depends only on this
// interface, isolating the third-party SDK's exact surface to one adapter
// (hedera_client.go).
type SDKClient interface {
	// UploadFile creates the auxiliary file object from ops[0] (a "create"
	// op) and appends the rest via "append-all" ops, returning the new
	// file's id.
	UploadFile(ctx context.Context, ops []FileOp) (string, error)

	// Execute submits submission as an EthereumTransaction (or, for
	// subsidised recipients, one with a gas allowance attached) and returns
	// the node's immediate response.
	Execute(ctx context.Context, submission Submission) (*Submitted, error)

	// OperatorID reports the account id the relay submits transactions as,
	// carried into the EXECUTE_TRANSACTION event.
	OperatorID() string
}
