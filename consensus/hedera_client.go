package consensus

import (
	"context"
	"fmt"
	"time"

	"github.com/hashgraph/hedera-sdk-go/v2"
)

// HederaSDKClient adapts a *hedera.Client to the SDKClient interface. This
// is the one file in this package that touches the Hedera SDK's actual
// surface -- every other file in this package, and everything in relay/
// that calls into consensus, depends only on the SDKClient interface.
type HederaSDKClient struct {
	client      *hedera.Client
	operatorID  hedera.AccountID
	execTimeout time.Duration
}

var _ SDKClient = (*HederaSDKClient)(nil)

// NewHederaSDKClient wraps client, already configured with its operator
// account and network, for use as a consensus.SDKClient.
func NewHederaSDKClient(client *hedera.Client, operatorID hedera.AccountID, execTimeout time.Duration) *HederaSDKClient {
	return &HederaSDKClient{client: client, operatorID: operatorID, execTimeout: execTimeout}
}

func (h *HederaSDKClient) OperatorID() string {
	return h.operatorID.String()
}

func (h *HederaSDKClient) UploadFile(ctx context.Context, ops []FileOp) (string, error) {
	if len(ops) == 0 {
		return "", fmt.Errorf("consensus: UploadFile called with no chunks")
	}

	create, err := hedera.NewFileCreateTransaction().
		SetKeys(h.client.GetOperatorPublicKey()).
		SetContents(ops[0].Chunk).
		FreezeWith(h.client)
	if err != nil {
		return "", err
	}

	resp, err := create.Execute(h.client)
	if err != nil {
		return "", err
	}

	receipt, err := resp.GetReceipt(h.client)
	if err != nil {
		return "", err
	}
	fileID := *receipt.FileID

	for _, op := range ops[1:] {
		appendTx, err := hedera.NewFileAppendTransaction().
			SetFileID(fileID).
			SetContents(op.Chunk).
			FreezeWith(h.client)
		if err != nil {
			return "", err
		}
		if _, err := appendTx.Execute(h.client); err != nil {
			return "", err
		}
	}

	return fileID.String(), nil
}

func (h *HederaSDKClient) Execute(ctx context.Context, submission Submission) (*Submitted, error) {
	tx := hedera.NewEthereumTransaction().
		SetEthereumData(submission.InlineData)

	if submission.CallDataFileID != "" {
		fileID, err := hedera.FileIDFromString(submission.CallDataFileID)
		if err != nil {
			return nil, err
		}
		tx = tx.SetCallDataFileID(fileID)
	}

	if submission.MaxTransactionFee != nil {
		tx = tx.SetMaxTransactionFee(hedera.HbarFromTinybar(submission.MaxTransactionFee.Int64()))
	}

	if submission.MaxGasAllowanceHbar > 0 {
		tx = tx.SetMaxGasAllowanceHbar(hedera.HbarFrom(float64(submission.MaxGasAllowanceHbar), hedera.HbarUnits.Hbar))
	}

	frozen, err := tx.FreezeWith(h.client)
	if err != nil {
		return nil, err
	}

	resp, err := frozen.Execute(h.client)
	if err != nil {
		return nil, err
	}

	receipt, err := resp.GetReceipt(h.client)
	status := ""
	if receipt.Status != 0 {
		status = receipt.Status.String()
	}
	if err != nil {
		return &Submitted{TransactionID: resp.TransactionID.String(), Status: status}, &hederaStatusError{status: statusFromErr(err), cause: err}
	}

	return &Submitted{TransactionID: resp.TransactionID.String(), Status: status}, nil
}

// hederaStatusError carries the SDK's response-code status alongside the
// underlying error so consensus.statusOf can surface it without depending
// on the hedera package directly.
type hederaStatusError struct {
	status string
	cause  error
}

func (e *hederaStatusError) Error() string { return e.cause.Error() }
func (e *hederaStatusError) Unwrap() error { return e.cause }
func (e *hederaStatusError) Status() string { return e.status }

func statusFromErr(err error) string {
	if precheckErr, ok := err.(hedera.ErrHederaPreCheckStatus); ok {
		return precheckErr.Status.String()
	}
	if receiptErr, ok := err.(hedera.ErrHederaReceiptStatus); ok {
		return receiptErr.Status.String()
	}
	return "UNKNOWN"
}
