// Package relayerrors holds the error taxonomy shared by every component
// (spec.md §7): sentinel "kind" errors that identify where an error
// originated, wrapped with goware/superr so errors.Is/errors.As still find
// the sentinel after the error has crossed a package or worker boundary,
// exactly as ethrpc.Provider.Do wraps ErrRequestFail.
package relayerrors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goware/superr"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/jsonrpc"
)

// Kind identifies the taxonomy entry an error belongs to (spec.md §7 table).
type Kind string

const (
	KindUnsupportedMethod          Kind = "UNSUPPORTED_METHOD"
	KindInvalidParams              Kind = "INVALID_PARAMS"
	KindInternalError              Kind = "INTERNAL_ERROR"
	KindPaginationMax              Kind = "PAGINATION_MAX"
	KindDependentServiceImmature   Kind = "DEPENDENT_SERVICE_IMMATURE_RECORDS"
	KindHbarRateLimitExceeded      Kind = "HBAR_RATE_LIMIT_EXCEEDED"
	KindLockWaitTimeout            Kind = "LOCK_WAIT_TIMEOUT"
	KindMirrorNodeAcceptedAbsent   Kind = "MIRROR_NODE_ACCEPTED_ABSENT"
	KindRedisUnavailable           Kind = "REDIS_UNAVAILABLE"
	KindSDKWrongNonce              Kind = "SDK_WRONG_NONCE"
	KindTransportErrorNoStatus     Kind = "TRANSPORT_ERROR_NO_STATUS"
	KindInsufficientAccountBalance Kind = "INSUFFICIENT_ACCOUNT_BALANCE"
)

// UnknownServerErrorStatus is the synthetic HTTP status used when a mirror
// transport error carries no HTTP status of its own (spec.md §4.2).
const UnknownServerErrorStatus = 567

// JsonRpcError is returned as-is by the dispatcher (spec.md §4.8).
type JsonRpcError struct {
	Kind    Kind
	Code    int
	Message string
	Data    any
}

func (e *JsonRpcError) Error() string {
	return fmt.Sprintf("jsonrpc error [%s] %d: %s", e.Kind, e.Code, e.Message)
}

// ToResponseError converts a JsonRpcError into the wire jsonrpc.Error type.
func (e *JsonRpcError) ToResponseError() *jsonrpc.Error {
	return jsonrpc.NewErrorWithData(e.Code, e.Message, e.Data)
}

func NewJsonRpcError(kind Kind, code int, message string, data any) *JsonRpcError {
	return &JsonRpcError{Kind: kind, Code: code, Message: message, Data: data}
}

func UnsupportedMethod(method string) *JsonRpcError {
	return NewJsonRpcError(KindUnsupportedMethod, jsonrpc.CodeMethodNotFound, "unsupported method", method)
}

func InvalidParams(detail string) *JsonRpcError {
	return NewJsonRpcError(KindInvalidParams, jsonrpc.CodeInvalidParams, "invalid params: "+detail, nil)
}

func InternalError(cause error) *JsonRpcError {
	data := ""
	if cause != nil {
		data = cause.Error()
	}
	return NewJsonRpcError(KindInternalError, jsonrpc.CodeInternalError, "internal error", data)
}

func PaginationMax(pageMax int) *JsonRpcError {
	return NewJsonRpcError(KindPaginationMax, jsonrpc.CodePaginationMax,
		fmt.Sprintf("pagination limit of %d pages reached", pageMax), pageMax)
}

func DependentServiceImmatureRecords(retries int) *JsonRpcError {
	return NewJsonRpcError(KindDependentServiceImmature, jsonrpc.CodeDependentServiceImmature,
		fmt.Sprintf("dependent service returned immature records after %d retries", retries), nil)
}

func HbarRateLimitExceeded(planID string) *JsonRpcError {
	return NewJsonRpcError(KindHbarRateLimitExceeded, jsonrpc.CodeHbarRateLimitExceeded,
		"hbar rate limit exceeded", planID)
}

func LockWaitTimeout(sender string) *JsonRpcError {
	return NewJsonRpcError(KindLockWaitTimeout, jsonrpc.CodeLockWaitTimeout,
		"timed out waiting for sender lock", sender)
}

func InsufficientAccountBalance(detail string) *JsonRpcError {
	return NewJsonRpcError(KindInsufficientAccountBalance, jsonrpc.CodeInsufficientAccountBalance,
		"insufficient account balance", detail)
}

// MirrorNodeClientError is the typed error surfaced by the mirror-node
// client on final retry failure (spec.md §4.2).
type MirrorNodeClientError struct {
	StatusCode int
	Message    string
	Detail     string
	Data       json.RawMessage
}

func (e *MirrorNodeClientError) Error() string {
	return fmt.Sprintf("mirror node client error (status %d): %s", e.StatusCode, e.Message)
}

func NewMirrorNodeClientError(statusCode int, message, detail string) *MirrorNodeClientError {
	return &MirrorNodeClientError{StatusCode: statusCode, Message: message, Detail: detail}
}

// SDKClientError normalises any error returned by the consensus-node SDK
// (spec.md §4.6).
type SDKClientError struct {
	Status string
	Cause  error
}

func (e *SDKClientError) Error() string {
	return fmt.Sprintf("sdk client error [%s]: %v", e.Status, e.Cause)
}

func (e *SDKClientError) Unwrap() error { return e.Cause }

func NewSDKClientError(status string, cause error) *SDKClientError {
	return &SDKClientError{Status: status, Cause: cause}
}

func IsWrongNonce(err error) bool {
	var sdkErr *SDKClientError
	if errors.As(err, &sdkErr) {
		return sdkErr.Status == "WRONG_NONCE" || sdkErr.Status == "INVALID_ACCOUNT_ID"
	}
	return false
}

// Wrap attaches a Kind sentinel to cause so errors.Is(wrapped, sentinelFor(kind))
// still succeeds after the error crosses a package boundary, mirroring
// ethrpc.Provider.Do's superr.Wrap(ErrRequestFail, ...) idiom.
func Wrap(kind Kind, cause error) error {
	return superr.Wrap(sentinelFor(kind), cause)
}

var sentinels = map[Kind]error{
	KindUnsupportedMethod:        errors.New(string(KindUnsupportedMethod)),
	KindInvalidParams:            errors.New(string(KindInvalidParams)),
	KindInternalError:            errors.New(string(KindInternalError)),
	KindPaginationMax:            errors.New(string(KindPaginationMax)),
	KindDependentServiceImmature: errors.New(string(KindDependentServiceImmature)),
	KindHbarRateLimitExceeded:    errors.New(string(KindHbarRateLimitExceeded)),
	KindLockWaitTimeout:          errors.New(string(KindLockWaitTimeout)),
	KindMirrorNodeAcceptedAbsent: errors.New(string(KindMirrorNodeAcceptedAbsent)),
	KindRedisUnavailable:         errors.New(string(KindRedisUnavailable)),
	KindSDKWrongNonce:            errors.New(string(KindSDKWrongNonce)),
	KindTransportErrorNoStatus:   errors.New(string(KindTransportErrorNoStatus)),
	KindInsufficientAccountBalance: errors.New(string(KindInsufficientAccountBalance)),
}

// sentinelFor returns the package-level sentinel for kind, pre-populated at
// init so concurrent callers never race on map writes.
func sentinelFor(kind Kind) error {
	return sentinels[kind]
}

// Is reports whether err (or any error it wraps) belongs to kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, sentinelFor(kind))
}
