package workerpool

import (
	"encoding/json"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

// envelope is the serialised shape an error takes while crossing the
// worker/parent goroutine boundary (spec.md §4.7). "name" identifies which
// concrete error type to reconstruct on the other side; unrecognised names
// unwrap to a generic INTERNAL_ERROR rather than failing to unwrap at all.
type envelope struct {
	Name       string          `json:"name"`
	Kind       string          `json:"kind,omitempty"`
	Code       int             `json:"code,omitempty"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
	StatusCode int             `json:"statusCode,omitempty"`
	Detail     string          `json:"detail,omitempty"`
}

const (
	envelopeJsonRpcError    = "JsonRpcError"
	envelopeMirrorNodeError = "MirrorNodeClientError"
	envelopeSDKClientError  = "SDKClientError"
)

// wireError is the boundary-crossing error type: its Error() text is the
// JSON-encoded envelope, exactly spec.md §4.7's
// `wrapError(err) returns Error(JSON.stringify(envelope))`.
type wireError struct {
	json string
}

func (e *wireError) Error() string { return e.json }

// WrapError serialises err into a wireError carrying its JSON envelope, so
// it survives being returned across the errgroup goroutine boundary and can
// be reconstructed with UnwrapError on the parent side.
func WrapError(err error) error {
	env := envelopeFor(err)
	buf, marshalErr := json.Marshal(env)
	if marshalErr != nil {
		// Marshaling a closed, known envelope shape never fails in practice;
		// fall back to a bare INTERNAL_ERROR envelope rather than lose the
		// error entirely.
		buf, _ = json.Marshal(envelope{Name: "INTERNAL_ERROR", Message: err.Error()})
	}
	return &wireError{json: string(buf)}
}

func envelopeFor(err error) envelope {
	switch e := err.(type) {
	case *relayerrors.JsonRpcError:
		data, _ := json.Marshal(e.Data)
		return envelope{Name: envelopeJsonRpcError, Kind: string(e.Kind), Code: e.Code, Message: e.Message, Data: data}
	case *relayerrors.MirrorNodeClientError:
		return envelope{Name: envelopeMirrorNodeError, StatusCode: e.StatusCode, Message: e.Message, Detail: e.Detail, Data: e.Data}
	case *relayerrors.SDKClientError:
		return envelope{Name: envelopeSDKClientError, Message: e.Error(), Detail: e.Status}
	default:
		return envelope{Name: "INTERNAL_ERROR", Message: err.Error()}
	}
}

// UnwrapError reconstructs the original error from a WrapError result.
// Unknown or unparsable envelopes map to a generic relayerrors.InternalError
// (spec.md §4.7: "Unknown names map to a generic INTERNAL_ERROR").
func UnwrapError(err error) error {
	if err == nil {
		return nil
	}

	var env envelope
	if jsonErr := json.Unmarshal([]byte(err.Error()), &env); jsonErr != nil {
		return relayerrors.InternalError(err)
	}

	switch env.Name {
	case envelopeJsonRpcError:
		var data any
		if len(env.Data) > 0 {
			_ = json.Unmarshal(env.Data, &data)
		}
		return relayerrors.NewJsonRpcError(relayerrors.Kind(env.Kind), env.Code, env.Message, data)
	case envelopeMirrorNodeError:
		mnErr := relayerrors.NewMirrorNodeClientError(env.StatusCode, env.Message, env.Detail)
		mnErr.Data = env.Data
		return mnErr
	case envelopeSDKClientError:
		return relayerrors.NewSDKClientError(env.Detail, errorString(env.Message))
	default:
		return relayerrors.InternalError(errorString(env.Message))
	}
}

// errorString adapts a plain message back into an error value for
// constructors that expect a cause.
type errorString string

func (e errorString) Error() string { return string(e) }
