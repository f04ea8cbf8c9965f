// Package requestctx defines RequestContext (spec.md §3), the immutable
// value threaded through every call so every suspension point (cache,
// mirror HTTP, worker dispatch, lock acquisition, SDK submission) can
// correlate logs and metrics back to the originating request.
package requestctx

import (
	"context"

	"github.com/go-chi/traceid"
	"github.com/google/uuid"
)

// RequestContext is created once at the edge and never mutated afterwards.
type RequestContext struct {
	RequestID    string
	ClientIP     string
	ConnectionID string
}

// New creates a RequestContext with a freshly generated request id (via
// google/uuid); callers cannot supply an id of their own.
func New(clientIP, connectionID string) RequestContext {
	return RequestContext{
		RequestID:    uuid.NewString(),
		ClientIP:     clientIP,
		ConnectionID: connectionID,
	}
}

type ctxKey struct{}

// WithContext attaches rc to ctx so deep call chains that only take a
// context.Context can still recover correlation fields via FromContext. It
// also seeds ctx with rc.RequestID under go-chi/traceid's own key, so
// mirrornode.Client's traceid.Transport round tripper carries the very same
// id onto the outbound mirror-node request rather than minting a fresh one.
func WithContext(ctx context.Context, rc RequestContext) context.Context {
	ctx = traceid.NewContext(ctx, rc.RequestID)
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext recovers a RequestContext previously attached with WithContext.
func FromContext(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(ctxKey{}).(RequestContext)
	return rc, ok
}

// LogAttrs returns fields suitable for slog.Logger.With(rc.LogAttrs()...).
func (rc RequestContext) LogAttrs() []any {
	attrs := []any{"requestId", rc.RequestID, "clientIp", rc.ClientIP}
	if rc.ConnectionID != "" {
		attrs = append(attrs, "connectionId", rc.ConnectionID)
	}
	return attrs
}
