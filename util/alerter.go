package util

import "context"

// Alerter receives buffer-overrun and other soft-failure warnings from the
// relay's event bus (relay.Bus) and its per-subscriber channels. A real
// implementation might page an on-call rotation; NoopAlerter is the
// default when no such integration is configured.
type Alerter interface {
	Alert(ctx context.Context, format string, v ...interface{})
}

// NoopAlerter discards every alert. Used by relay.NewBus when the caller
// passes a nil Alerter.
func NoopAlerter() Alerter {
	return noopAlerter{}
}

type noopAlerter struct{}

func (noopAlerter) Alert(ctx context.Context, format string, v ...interface{}) {}
