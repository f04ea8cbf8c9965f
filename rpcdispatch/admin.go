package rpcdispatch

import "context"

func registerAdmin(r *Registry, deps Deps) {
	r.Register("admin", "config", handleAdminConfig(deps), nil)
}

// adminConfigView is a read-only projection of config.Config safe to expose
// over RPC -- no secrets (API keys, Redis URL credentials) are included.
type adminConfigView struct {
	ChainID        string `json:"chainId"`
	ReadOnly       bool   `json:"readOnly"`
	EnableTxPool   bool   `json:"enableTxPool"`
	JumboTxEnabled bool   `json:"jumboTxEnabled"`
	LogLevel       string `json:"logLevel"`
}

func handleAdminConfig(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		return adminConfigView{
			ChainID:        hexUint64(deps.Config.ChainID),
			ReadOnly:       deps.Config.ReadOnly,
			EnableTxPool:   deps.Config.EnableTxPool,
			JumboTxEnabled: deps.Config.JumboTxEnabled,
			LogLevel:       deps.Config.LogLevel,
		}, nil
	}
}
