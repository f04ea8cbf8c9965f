package rpcdispatch

import (
	"context"
	"strconv"
)

func registerNet(r *Registry, deps Deps) {
	r.Register("net", "version", handleNetVersion(deps), nil)
}

func handleNetVersion(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		return strconv.FormatUint(deps.Config.ChainID, 10), nil
	}
}
