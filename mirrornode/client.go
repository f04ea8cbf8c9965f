package mirrornode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/traceid"
	"github.com/go-chi/transport"
	"github.com/goware/breaker"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/config"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relaycache"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

// Client is the retrying HTTP client over the mirror node's REST surface and
// its Web3 JSON-RPC-compatible surface (spec.md §4.2). It mirrors
// ethrpc.Provider's construction -- one *http.Client, one breaker -- but
// dispatches over many REST path templates instead of a single JSON-RPC
// endpoint.
type Client struct {
	restURL  *url.URL
	web3URL  *url.URL
	http     *http.Client
	br       *breaker.Breaker
	accepted AcceptedErrors
	cache    relaycache.Cache
	log      *slog.Logger

	retryCodes map[int]struct{}
}

// NewClient builds a Client from cfg, chaining the teacher's transport.Chain
// middleware stack (traceid propagation, Accept and x-api-key headers) around the base
// *http.Transport the same way ethrpc.Provider's HTTP client is constructed.
func NewClient(cfg config.Config, cache relaycache.Cache, log *slog.Logger) (*Client, error) {
	restURL, err := url.Parse(cfg.MirrorNodeURL)
	if err != nil {
		return nil, fmt.Errorf("mirrornode: invalid MirrorNodeURL: %w", err)
	}

	web3URL := restURL
	if cfg.MirrorNodeURLWeb3 != "" {
		web3URL, err = url.Parse(cfg.MirrorNodeURLWeb3)
		if err != nil {
			return nil, fmt.Errorf("mirrornode: invalid MirrorNodeURLWeb3: %w", err)
		}
	}

	baseTransport := &http.Transport{
		MaxIdleConns:        cfg.MirrorNodeHTTPMaxTotalSockets,
		MaxIdleConnsPerHost: cfg.MirrorNodeHTTPMaxSockets,
		IdleConnTimeout:     cfg.MirrorNodeHTTPKeepAliveMsecs,
		DisableKeepAlives:   !cfg.MirrorNodeHTTPKeepAlive,
	}

	httpClient := &http.Client{
		Timeout: cfg.MirrorNodeTimeout,
		Transport: transport.Chain(
			baseTransport,
			traceid.Transport,
			transport.SetHeaderFunc("Accept", func(*http.Request) string { return "application/json" }),
			transport.SetHeaderFunc("x-api-key", func(*http.Request) string { return cfg.MirrorNodeURLHeaderXApiKey }),
		),
		CheckRedirect: maxRedirects(cfg.MirrorNodeMaxRedirects),
	}

	accepted := DefaultAcceptedErrors()
	accepted.Extend(ContractCallPathLabel, cfg.EthCallAcceptedErrors)

	retryCodes := make(map[int]struct{}, len(cfg.MirrorNodeRetryCodes))
	for _, c := range cfg.MirrorNodeRetryCodes {
		retryCodes[c] = struct{}{}
	}

	return &Client{
		restURL:    restURL,
		web3URL:    web3URL,
		http:       httpClient,
		br:         breaker.New(log, cfg.MirrorNodeRetryDelay, 2, cfg.MirrorNodeRetries),
		accepted:   accepted,
		cache:      cache,
		log:        log,
		retryCodes: retryCodes,
	}, nil
}

func maxRedirects(n int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= n {
			return fmt.Errorf("mirrornode: stopped after %d redirects", n)
		}
		return nil
	}
}

// result holds the raw body and status of one completed HTTP round trip,
// before any accepted-error or BigInt-safe decoding is applied.
type result struct {
	status int
	body   []byte
}

// forwardedHeader renders ip as an RFC 7239 Forwarded "for" directive,
// bracketing IPv6 literals as RFC 7239 §4 requires (a bare IPv6 address
// contains ":", which isn't a valid node-identifier token without the
// brackets-plus-quoting form).
func forwardedHeader(ip string) string {
	if parsed := net.ParseIP(ip); parsed != nil && parsed.To4() == nil {
		return fmt.Sprintf(`for="[%s]"`, ip)
	}
	return "for=" + ip
}

// do executes req against the mirror node, retrying transport-level and
// configured-status failures through the breaker (spec.md §4.2's retry
// policy), and returns the raw result on a final success, an accepted empty
// result, or a *relayerrors.MirrorNodeClientError on exhaustion.
func (c *Client) do(ctx context.Context, req Request) (*result, error) {
	base := c.restURL
	if req.UseWeb3 {
		base = c.web3URL
	}

	endpoint := base.ResolveReference(&url.URL{Path: joinPath(base.Path, req.Path)})

	var res *result
	err := c.br.Do(ctx, func() error {
		res = nil
		var bodyReader io.Reader
		if len(req.Body) > 0 {
			bodyReader = bytes.NewReader(req.Body)
		}

		httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), endpoint.String(), bodyReader)
		if err != nil {
			return fmt.Errorf("mirrornode: failed to build request: %w", err)
		}
		if req.ForwardedForIP != "" {
			httpReq.Header.Set("Forwarded", forwardedHeader(req.ForwardedForIP))
		}
		if len(req.Body) > 0 {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return relayerrors.Wrap(relayerrors.KindTransportErrorNoStatus, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("mirrornode: failed to read response body: %w", err)
		}

		if _, retryable := c.retryCodes[resp.StatusCode]; retryable {
			res = &result{status: resp.StatusCode, body: body}
			return fmt.Errorf("mirrornode: retryable status %d on %s", resp.StatusCode, req.PathLabel)
		}

		res = &result{status: resp.StatusCode, body: body}
		return nil
	})

	if err != nil {
		return nil, relayerrors.NewMirrorNodeClientError(statusOf(res), "mirror node request failed", err.Error())
	}

	if res.status >= 200 && res.status < 300 {
		return res, nil
	}

	if req.PathLabel == ContractCallPathLabel && res.status == ContractRevertStatus {
		return res, nil
	}

	if c.accepted.Accepts(req.PathLabel, res.status) {
		return &result{status: res.status, body: nil}, nil
	}

	return nil, relayerrors.NewMirrorNodeClientError(res.status, "mirror node returned an error status", string(res.body))
}

func statusOf(r *result) int {
	if r == nil {
		return relayerrors.UnknownServerErrorStatus
	}
	return r.status
}

func joinPath(base, p string) string {
	if base == "" || base == "/" {
		return "/" + trimLeadingSlash(p)
	}
	return trimTrailingSlash(base) + "/" + trimLeadingSlash(p)
}

func trimLeadingSlash(s string) string {
	for len(s) > 0 && s[0] == '/' {
		s = s[1:]
	}
	return s
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
