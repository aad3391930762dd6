package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/authflow/session-gateway/api/transport"
	"github.com/authflow/session-gateway/domain"
)

// ProxyHandler forwards verified requests to the protected backend and
// passes the response through unchanged. The session guard has already
// attached the user id header by the time Forward runs.
type ProxyHandler struct {
	client  *fasthttp.HostClient
	host    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewProxyHandler builds a forwarding handler for the backend upstream URL.
func NewProxyHandler(upstream string, timeout time.Duration, logger *zap.Logger) (*ProxyHandler, error) {
	parsed, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("backend url %q has no host", upstream)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ProxyHandler{
		client: &fasthttp.HostClient{
			Addr:  parsed.Host,
			IsTLS: parsed.Scheme == "https",
		},
		host:    parsed.Host,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Forward relays the request to the backend.
func (h *ProxyHandler) Forward(ctx *fasthttp.RequestCtx) {
	req := &ctx.Request
	resp := &ctx.Response

	req.SetHost(h.host)
	// Hop-by-hop state must not leak upstream.
	req.Header.Del(fasthttp.HeaderConnection)

	if err := h.client.DoTimeout(req, resp, h.timeout); err != nil {
		h.logger.Error("backend forward failed",
			zap.String("path", string(ctx.Path())),
			zap.Error(err))
		resp.Reset()
		ctx.Response.Header.SetContentType("application/json")
		ctx.SetStatusCode(http.StatusBadGateway)
		ctx.SetBodyString(transport.NewError(string(domain.ErrCodeInternal), "backend unreachable", nil).String())
		return
	}
	resp.Header.Del(fasthttp.HeaderConnection)
}
