package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/valyala/fasthttp"
)

// Attributes are the device/network properties a fingerprint is derived from.
// Missing headers degrade to empty strings so that the digest input keeps a
// fixed shape across requests where a header is intermittently present.
type Attributes struct {
	IP             string
	UserAgent      string
	AcceptLanguage string
	ForwardedFor   string // full chain, never part of the digest
}

// Compute derives the device digest as hex(SHA-256(ip|ua|lang)).
// It is a pure function: identical attribute strings always yield the same
// digest. No normalization is applied; extraction must stay deterministic.
func Compute(attrs Attributes) string {
	raw := attrs.IP + "|" + attrs.UserAgent + "|" + attrs.AcceptLanguage
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Extract pulls fingerprint attributes from the live request. The client IP
// is the first X-Forwarded-For hop when present, otherwise the remote
// address of the connection.
func Extract(ctx *fasthttp.RequestCtx) Attributes {
	attrs := Attributes{
		UserAgent:      string(ctx.Request.Header.UserAgent()),
		AcceptLanguage: string(ctx.Request.Header.Peek(fasthttp.HeaderAcceptLanguage)),
		ForwardedFor:   string(ctx.Request.Header.Peek(fasthttp.HeaderXForwardedFor)),
	}

	if attrs.ForwardedFor != "" {
		attrs.IP = firstHop(attrs.ForwardedFor)
	}
	if attrs.IP == "" {
		if addr := ctx.RemoteIP(); addr != nil {
			attrs.IP = addr.String()
		}
	}
	return attrs
}

func firstHop(forwarded string) string {
	if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
		forwarded = forwarded[:idx]
	}
	return strings.TrimSpace(forwarded)
}
