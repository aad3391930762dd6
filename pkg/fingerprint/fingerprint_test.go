package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestComputeDeterministic(t *testing.T) {
	attrs := Attributes{IP: "1.2.3.4", UserAgent: "UA1", AcceptLanguage: "en"}

	first := Compute(attrs)
	second := Compute(attrs)
	assert.Equal(t, first, second)

	sum := sha256.Sum256([]byte("1.2.3.4|UA1|en"))
	assert.Equal(t, hex.EncodeToString(sum[:]), first)
}

func TestComputeEmptyAttributes(t *testing.T) {
	digest := Compute(Attributes{})

	sum := sha256.Sum256([]byte("||"))
	assert.Equal(t, hex.EncodeToString(sum[:]), digest)
	assert.Len(t, digest, 64)
}

func TestComputeSingleAttributeChange(t *testing.T) {
	base := Attributes{IP: "1.2.3.4", UserAgent: "UA1", AcceptLanguage: "en"}
	baseline := Compute(base)

	variants := []Attributes{
		{IP: "4.3.2.1", UserAgent: "UA1", AcceptLanguage: "en"},
		{IP: "1.2.3.4", UserAgent: "UA2", AcceptLanguage: "en"},
		{IP: "1.2.3.4", UserAgent: "UA1", AcceptLanguage: "de"},
	}
	for _, variant := range variants {
		assert.NotEqual(t, baseline, Compute(variant))
	}

	// ForwardedFor is audit metadata, never part of the digest.
	withChain := base
	withChain.ForwardedFor = "1.2.3.4, 10.0.0.1"
	assert.Equal(t, baseline, Compute(withChain))
}

func TestExtractPrefersForwardedFor(t *testing.T) {
	ctx := requestCtx(t, map[string]string{
		"User-Agent":      "UA1",
		"Accept-Language": "en-US,en;q=0.9",
		"X-Forwarded-For": "1.2.3.4, 10.0.0.1",
	})

	attrs := Extract(ctx)
	assert.Equal(t, "1.2.3.4", attrs.IP)
	assert.Equal(t, "UA1", attrs.UserAgent)
	assert.Equal(t, "en-US,en;q=0.9", attrs.AcceptLanguage)
	assert.Equal(t, "1.2.3.4, 10.0.0.1", attrs.ForwardedFor)
}

func TestExtractFallsBackToRemoteAddr(t *testing.T) {
	ctx := requestCtx(t, map[string]string{"User-Agent": "UA1"})

	attrs := Extract(ctx)
	assert.Equal(t, "5.6.7.8", attrs.IP)
	assert.Empty(t, attrs.AcceptLanguage)
	assert.Empty(t, attrs.ForwardedFor)
}

func TestExtractMissingHeadersDegradeToEmpty(t *testing.T) {
	ctx := requestCtx(t, nil)

	attrs := Extract(ctx)
	assert.Empty(t, attrs.UserAgent)
	assert.Empty(t, attrs.AcceptLanguage)

	// Intermittently absent headers must not change the digest shape.
	assert.Equal(t, Compute(Attributes{IP: attrs.IP}), Compute(attrs))
}

func requestCtx(t *testing.T, headers map[string]string) *fasthttp.RequestCtx {
	t.Helper()

	var req fasthttp.Request
	req.SetRequestURI("http://example.com/protected")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	ctx := &fasthttp.RequestCtx{}
	remote := &net.TCPAddr{IP: net.IPv4(5, 6, 7, 8), Port: 51000}
	ctx.Init(&req, remote, nil)
	require.NotNil(t, ctx.RemoteIP())
	return ctx
}
