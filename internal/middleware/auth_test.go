package middleware

import (
	"net"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const testSecret = "service-secret"

func internalRequest(t *testing.T, authorization string) *fasthttp.RequestCtx {
	t.Helper()

	var req fasthttp.Request
	req.SetRequestURI("http://gateway.local/internal/v1/sessions")
	req.Header.SetMethod(fasthttp.MethodPost)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}, nil)
	return ctx
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "auth-service",
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestServiceTokenAcceptsValidToken(t *testing.T) {
	guard := ServiceToken(testSecret, zap.NewNop())

	called := false
	ctx := internalRequest(t, "Bearer "+signedToken(t, testSecret))
	guard(func(ctx *fasthttp.RequestCtx) {
		called = true
		ctx.SetStatusCode(fasthttp.StatusCreated)
	})(ctx)

	assert.True(t, called)
	assert.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())
}

func TestServiceTokenRejectsMissingToken(t *testing.T) {
	guard := ServiceToken(testSecret, zap.NewNop())

	called := false
	ctx := internalRequest(t, "")
	guard(func(ctx *fasthttp.RequestCtx) { called = true })(ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestServiceTokenRejectsWrongSecret(t *testing.T) {
	guard := ServiceToken(testSecret, zap.NewNop())

	called := false
	ctx := internalRequest(t, "Bearer "+signedToken(t, "other-secret"))
	guard(func(ctx *fasthttp.RequestCtx) { called = true })(ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}
