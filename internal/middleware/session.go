package middleware

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/authflow/session-gateway/pkg/fingerprint"
	"github.com/authflow/session-gateway/pkg/httpcontext"
	sessionUC "github.com/authflow/session-gateway/usecase/session"
	validatorUC "github.com/authflow/session-gateway/usecase/validator"
)

// UserIDHeader carries the authenticated user id to the protected backend.
const UserIDHeader = "X-User-ID"

// GuardConfig holds the routing targets of the verification layer.
type GuardConfig struct {
	CookieName string
	AuthURL    string
}

// SessionGuard wraps a handler with session verification. The verdict maps
// to exactly one action: forward with the user id attached, redirect to the
// authentication entry point, or purge the expired session and redirect.
// Non-valid outcomes all look like "please log in" to the caller; only the
// expired path touches the presented cookie, since the other callers never
// proved ownership of the session they name.
func SessionGuard(
	cfg GuardConfig,
	validator *validatorUC.UseCase,
	sessions *sessionUC.UseCase,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			sessionID := string(ctx.Request.Header.Cookie(cfg.CookieName))
			attrs := fingerprint.Extract(ctx)

			stdCtx, cancel := adapter.Attach(ctx)
			defer cancel()

			result := validator.Validate(stdCtx, sessionID, attrs)
			switch result.Verdict {
			case validatorUC.VerdictValid:
				ctx.Request.Header.Set(UserIDHeader, result.UserID)
				next(ctx)

			case validatorUC.VerdictExpired:
				// Active cleanup happens only on the path that observed the
				// expiry; there is no background sweeper.
				if err := sessions.End(stdCtx, sessionID); err != nil {
					logger.Warn("expired session purge failed",
						zap.String("session_id", sessionID),
						zap.Error(err))
				}
				clearCookie(ctx, cfg.CookieName)
				ctx.Redirect(cfg.AuthURL, fasthttp.StatusFound)

			default:
				logger.Debug("session rejected",
					zap.String("verdict", result.Verdict.String()),
					zap.String("path", string(ctx.Path())))
				ctx.Redirect(cfg.AuthURL, fasthttp.StatusFound)
			}
		}
	}
}

func clearCookie(ctx *fasthttp.RequestCtx, name string) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(name)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(cookie)
}
