package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/authflow/session-gateway/api/transport"
	"github.com/authflow/session-gateway/domain"
	"github.com/authflow/session-gateway/pkg/fingerprint"
	"github.com/authflow/session-gateway/pkg/httpcontext"
	sessionUC "github.com/authflow/session-gateway/usecase/session"
)

// SessionHandler exposes the lifecycle API the authentication collaborator
// calls after sign-in, logout and password-reset completion.
type SessionHandler struct {
	baseHandler
	uc         *sessionUC.UseCase
	cookieName string
}

func NewSessionHandler(uc *sessionUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, cookieName string) *SessionHandler {
	if cookieName == "" {
		cookieName = "session_id"
	}
	return &SessionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		cookieName:  cookieName,
	}
}

// @Summary Start a session for an authenticated user
// @Tags sessions
// @Router /internal/v1/sessions [post]
func (h *SessionHandler) Start(ctx *fasthttp.RequestCtx) {
	var req transport.SessionStartRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.UserID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	attrs := fingerprint.Attributes{
		IP:             req.IP,
		UserAgent:      req.UserAgent,
		AcceptLanguage: req.AcceptLanguage,
		ForwardedFor:   req.ForwardedFor,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Start(stdCtx, req.UserID, attrs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setCookie(ctx, session.ID, session.ExpiresAt)
	h.respondSuccess(ctx, http.StatusCreated, transport.SessionStartResponse{
		SessionID: session.ID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// @Summary End a session (logout)
// @Tags sessions
// @Router /internal/v1/sessions/{id} [delete]
func (h *SessionHandler) End(ctx *fasthttp.RequestCtx) {
	sessionID, _ := ctx.UserValue("id").(string)
	if sessionID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing session id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.End(stdCtx, sessionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Invalidate every session of a user (password reset)
// @Tags sessions
// @Router /internal/v1/users/{user_id}/sessions [delete]
func (h *SessionHandler) InvalidateUser(ctx *fasthttp.RequestCtx) {
	userID, _ := ctx.UserValue("user_id").(string)
	if userID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing user id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	removed, err := h.uc.InvalidateUser(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.InvalidateResponse{
		UserID:  userID,
		Removed: removed,
	})
}

func (h *SessionHandler) setCookie(ctx *fasthttp.RequestCtx, sessionID string, expiresAt time.Time) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(h.cookieName)
	cookie.SetValue(sessionID)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(expiresAt)
	ctx.Response.Header.SetCookie(cookie)
}
