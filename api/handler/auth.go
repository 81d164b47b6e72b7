package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/boxtick/backend/api/transport"
	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/pkg/httpcontext"
	"github.com/boxtick/backend/pkg/signing"
	authUC "github.com/boxtick/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.Service
}

func NewAuthHandler(uc *authUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Start a session (login)
// @Tags auth
// @Router /api/v1/auth/session [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	username := transport.Param(ctx, "username")
	password := transport.Param(ctx, "password")
	sysName := transport.Param(ctx, signing.ParamSysName)
	if username == "" || sysName == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "username and sysName are required", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	token, err := h.uc.StartSession(stdCtx, username, password, sysName)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if token.IsZero() {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "invalid credentials", nil))
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]interface{}{
		"token": token.String(),
	})
}

// @Summary Destroy a session (logout)
// @Tags auth
// @Router /api/v1/auth/session [delete]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	token := transport.Param(ctx, "token")
	sysName := transport.Param(ctx, signing.ParamSysName)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	removed, err := h.uc.DestroySession(stdCtx, token, sysName)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"removed": removed,
	})
}

// @Summary Check a session and optionally resolve its user
// @Tags auth
// @Router /api/v1/auth/session [get]
func (h *AuthHandler) Validate(ctx *fasthttp.RequestCtx) {
	token := transport.Param(ctx, "token")
	sysName := transport.Param(ctx, signing.ParamSysName)
	resolve := transport.Param(ctx, "resolve")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	valid, err := h.uc.ValidateSession(stdCtx, token, sysName)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	data := map[string]interface{}{
		"valid": valid,
	}
	if valid && resolve != "" {
		identifier, err := h.uc.SessionUser(stdCtx, token, sysName, resolve != "username")
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		data["user"] = identifier
	}
	h.respondSuccess(ctx, http.StatusOK, data)
}
