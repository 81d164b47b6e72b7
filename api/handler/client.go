package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/boxtick/backend/api/transport"
	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/pkg/httpcontext"
	authUC "github.com/boxtick/backend/usecase/auth"
)

type ClientHandler struct {
	baseHandler
	uc *authUC.Service
}

func NewClientHandler(uc *authUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Report a client's registration status
// @Tags clients
// @Router /api/v1/clients/status [get]
func (h *ClientHandler) Status(ctx *fasthttp.RequestCtx) {
	client := transport.Param(ctx, "client")
	if client == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "client identifier is required", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status, err := h.uc.ClientStatus(stdCtx, client)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"client": client,
		"status": status,
	})
}
