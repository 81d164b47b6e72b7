package middleware

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/boxtick/backend/api/transport"
	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/pkg/signing"
)

// RequestValidator is the slice of the authentication service the
// signed-request gate needs.
type RequestValidator interface {
	ValidateSignature(ctx context.Context, httpVerb, hostname, uri string, params map[string]string) (bool, error)
	ValidateTimestamp(timestamp string) bool
}

// AuditRecorder mirrors the service's recorder port so rejections at
// the gate leave a trace too.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent)
}

// SignedRequest verifies the HMAC signature and the replay window on
// every request before it reaches a handler. Identity (signature) and
// freshness (timestamp) are checked independently; failing either
// answers 401. Storage outages answer 503 instead of masquerading as
// authentication failures.
func SignedRequest(validator RequestValidator, audit AuditRecorder, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			params := transport.Params(ctx)
			verb := string(ctx.Method())
			host := string(ctx.Host())
			uri := string(ctx.Path())

			ok, err := validator.ValidateSignature(ctx, verb, host, uri, params)
			if err != nil {
				logger.Error("signature validation unavailable", zap.Error(err))
				reject(ctx, http.StatusServiceUnavailable, string(domain.ErrCodeInternal), "validation unavailable")
				return
			}
			if !ok {
				record(ctx, audit, params, "signature mismatch")
				reject(ctx, http.StatusUnauthorized, string(domain.ErrCodeUnauthorized), "invalid signature")
				return
			}

			if !validator.ValidateTimestamp(params[signing.ParamTimestamp]) {
				record(ctx, audit, params, "timestamp outside replay window")
				reject(ctx, http.StatusUnauthorized, string(domain.ErrCodeUnauthorized), "stale timestamp")
				return
			}

			ctx.Request.Header.Set("X-Auth-SysName", params[signing.ParamSysName])
			next(ctx)
		}
	}
}

func record(ctx *fasthttp.RequestCtx, audit AuditRecorder, params map[string]string, detail string) {
	if audit == nil {
		return
	}
	audit.Record(ctx, domain.AuditEvent{
		Action:  domain.AuditRequestRejected,
		SysName: params[signing.ParamSysName],
		Detail:  detail,
	})
}

func reject(ctx *fasthttp.RequestCtx, status int, code, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBodyString(transport.NewError(code, message, nil).String())
}
