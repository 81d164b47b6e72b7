package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/boxtick/backend/domain"
)

type stubValidator struct {
	sigOK  bool
	sigErr error
	tsOK   bool

	seenVerb   string
	seenHost   string
	seenURI    string
	seenParams map[string]string
}

func (s *stubValidator) ValidateSignature(_ context.Context, httpVerb, hostname, uri string, params map[string]string) (bool, error) {
	s.seenVerb = httpVerb
	s.seenHost = hostname
	s.seenURI = uri
	s.seenParams = params
	return s.sigOK, s.sigErr
}

func (s *stubValidator) ValidateTimestamp(string) bool {
	return s.tsOK
}

type stubAudit struct {
	events []domain.AuditEvent
}

func (s *stubAudit) Record(_ context.Context, event domain.AuditEvent) {
	s.events = append(s.events, event)
}

func newRequestCtx(uri string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(uri)

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	return &ctx
}

func TestSignedRequest_PassesValidRequest(t *testing.T) {
	validator := &stubValidator{sigOK: true, tsOK: true}
	audit := &stubAudit{}

	var reached bool
	handler := SignedRequest(validator, audit, nil)(func(ctx *fasthttp.RequestCtx) {
		reached = true
	})

	ctx := newRequestCtx("http://api.example.org/v1/events?sysName=mobile-app&timestamp=20240101120000&signature=abc")
	handler(ctx)

	assert.True(t, reached)
	assert.Equal(t, "GET", validator.seenVerb)
	assert.Equal(t, "api.example.org", validator.seenHost)
	assert.Equal(t, "/v1/events", validator.seenURI)
	assert.Equal(t, "mobile-app", validator.seenParams["sysName"])
	assert.Equal(t, "mobile-app", string(ctx.Request.Header.Peek("X-Auth-SysName")))
	assert.Empty(t, audit.events)
}

func TestSignedRequest_RejectsBadSignature(t *testing.T) {
	validator := &stubValidator{sigOK: false, tsOK: true}
	audit := &stubAudit{}

	var reached bool
	handler := SignedRequest(validator, audit, nil)(func(ctx *fasthttp.RequestCtx) {
		reached = true
	})

	ctx := newRequestCtx("http://api.example.org/v1/events?sysName=mobile-app&signature=forged")
	handler(ctx)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	if assert.Len(t, audit.events, 1) {
		assert.Equal(t, domain.AuditRequestRejected, audit.events[0].Action)
		assert.Equal(t, "mobile-app", audit.events[0].SysName)
	}
}

func TestSignedRequest_RejectsStaleTimestamp(t *testing.T) {
	validator := &stubValidator{sigOK: true, tsOK: false}
	audit := &stubAudit{}

	var reached bool
	handler := SignedRequest(validator, audit, nil)(func(ctx *fasthttp.RequestCtx) {
		reached = true
	})

	ctx := newRequestCtx("http://api.example.org/v1/events?sysName=mobile-app&timestamp=20200101000000&signature=abc")
	handler(ctx)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Len(t, audit.events, 1)
}

func TestSignedRequest_StorageOutageIsNotAuthFailure(t *testing.T) {
	validator := &stubValidator{sigErr: errors.New("connection refused")}

	handler := SignedRequest(validator, nil, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("handler must not run")
	})

	ctx := newRequestCtx("http://api.example.org/v1/events?sysName=mobile-app&signature=abc")
	handler(ctx)

	assert.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
}
