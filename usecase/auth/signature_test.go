package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxtick/backend/domain"
)

func signedParams(t *testing.T, f *fixture, verb, host, uri string, params map[string]string) map[string]string {
	t.Helper()
	signature, err := f.svc.GenerateSignature(context.Background(), verb, host, uri, params, nil)
	require.NoError(t, err)
	params["signature"] = signature
	return params
}

func TestGenerateSignature_ResolvesSecretFromDirectory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	params := map[string]string{
		"sysName":   "mobile-app",
		"timestamp": "20240101120000",
	}

	resolved, err := f.svc.GenerateSignature(ctx, "GET", "host", "/v1/events", params, nil)
	require.NoError(t, err)
	explicit, err := f.svc.GenerateSignature(ctx, "GET", "host", "/v1/events", params, []byte("s3cr3t"))
	require.NoError(t, err)
	assert.Equal(t, resolved, explicit)
}

func TestGenerateSignature_Misuse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GenerateSignature(ctx, "DELETE", "host", "/v1/events", map[string]string{"sysName": "mobile-app"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidVerb)

	_, err = f.svc.GenerateSignature(ctx, "GET", "host", "/v1/events", map[string]string{}, nil)
	assert.ErrorIs(t, err, domain.ErrSysNameMissing)

	_, err = f.svc.GenerateSignature(ctx, "GET", "host", "/v1/events", map[string]string{"sysName": "ghost"}, nil)
	assert.ErrorIs(t, err, domain.ErrSysNameBad)

	_, err = f.svc.GenerateSignature(ctx, "GET", "host", "/v1/events", map[string]string{"sysName": "retired"}, nil)
	assert.ErrorIs(t, err, domain.ErrSysNameBad)
}

func TestValidateSignature_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	params := signedParams(t, f, "GET", "host", "/v1/events", map[string]string{
		"sysName":   "mobile-app",
		"timestamp": "20240101120000",
	})

	valid, err := f.svc.ValidateSignature(ctx, "GET", "host", "/v1/events", params)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateSignature_TamperedParam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	params := signedParams(t, f, "GET", "host", "/v1/events", map[string]string{
		"sysName":   "mobile-app",
		"timestamp": "20240101120000",
	})
	params["timestamp"] = "20240101120001"

	valid, err := f.svc.ValidateSignature(ctx, "GET", "host", "/v1/events", params)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidateSignature_WrongSecret(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// signed with the kiosk's key but claiming to be the mobile app
	params := map[string]string{
		"sysName":   "mobile-app",
		"timestamp": "20240101120000",
	}
	forged, err := f.svc.GenerateSignature(ctx, "GET", "host", "/v1/events", params, []byte("other-key"))
	require.NoError(t, err)
	params["signature"] = forged

	valid, err := f.svc.ValidateSignature(ctx, "GET", "host", "/v1/events", params)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidateSignature_TotalOverBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		verb   string
		params map[string]string
	}{
		{"missing signature", "GET", map[string]string{"sysName": "mobile-app"}},
		{"bad verb", "PATCH", map[string]string{"sysName": "mobile-app", "signature": "x"}},
		{"missing sysName", "GET", map[string]string{"signature": "x"}},
		{"unknown sysName", "GET", map[string]string{"sysName": "ghost", "signature": "x"}},
		{"inactive client", "GET", map[string]string{"sysName": "retired", "signature": "x"}},
	}
	for _, tc := range cases {
		valid, err := f.svc.ValidateSignature(ctx, tc.verb, "host", "/v1/events", tc.params)
		require.NoError(t, err, tc.name)
		assert.False(t, valid, tc.name)
	}
}

func TestValidateSignature_StorageFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.clients.err = errors.New("connection refused")

	_, err := f.svc.ValidateSignature(context.Background(), "GET", "host", "/v1/events", map[string]string{
		"sysName":   "mobile-app",
		"signature": "x",
	})
	assert.Error(t, err)
}

func TestValidateTimestamp(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.svc.ValidateTimestamp("20240101120000"))
	assert.True(t, f.svc.ValidateTimestamp("20240101114501"))
	assert.False(t, f.svc.ValidateTimestamp("20240101114500"))
	assert.False(t, f.svc.ValidateTimestamp("garbage"))
}
