package auth

import (
	"context"

	"github.com/boxtick/backend/domain"
	"github.com/boxtick/backend/pkg/signing"
)

// GenerateSignature computes the reference signature for a request. When
// secret is nil it is resolved through the client directory using the
// sysName parameter. Misuse (bad verb, missing sysName, unknown or
// inactive sysName) fails loudly; this is the reference implementation
// callers sign against, not the verification boundary.
func (s *Service) GenerateSignature(ctx context.Context, httpVerb, hostname, uri string, params map[string]string, secret []byte) (string, error) {
	if _, err := signing.NormalizeVerb(httpVerb); err != nil {
		return "", err
	}
	if secret == nil {
		sysName, ok := params[signing.ParamSysName]
		if !ok {
			return "", domain.ErrSysNameMissing
		}
		client, err := s.resolveClient(ctx, sysName)
		if err != nil {
			return "", err
		}
		secret = client.Secret
	}
	return signing.Sign(httpVerb, hostname, uri, params, secret)
}

// ValidateSignature recomputes the expected signature with the secret
// resolved from the sysName parameter and compares it against the
// supplied one. It is a total predicate over attacker-controlled input:
// bad verbs, missing or unknown sysNames all come back as not valid.
// Only storage failures surface as errors, so an outage is never
// mistaken for a forged request.
func (s *Service) ValidateSignature(ctx context.Context, httpVerb, hostname, uri string, params map[string]string) (bool, error) {
	supplied, ok := params[signing.ParamSignature]
	if !ok || supplied == "" {
		return false, nil
	}
	expected, err := s.GenerateSignature(ctx, httpVerb, hostname, uri, params, nil)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeInvalid) || domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			return false, nil
		}
		return false, err
	}
	return signing.Equal(expected, supplied), nil
}

// ValidateTimestamp reports whether a request timestamp falls inside
// the replay window. Freshness is checked independently of identity.
func (s *Service) ValidateTimestamp(timestamp string) bool {
	return s.guard.Valid(timestamp)
}
