// Package signing implements the request-signature scheme used by API
// clients: an HMAC-SHA1 digest over a canonical representation of the
// request, keyed by the client's shared secret.
package signing

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"

	"github.com/boxtick/backend/domain"
)

// Parameter names with protocol meaning.
const (
	ParamSysName   = "sysName"
	ParamSignature = "signature"
	ParamTimestamp = "timestamp"
)

// NormalizeVerb uppercases and trims an HTTP verb, rejecting anything
// other than GET or POST.
func NormalizeVerb(httpVerb string) (string, error) {
	verb := strings.ToUpper(strings.TrimSpace(httpVerb))
	if verb != "GET" && verb != "POST" {
		return "", domain.ErrInvalidVerb
	}
	return verb, nil
}

// CanonicalString builds the exact byte sequence that gets signed:
//
//	"<VERB> <hostname><uri>\n<query>"
//
// where the query holds every parameter except the signature itself,
// sorted by key ascending and URL-encoded with %20 for spaces. The
// result is for debugging and reference only; verification always goes
// through Sign.
func CanonicalString(httpVerb, hostname, uri string, params map[string]string) (string, error) {
	verb, err := NormalizeVerb(httpVerb)
	if err != nil {
		return "", err
	}
	if _, ok := params[ParamSysName]; !ok {
		return "", domain.ErrSysNameMissing
	}

	var b strings.Builder
	b.WriteString(verb)
	b.WriteByte(' ')
	b.WriteString(hostname)
	b.WriteString(uri)
	b.WriteByte('\n')
	b.WriteString(encodeQuery(params))
	return b.String(), nil
}

// Sign computes the transport form of the signature: the base64 encoding
// of HMAC-SHA1 over the canonical string, keyed by the shared secret.
// Deterministic for identical inputs.
func Sign(httpVerb, hostname, uri string, params map[string]string, secret []byte) (string, error) {
	message, err := CanonicalString(httpVerb, hostname, uri, params)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha1.New, secret)
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Equal compares two transport-form signatures in constant time.
func Equal(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

// queryReplacer pins the reference encoder's conventions on top of
// url.QueryEscape: spaces travel as %20, and the tilde, which
// QueryEscape leaves bare, as %7E.
var queryReplacer = strings.NewReplacer("+", "%20", "~", "%7E")

func encodeQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == ParamSignature {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return queryReplacer.Replace(b.String())
}
