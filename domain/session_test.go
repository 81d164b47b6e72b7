package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken_DeterministicPerInstant(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, NewToken(1, 10, at), NewToken(1, 10, at))
	assert.NotEqual(t, NewToken(1, 10, at), NewToken(2, 10, at))
	assert.NotEqual(t, NewToken(1, 10, at), NewToken(1, 10, at.Add(time.Nanosecond)))
}

func TestToken_HexRoundTrip(t *testing.T) {
	token := NewToken(1, 10, time.Now())
	rendered := token.String()
	assert.Len(t, rendered, 32)

	parsed, err := ParseToken(rendered)
	require.NoError(t, err)
	assert.Equal(t, token, parsed)
}

func TestParseToken_Malformed(t *testing.T) {
	_, err := ParseToken("zz")
	assert.Error(t, err)

	_, err = ParseToken("abcd")
	assert.Error(t, err)

	_, err = ParseToken("")
	assert.Error(t, err)
}

func TestToken_IsZero(t *testing.T) {
	assert.True(t, Token{}.IsZero())
	assert.False(t, NewToken(1, 1, time.Now()).IsZero())
}

func TestNewSession(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	session := NewSession(1, 10, at)

	assert.Equal(t, int64(1), session.ClientID)
	assert.Equal(t, int64(10), session.UserID)
	assert.Equal(t, at, session.CreatedAt)
	assert.Equal(t, at.Add(SessionTTL), session.ExpiresAt)
	assert.False(t, session.Token.IsZero())
}

func TestSession_IsExpired(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	session := NewSession(1, 10, at)

	assert.False(t, session.IsExpired(at))
	assert.False(t, session.IsExpired(at.Add(SessionTTL-time.Second)))
	assert.True(t, session.IsExpired(at.Add(SessionTTL)))
	assert.True(t, session.IsExpired(at.Add(SessionTTL+time.Hour)))

	var nilSession *Session
	assert.True(t, nilSession.IsExpired(at))
}
