package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

// TokenSize is the length of a session token in bytes. Tokens travel as
// 32-character lowercase hex strings.
const TokenSize = 16

// SessionTTL is the fixed lifetime of a session from its creation instant.
const SessionTTL = 2 * time.Hour

// Token is an opaque 128-bit session identifier.
type Token [TokenSize]byte

// NewToken derives a pseudo-unique token from the client, the user and the
// creation instant.
func NewToken(clientID, userID int64, at time.Time) Token {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d-%d-%s", clientID, userID, at.UTC().Format(time.RFC3339Nano))))
	var t Token
	copy(t[:], sum[:TokenSize])
	return t
}

// ParseToken decodes the transport (hex) form of a token.
func ParseToken(s string) (Token, error) {
	var t Token
	raw, err := hex.DecodeString(s)
	if err != nil {
		return t, fmt.Errorf("malformed session token: %w", err)
	}
	if len(raw) != TokenSize {
		return t, fmt.Errorf("malformed session token: got %d bytes, want %d", len(raw), TokenSize)
	}
	copy(t[:], raw)
	return t, nil
}

func (t Token) String() string {
	return hex.EncodeToString(t[:])
}

func (t Token) IsZero() bool {
	return t == Token{}
}

func (t Token) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Token) UnmarshalText(text []byte) error {
	parsed, err := ParseToken(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Session binds an authenticated user to the client that logged them in,
// for a fixed window ending at ExpiresAt.
type Session struct {
	Token     Token     `json:"token"`
	ClientID  int64     `json:"client_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession creates a session for the pair starting at the given instant.
func NewSession(clientID, userID int64, at time.Time) *Session {
	at = at.UTC()
	return &Session{
		Token:     NewToken(clientID, userID, at),
		ClientID:  clientID,
		UserID:    userID,
		CreatedAt: at,
		ExpiresAt: at.Add(SessionTTL),
	}
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}
