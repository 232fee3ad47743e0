package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 120*time.Minute)

	token, err := m.IssueToken(42, "alice", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Subject != "alice" || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if got := time.Duration(claims.ExpiresAt-claims.IssuedAt) * time.Second; got != 120*time.Minute {
		t.Fatalf("expected 120m ttl, got %v", got)
	}
}

func TestParseTokenRejects(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, err := m.IssueToken(1, "alice", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	expired := NewTokenManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.IssueToken(1, "alice", "user")
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:         1,
		StandardClaims: jwt.StandardClaims{Subject: "alice", ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	tests := map[string]string{
		"wrong secret": mustIssue(t, NewTokenManager("other", time.Hour)),
		"expired":      old,
		"garbage":      "not.a.token",
		"none alg":     noneToken,
		"truncated":    token[:len(token)-4],
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ParseToken(tok); err != ErrInvalidToken {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func mustIssue(t *testing.T, m *TokenManager) string {
	t.Helper()
	token, err := m.IssueToken(1, "alice", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}
