package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/habbababbai/entertainment-tracker/internal/common"
)

func newTestAuthority(t *testing.T) *TokenAuthority {
	t.Helper()
	a, err := NewTokenAuthority([]byte("access-secret"), []byte("refresh-secret"), time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenAuthority error: %v", err)
	}
	return a
}

func TestNewTokenAuthority_Validation(t *testing.T) {
	if _, err := NewTokenAuthority(nil, []byte("r"), time.Hour, time.Hour); err == nil {
		t.Fatal("expected error for empty access secret")
	}
	if _, err := NewTokenAuthority([]byte("a"), nil, time.Hour, time.Hour); err == nil {
		t.Fatal("expected error for empty refresh secret")
	}
	if _, err := NewTokenAuthority([]byte("a"), []byte("r"), 0, time.Hour); err == nil {
		t.Fatal("expected error for zero access TTL")
	}
	if _, err := NewTokenAuthority([]byte("a"), []byte("r"), time.Hour, -time.Hour); err == nil {
		t.Fatal("expected error for negative refresh TTL")
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(t)
	subject := Subject{ID: "user-123", TokenVersion: 3}

	tok, err := a.IssueAccessToken(subject)
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}

	claims, err := a.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}
	if claims.Subject != subject.ID {
		t.Fatalf("sub = %q, want %q", claims.Subject, subject.ID)
	}
	if claims.TokenVersion != subject.TokenVersion {
		t.Fatalf("tokenVersion = %d, want %d", claims.TokenVersion, subject.TokenVersion)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("type = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
}

func TestIssueTokenPair_ConsistentSnapshot(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(t)
	pair, err := a.IssueTokenPair(Subject{ID: "u1", TokenVersion: 0})
	if err != nil {
		t.Fatalf("IssueTokenPair error: %v", err)
	}

	access, err := a.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken error: %v", err)
	}
	refresh, err := a.VerifyRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefreshToken error: %v", err)
	}
	if access.Subject != refresh.Subject || access.TokenVersion != refresh.TokenVersion {
		t.Fatalf("pair disagrees: access %+v refresh %+v", access, refresh)
	}
}

func TestVerify_CrossTypeRejection(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(t)
	subject := Subject{ID: "u1", TokenVersion: 0}

	accessToken, err := a.IssueAccessToken(subject)
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}
	refreshToken, err := a.IssueRefreshToken(subject)
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}

	if _, err := a.VerifyRefreshToken(accessToken); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := a.VerifyAccessToken(refreshToken); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(t)
	tok, err := a.issue(Subject{ID: "u1", TokenVersion: 0}, TokenTypeAccess, a.accessSecret, -1*time.Second)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	if _, err := a.VerifyAccessToken(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(t)
	tok, err := a.IssueAccessToken(Subject{ID: "u1", TokenVersion: 1})
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}

	// Swap the payload segment for one from a token with a different
	// version; the signature no longer matches.
	other, err := a.IssueAccessToken(Subject{ID: "u1", TokenVersion: 2})
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}
	p1 := strings.Split(tok, ".")
	p2 := strings.Split(other, ".")
	tampered := p1[0] + "." + p2[1] + "." + p1[2]

	if _, err := a.VerifyAccessToken(tampered); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(t)
	b, err := NewTokenAuthority([]byte("other-access"), []byte("other-refresh"), time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenAuthority error: %v", err)
	}

	tok, err := a.IssueAccessToken(Subject{ID: "u1", TokenVersion: 0})
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}

	if _, err := b.VerifyAccessToken(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken under wrong secret, got %v", err)
	}
}

func TestVerify_MalformedInputsUniformError(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(t)

	inputs := []string{
		"",
		"not.a.jwt",
		"a.b",
		"eyJhbGciOiJub25lIn0.eyJzdWIiOiJ1MSJ9.",
	}
	for _, in := range inputs {
		if _, err := a.VerifyAccessToken(in); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("VerifyAccessToken(%q) = %v, want ErrInvalidToken", in, err)
		}
		if _, err := a.VerifyRefreshToken(in); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("VerifyRefreshToken(%q) = %v, want ErrInvalidToken", in, err)
		}
	}
}

func TestIssue_SubjectValidation(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(t)

	if _, err := a.IssueAccessToken(Subject{ID: "", TokenVersion: 0}); err == nil {
		t.Fatal("expected error for empty subject id")
	}
	if _, err := a.IssueRefreshToken(Subject{ID: "u1", TokenVersion: -1}); err == nil {
		t.Fatal("expected error for negative token version")
	}
}
