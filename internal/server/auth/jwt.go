// Package auth implements the session token authority: issuance and
// verification of signed access/refresh token pairs, and password hashing.
//
// A token here is only a statement about a past moment: it binds a user id
// and the tokenVersion counter value observed at issuance time. Whether the
// token is still honored is decided by the calling flow, which compares the
// embedded version against the user's current one (see services).
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/habbababbai/entertainment-tracker/internal/common"
)

// Token type constants carried in the "type" claim. Access and refresh
// tokens are signed with independent secrets, so the claim is informative
// rather than load-bearing: a forged type still fails the signature check
// against the expected secret.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Subject is the identity snapshot bound into a token at issuance time.
type Subject struct {
	ID           string
	TokenVersion int64
}

// TokenPair carries a freshly minted access/refresh pair. Both tokens are
// always minted from the same Subject snapshot.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Claims is the JWT payload: registered sub/iat/exp plus the tokenVersion
// counter and the token type.
type Claims struct {
	jwt.RegisteredClaims
	TokenVersion int64  `json:"tokenVersion"`
	TokenType    string `json:"type"`
}

// TokenAuthority mints and validates token pairs. It holds process-wide
// immutable configuration and no mutable state, so a single instance is
// safe for concurrent use across requests.
type TokenAuthority struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenAuthority validates the signing configuration once; after that
// the authority never re-reads or mutates it.
func NewTokenAuthority(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) (*TokenAuthority, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, errors.New("signing secrets must not be empty")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	return &TokenAuthority{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueAccessToken mints a short-lived access token for the subject.
// It has no side effects and does not touch persistent state.
func (a *TokenAuthority) IssueAccessToken(s Subject) (string, error) {
	return a.issue(s, TokenTypeAccess, a.accessSecret, a.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for the subject,
// signed with the refresh secret.
func (a *TokenAuthority) IssueRefreshToken(s Subject) (string, error) {
	return a.issue(s, TokenTypeRefresh, a.refreshSecret, a.refreshTTL)
}

// IssueTokenPair mints both tokens from the same subject snapshot, so the
// pair always agrees on id and tokenVersion.
func (a *TokenAuthority) IssueTokenPair(s Subject) (*TokenPair, error) {
	accessToken, err := a.IssueAccessToken(s)
	if err != nil {
		return nil, err
	}
	refreshToken, err := a.IssueRefreshToken(s)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccessToken validates signature, expiry, shape and type of an
// access token and returns its claims. It does NOT compare the embedded
// tokenVersion against the user's current one; that live check belongs to
// the calling flow.
func (a *TokenAuthority) VerifyAccessToken(tokenString string) (*Claims, error) {
	return a.verify(tokenString, TokenTypeAccess, a.accessSecret)
}

// VerifyRefreshToken is the refresh-secret counterpart of VerifyAccessToken.
func (a *TokenAuthority) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return a.verify(tokenString, TokenTypeRefresh, a.refreshSecret)
}

func (a *TokenAuthority) issue(s Subject, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	if s.ID == "" {
		return "", errors.New("subject id must not be empty")
	}
	if s.TokenVersion < 0 {
		return "", errors.New("subject token version must not be negative")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenVersion: s.TokenVersion,
		TokenType:    tokenType,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// verify collapses every failure into common.ErrInvalidToken. Callers must
// not be able to distinguish a bad signature from an expired, mistyped or
// malformed token.
func (a *TokenAuthority) verify(tokenString, wantType string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, common.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenVersion < 0 {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
