// Package services implements the application flows over the repositories,
// the token authority and the metadata provider.
//
// Every authenticated flow follows the same four steps: verify the token's
// signature and shape, load the current user, compare the embedded
// tokenVersion against the stored one, then proceed. The version comparison
// is what makes revocation work; it is never skipped and never cached.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/habbababbai/entertainment-tracker/internal/common"
	"github.com/habbababbai/entertainment-tracker/internal/logging"
	"github.com/habbababbai/entertainment-tracker/internal/server/auth"
	"github.com/habbababbai/entertainment-tracker/internal/server/models"
	"github.com/habbababbai/entertainment-tracker/internal/server/repositories/users"
)

const minPasswordLength = 8

// Identity is the authenticated caller for the remainder of a request.
type Identity struct {
	UserID       string
	TokenVersion int64
}

// ResetTokenStore is the one-time token collaborator used by the password
// reset flow.
type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

// UserService owns registration, login and the revocation-aware session
// flows.
type UserService struct {
	repo       users.Repository
	tokens     *auth.TokenAuthority
	resetStore ResetTokenStore
	resetTTL   time.Duration
	logger     logging.Logger
}

func NewUserService(repo users.Repository, tokens *auth.TokenAuthority, resetStore ResetTokenStore, resetTTL time.Duration, logger logging.Logger) *UserService {
	return &UserService{
		repo:       repo,
		tokens:     tokens,
		resetStore: resetStore,
		resetTTL:   resetTTL,
		logger:     logger.With("component", "users"),
	}
}

// Register creates an account and logs it in: the response carries a token
// pair minted from the fresh user row (tokenVersion 0).
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, *auth.TokenPair, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || len(password) < minPasswordLength {
		return nil, nil, common.ErrorValidation
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	user, err := s.repo.Create(ctx, &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, nil, common.ErrorConflict
		}
		s.logger.Error(ctx, "user creation failed", "error", err)
		return nil, nil, common.ErrorInternal
	}

	pair, err := s.tokens.IssueTokenPair(auth.Subject{ID: user.ID, TokenVersion: user.TokenVersion})
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user, pair, nil
}

// Login verifies credentials and mints a token pair. An unknown email and a
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *auth.TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn the same argon2 work as a real verification so
			// response timing does not reveal whether the email exists.
			auth.VerifyPassword(password, auth.DummyHash)
			s.logger.Debug(ctx, "login rejected", "cause", "unknown email")
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.logger.Debug(ctx, "login rejected", "cause", "wrong password", "user", user.ID)
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.tokens.IssueTokenPair(auth.Subject{ID: user.ID, TokenVersion: user.TokenVersion})
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	return user, pair, nil
}

// Authorize authenticates a bearer header: extract the token, verify it as
// an access token, load the current user, compare the revocation counter.
// Every failure collapses into common.ErrorUnauthorized; the concrete cause
// is logged for operators only.
func (s *UserService) Authorize(ctx context.Context, bearerHeader string) (*Identity, error) {
	user, err := s.authorizedUser(ctx, bearerHeader)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: user.ID, TokenVersion: user.TokenVersion}, nil
}

func (s *UserService) authorizedUser(ctx context.Context, bearerHeader string) (*models.User, error) {
	tokenString, ok := extractBearerToken(bearerHeader)
	if !ok {
		s.logger.Debug(ctx, "authorization rejected", "cause", "missing or malformed bearer header")
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		s.logger.Debug(ctx, "authorization rejected", "cause", "access token verification failed")
		return nil, common.ErrorUnauthorized
	}

	return s.loadAndCompareVersion(ctx, claims)
}

// Refresh mints a new pair from a refresh token. The new pair is bound to
// the CURRENT subject, so a pair refreshed after a version bump carries the
// fresh counter.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug(ctx, "refresh rejected", "cause", "refresh token verification failed")
		return nil, common.ErrorUnauthorized
	}

	user, err := s.loadAndCompareVersion(ctx, claims)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssueTokenPair(auth.Subject{ID: user.ID, TokenVersion: user.TokenVersion})
	if err != nil {
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Logout revokes every outstanding token for the user by bumping the
// revocation counter. It requires a still-valid refresh token, so a client
// cannot log out an account it no longer holds credentials for.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug(ctx, "logout rejected", "cause", "refresh token verification failed")
		return common.ErrorUnauthorized
	}

	user, err := s.loadAndCompareVersion(ctx, claims)
	if err != nil {
		return err
	}

	if _, err := s.repo.IncrementTokenVersion(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "token version increment failed", "error", err, "user", user.ID)
		return common.ErrorInternal
	}

	return nil
}

// RequestPasswordReset mints a one-time reset token for the account behind
// email. The returned token is handed to an out-of-scope mailer. Whether the
// email exists is not observable from the outcome: unknown addresses succeed
// with an empty token.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "reset requested for unknown email")
			return "", nil
		}
		return "", common.ErrorInternal
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", common.ErrorInternal
	}

	if err := s.resetStore.Save(ctx, token, user.ID, s.resetTTL); err != nil {
		s.logger.Error(ctx, "reset token save failed", "error", err)
		return "", common.ErrorInternal
	}

	return token, nil
}

// CompletePasswordReset redeems a one-time token and installs the new
// password. UpdatePasswordHash bumps tokenVersion in the same statement, so
// completing a reset logs the account out everywhere.
func (s *UserService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return common.ErrorValidation
	}

	userID, err := s.resetStore.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "reset rejected", "cause", "unknown or expired token")
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Account deleted between token issue and redemption.
			return common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "password update failed", "error", err, "user", userID)
		return common.ErrorInternal
	}

	return nil
}

// DeleteAccount removes the account. Three independent checks must pass: a
// valid access token, a fresh version match (both inside authorizedUser) and
// the correct current password.
func (s *UserService) DeleteAccount(ctx context.Context, bearerHeader, password string) error {
	user, err := s.authorizedUser(ctx, bearerHeader)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.logger.Debug(ctx, "deletion rejected", "cause", "wrong password", "user", user.ID)
		return common.ErrorUnauthorized
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "user deletion failed", "error", err, "user", user.ID)
		return common.ErrorInternal
	}

	return nil
}

// loadAndCompareVersion is the live half of every authenticated flow: fetch
// the user named by the claims and require an exact revocation-counter
// match. No caching here; the whole point is that a bump takes effect on
// the very next verification.
func (s *UserService) loadAndCompareVersion(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "authorization rejected", "cause", "user not found")
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if user.TokenVersion != claims.TokenVersion {
		s.logger.Debug(ctx, "authorization rejected", "cause", "token version mismatch",
			"user", user.ID, "tokenVersion", claims.TokenVersion, "currentVersion", user.TokenVersion)
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

func extractBearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
