package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/habbababbai/entertainment-tracker/internal/common"
	"github.com/habbababbai/entertainment-tracker/internal/logging"
	"github.com/habbababbai/entertainment-tracker/internal/server/auth"
	"github.com/habbababbai/entertainment-tracker/internal/server/models"
)

// nopLogger satisfies logging.Logger for tests.
type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (nopLogger) With(args ...any) logging.Logger                    { return nopLogger{} }

// fakeUserRepo is an in-memory users.Repository.
type fakeUserRepo struct {
	users map[string]*models.User
	next  int

	failWith error // when set, every call fails with this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, common.ErrorConflict
		}
	}
	r.next++
	user.ID = fmt.Sprintf("u-%d", r.next)
	user.TokenVersion = 0
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUserRepo) IncrementTokenVersion(ctx context.Context, id string) (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}

func (r *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	if r.failWith != nil {
		return r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	u.TokenVersion++
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeResetStore is an in-memory ResetTokenStore without expiry.
type fakeResetStore struct {
	tokens map[string]string
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{tokens: make(map[string]string)}
}

func (s *fakeResetStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *fakeResetStore) Consume(ctx context.Context, token string) (string, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return "", common.ErrorNotFound
	}
	delete(s.tokens, token)
	return userID, nil
}

func newTestUserService(t *testing.T) (*UserService, *fakeUserRepo, *fakeResetStore) {
	t.Helper()

	tokens, err := auth.NewTokenAuthority([]byte("test-access"), []byte("test-refresh"), time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenAuthority error: %v", err)
	}

	repo := newFakeUserRepo()
	resetStore := newFakeResetStore()
	svc := NewUserService(repo, tokens, resetStore, 30*time.Minute, nopLogger{})
	return svc, repo, resetStore
}

func registerTestUser(t *testing.T, svc *UserService) (*models.User, *auth.TokenPair) {
	t.Helper()
	user, pair, err := svc.Register(context.Background(), "alice@example.com", "alice", "sup3r-secret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	return user, pair
}
