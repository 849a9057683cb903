// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/sec"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type memUsers struct {
	byID map[string]*User
}

func (repo *memUsers) Create(_ context.Context, user *User) error {
	for _, existing := range repo.byID {
		if strings.EqualFold(existing.Username, user.Username) {
			return apperr.Conflict("Username is already taken")
		}
	}
	user.CreatedAt = time.Now()
	repo.byID[user.ID] = user
	return nil
}

func (repo *memUsers) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, user := range repo.byID {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memUsers) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repo.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memUsers) Exists(ctx context.Context, id string) error {
	_, err := repo.FindByID(ctx, id)
	return err
}

type memSessions struct {
	byHash map[string]string
	ttl    time.Duration
	err    error
}

func (repo *memSessions) Create(_ context.Context, tokenHash, userID string, ttl time.Duration) error {
	repo.byHash[tokenHash] = userID
	repo.ttl = ttl
	return nil
}

func (repo *memSessions) Find(_ context.Context, tokenHash string) (string, error) {
	if repo.err != nil {
		return "", repo.err
	}
	userID, ok := repo.byHash[tokenHash]
	if !ok {
		return "", apperr.NotFound("Session")
	}
	return userID, nil
}

func (repo *memSessions) Delete(_ context.Context, tokenHash string) error {
	delete(repo.byHash, tokenHash)
	return nil
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, username string, _ time.Duration) (string, error) {
	return "jwt-for-" + username, nil
}

func newTestService() (*Service, *memUsers, *memSessions) {
	users := &memUsers{byID: map[string]*User{}}
	sessions := &memSessions{byHash: map[string]string{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(users, sessions, stubTokens{}, 24*time.Hour, logger), users, sessions
}

// ---------------------------------------------------------------------------
// Register / Login
// ---------------------------------------------------------------------------

func TestService_Register(t *testing.T) {
	service, users, sessions := newTestService()
	ctx := context.Background()

	session, err := service.Register(ctx, Credentials{Username: "alice", Password: "correct horse"})
	require.NoError(t, err)

	assert.NotEmpty(t, session.SessionToken)
	assert.Equal(t, "jwt-for-alice", session.AccessToken)
	assert.Len(t, users.byID, 1)
	assert.NotEqual(t, "correct horse", session.User.PasswordHash)
	assert.Equal(t, session.User.ID, sessions.byHash[sec.HashToken(session.SessionToken)])
	assert.Equal(t, 24*time.Hour, sessions.ttl)

	_, err = service.Register(ctx, Credentials{Username: "ALICE", Password: "another pass"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

func TestService_Register_Validation(t *testing.T) {
	service, _, _ := newTestService()

	tests := []Credentials{
		{Username: "", Password: "long enough"},
		{Username: "al", Password: "long enough"},
		{Username: "bad name!", Password: "long enough"},
		{Username: "alice", Password: "short"},
		{Username: "alice", Password: strings.Repeat("x", 73)},
	}

	for _, input := range tests {
		_, err := service.Register(context.Background(), input)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "%+v", input)
	}
}

func TestService_Login(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, Credentials{Username: "bob", Password: "hunter2hunter2"})
	require.NoError(t, err)

	session, err := service.Login(ctx, Credentials{Username: "Bob", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "bob", session.User.Username)

	_, err = service.Login(ctx, Credentials{Username: "bob", Password: "wrong password"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.Login(ctx, Credentials{Username: "nobody", Password: "hunter2hunter2"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

func TestService_ResolveSession(t *testing.T) {
	service, _, sessions := newTestService()
	ctx := context.Background()

	session, err := service.Register(ctx, Credentials{Username: "carol", Password: "s3cret-pass"})
	require.NoError(t, err)

	claims, err := service.ResolveSession(ctx, session.SessionToken)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, session.User.ID, claims.UserID)

	claims, err = service.ResolveSession(ctx, "forged-token")
	assert.NoError(t, err)
	assert.Nil(t, claims)

	require.NoError(t, service.Logout(ctx, session.SessionToken))
	require.NoError(t, service.Logout(ctx, session.SessionToken))
	claims, err = service.ResolveSession(ctx, session.SessionToken)
	assert.NoError(t, err)
	assert.Nil(t, claims)

	sessions.err = apperr.Internal(errors.New("redis down"))
	_, err = service.ResolveSession(ctx, "anything")
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

func TestService_Me(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Me(context.Background(), "")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}
