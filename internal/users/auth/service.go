// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/constants"
	"github.com/taibuivan/yomira-forum/internal/platform/sec"
	"github.com/taibuivan/yomira-forum/internal/platform/validate"
	"github.com/taibuivan/yomira-forum/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs bearer access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username string, timeToLive time.Duration) (string, error)
}

// Service implements registration, login and session resolution.
type Service struct {
	users      UserRepository
	sessions   SessionRepository
	tokens     TokenProvider
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewService constructs a new auth [Service].
func NewService(users UserRepository, sessions SessionRepository, tokens TokenProvider, sessionTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Credentials is the register and login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// # Registration Flow

/*
Register validates and persists a new account, then starts a session for it.

Returns:
  - *LoginSession: Session and access token for the new user
  - error: Validation, Conflict (username taken) or storage errors
*/
func (service *Service) Register(context context.Context, input Credentials) (*LoginSession, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLen).
		MaxLen(FieldUsername, input.Username, UsernameMaxLen).
		Handle(FieldUsername, input.Username).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLen).
		MaxLen(FieldPassword, input.Password, PasswordMaxLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if errors.Is(err, sec.ErrPasswordTooLong) {
		return nil, validate.FieldErr(FieldPassword, "Maximum 72 bytes")
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: hash,
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return service.startSession(context, user)
}

// # Authentication Flow

/*
Login verifies credentials and starts a new session.

Unknown usernames and wrong passwords produce the same 401.
*/
func (service *Service) Login(context context.Context, input Credentials) (*LoginSession, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByUsername(context, input.Username)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			sec.BurnPasswordCheck(input.Password)
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.startSession(context, user)
}

func (service *Service) startSession(context context.Context, user *User) (*LoginSession, error) {
	token, err := sec.GenerateSecureToken(constants.SessionTokenLength)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_session_token_failed: %w", err))
	}

	if err := service.sessions.Create(context, sec.HashToken(token), user.ID, service.sessionTTL); err != nil {
		return nil, err
	}

	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, constants.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_access_token_failed: %w", err))
	}

	return &LoginSession{
		SessionToken: token,
		ExpiresAt:    time.Now().Add(service.sessionTTL),
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		User:         user,
	}, nil
}

// Logout deletes the server-side session. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	return service.sessions.Delete(context, sec.HashToken(sessionToken))
}

// # Identity

/*
ResolveSession maps a session cookie value to an identity.

Returns:
  - *sec.AuthClaims: nil, with a nil error, for unknown or expired tokens
  - error: Only for session store or database failures
*/
func (service *Service) ResolveSession(context context.Context, sessionToken string) (*sec.AuthClaims, error) {
	userID, err := service.sessions.Find(context, sec.HashToken(sessionToken))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sec.AuthClaims{UserID: user.ID, Username: user.Username}, nil
}

// Me returns the account of the authenticated caller.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return service.users.FindByID(context, userID)
}
