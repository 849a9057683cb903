// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements user registration and the identity layer.

A browser session is an opaque random token kept in an HttpOnly cookie; the
server stores only its SHA-256 hash in Redis, mapped to the user id with a TTL.
API clients may instead present a short-lived RS256 access token.

Resolving a session never fails for an unknown or expired token: the caller
is simply anonymous.
*/
package auth

import "time"

// # Domain Entities

// User is a registered forum member.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginSession is the result of a successful register or login.
type LoginSession struct {
	SessionToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	User         *User     `json:"user"`
}

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// # Credential Constraints

const (
	UsernameMinLen = 3
	UsernameMaxLen = 64
	PasswordMinLen = 8
	// PasswordMaxLen is bcrypt's input limit.
	PasswordMaxLen = 72
)
