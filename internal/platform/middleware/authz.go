// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/constants"
	"github.com/taibuivan/yomira-forum/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-forum/internal/platform/respond"
	"github.com/taibuivan/yomira-forum/internal/platform/sec"
)

// TokenVerifier checks a bearer access token.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// SessionResolver maps a browser session cookie to an identity.
// It returns (nil, nil) when the session is unknown or expired.
type SessionResolver interface {
	ResolveSession(context context.Context, token string) (*sec.AuthClaims, error)
}

/*
Authenticate resolves the caller's identity and stores it in the request context.

Flow:
 1. A bearer token in the Authorization header must verify, otherwise 401.
 2. Without one, the session cookie named cookieName is looked up.
 3. A missing or unknown cookie leaves the request anonymous.

Resolution failures in the session store are answered with 500 rather than
silently downgrading the caller to anonymous.
*/
func Authenticate(verifier TokenVerifier, sessions SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
				scheme, token, found := strings.Cut(header, " ")
				if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}

				claims, err := verifier.VerifyToken(token)
				if err != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}

				serveAs(next, writer, request, claims)
				return
			}

			cookie, err := request.Cookie(cookieName)
			if err != nil || cookie.Value == "" || sessions == nil {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := sessions.ResolveSession(request.Context(), cookie.Value)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if claims == nil {
				next.ServeHTTP(writer, request)
				return
			}

			serveAs(next, writer, request, claims)
		})
	}
}

func serveAs(next http.Handler, writer http.ResponseWriter, request *http.Request, claims *sec.AuthClaims) {
	recordUser(request.Context(), claims.UserID)
	next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
}

// RequireAuth blocks anonymous requests with 401. Mount it after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
