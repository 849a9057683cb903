// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_RegisterLoginLogout(t *testing.T) {
	service, _, sessions := newTestService()
	router := NewHandler(service, CookieConfig{Name: "forum_session"}).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"dave","password":"open sesame"}`)))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.NotContains(t, recorder.Body.String(), "passwordhash")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"dave","password":"open sesame"}`)))
	require.Equal(t, http.StatusOK, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Len(t, sessions.byHash, 2)

	logout := httptest.NewRequest(http.MethodPost, "/logout", nil)
	logout.AddCookie(cookies[0])
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, logout)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Len(t, sessions.byHash, 1)
}

func TestHandler_Me_Anonymous(t *testing.T) {
	service, _, _ := newTestService()
	router := NewHandler(service, CookieConfig{Name: "forum_session"}).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
