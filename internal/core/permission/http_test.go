// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-forum/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-forum/internal/platform/sec"
)

func newTestRouter(service *Service) http.Handler {
	router := chi.NewRouter()
	router.Route("/categories/{categoryID}", func(scoped chi.Router) {
		NewHandler(service).RegisterRoutes(scoped)
	})
	return router
}

func as(request *http.Request, userID string) *http.Request {
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: userID}))
}

func TestHandler_Mine(t *testing.T) {
	service, _ := newTestService(newMemRepository(Full("owner", "cat")))
	router := newTestRouter(service)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, as(httptest.NewRequest(http.MethodGet, "/categories/cat/permissions/me", nil), "owner"))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data Summary `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Contains(t, body.Data.Capabilities, CapModify)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/categories/cat/permissions/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHandler_Grant(t *testing.T) {
	repo := newMemRepository(Full("owner", "cat"))
	service, _ := newTestService(repo)
	router := newTestRouter(service)

	payload := `{"capabilities":{"canPost":true,"canView":true},"level":5}`
	request := as(httptest.NewRequest(http.MethodPut, "/categories/cat/permissions/member", strings.NewReader(payload)), "owner")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, repo.records, key{"member", "cat"})

	request = as(httptest.NewRequest(http.MethodPut, "/categories/cat/permissions/member", strings.NewReader(`{"level":`)), "owner")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_Roster_Forbidden(t *testing.T) {
	service, _ := newTestService(newMemRepository(Full("owner", "cat")))
	router := newTestRouter(service)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, as(httptest.NewRequest(http.MethodGet, "/categories/cat/permissions", nil), "stranger"))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
