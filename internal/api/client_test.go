package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoyo-tech/hoyo-client/internal/api"
	"github.com/hoyo-tech/hoyo-client/internal/model/account"
	"github.com/hoyo-tech/hoyo-client/internal/session"
	"github.com/hoyo-tech/hoyo-client/pkg/utils"
)

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.Set("t1", account.User{ID: "1"}))

	client := api.NewClient(srv.URL, store)
	_, err := client.Do(context.Background(), http.MethodGet, "/ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", gotAuth)
}

func TestDoOmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemoryStore())
	_, err := client.Do(context.Background(), http.MethodGet, "/ping", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDoUnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
	}))
	defer srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.Set("stale", account.User{ID: "1"}))

	var hookFired atomic.Bool
	client := api.NewClient(srv.URL, store,
		api.WithUnauthorizedHook(func() { hookFired.Store(true) }))

	_, err := client.Do(context.Background(), http.MethodGet, "/conversations", nil)

	var authErr *api.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.True(t, hookFired.Load())

	_, ok := store.Token()
	assert.False(t, ok, "401 must clear the session store")
	_, ok = store.User()
	assert.False(t, ok)
}

func TestDoNonOKReturnsHTTPErrorWithPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemoryStore())
	_, err := client.Do(context.Background(), http.MethodGet, "/conversations/x/messages", nil)

	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "conversation not found", httpErr.Message("fallback"))
}

func TestDoNonJSONErrorBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemoryStore())
	_, err := client.Do(context.Background(), http.MethodGet, "/models", nil)

	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Request failed", httpErr.Message("other"))
}

func TestDoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	client := api.NewClient(srv.URL, session.NewMemoryStore())
	_, err := client.Do(context.Background(), http.MethodGet, "/models", nil)

	var netErr *api.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.False(t, errors.As(err, new(*api.HTTPError)))
}

func TestWrapperDecodeErrorOnWrongShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, "just a string")
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemoryStore())
	_, err := client.Models().List(context.Background())

	var decodeErr *api.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestWrapperPathsAndMethods(t *testing.T) {
	type call struct {
		method string
		path   string
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		utils.RespondJSON(w, http.StatusOK, map[string]any{})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, session.NewMemoryStore())
	ctx := context.Background()

	client.Conversations().Delete(ctx, "c1")
	client.Voice().End(ctx, "v1")
	client.Voice().Transcript(ctx, "v1", "hello")
	client.ScreenCapture().Analyze(ctx, "cap1")

	require.Equal(t, []call{
		{http.MethodDelete, "/conversations/c1"},
		{http.MethodPost, "/voice/v1/end"},
		{http.MethodPost, "/voice/v1/transcript"},
		{http.MethodPost, "/screen-capture/cap1/analyze"},
	}, calls)
}
