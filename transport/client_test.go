package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-skillgap-client/credentials"
	"github.com/jrsteele09/go-skillgap-client/credentials/repofake"
	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	testAccessToken     = "access-token-1"
	testNewAccessToken  = "access-token-2"
	testRefreshToken    = "refresh-token-1"
	testNewRefreshToken = "refresh-token-2"
)

type testFixture struct {
	repo   *repofake.FakeCredentialsRepo
	store  *credentials.Store
	client *transport.Client
	server *httptest.Server
}

func setupTestFixture(t *testing.T, handler http.Handler) *testFixture {
	t.Helper()

	repo := repofake.NewFakeCredentialsRepo()
	store, err := credentials.NewStore(repo)
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := transport.New(server.URL, store)
	require.NoError(t, err)

	return &testFixture{repo: repo, store: store, client: client, server: server}
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	f := setupTestFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
	}))
	require.NoError(t, f.store.SetAccessToken(testAccessToken))

	require.NoError(t, f.client.Get(context.Background(), "/auth/me", nil, nil))
	require.Equal(t, "Bearer "+testAccessToken, gotAuth)
}

func TestNoTokenDispatchesUnauthenticated(t *testing.T) {
	var gotAuth string
	f := setupTestFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
	}))

	require.NoError(t, f.client.Get(context.Background(), "/market/trending", nil, nil))
	require.Empty(t, gotAuth)
}

func TestTransparentRefreshOn401(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testNewAccessToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"email": "john.doe@example.com"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, testRefreshToken, body["refresh_token"])
		writeJSON(w, http.StatusOK, map[string]string{
			"access_token":  testNewAccessToken,
			"refresh_token": testNewRefreshToken,
		})
	})

	f := setupTestFixture(t, mux)
	require.NoError(t, f.store.SetTokens(testAccessToken, testRefreshToken))

	var out map[string]string
	require.NoError(t, f.client.Get(context.Background(), "/auth/me", nil, &out))

	// The caller observes only the final successful result.
	require.Equal(t, "john.doe@example.com", out["email"])
	require.Equal(t, int32(1), refreshCalls.Load())

	// Rotated tokens were persisted.
	require.Equal(t, testNewAccessToken, f.store.AccessToken())
	require.Equal(t, testNewRefreshToken, f.store.RefreshToken())
}

func TestRefreshGuardNeverRetriesTwice(t *testing.T) {
	var meCalls, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		meCalls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access_token": testNewAccessToken})
	})

	f := setupTestFixture(t, mux)
	require.NoError(t, f.store.SetTokens(testAccessToken, testRefreshToken))

	err := f.client.Get(context.Background(), "/auth/me", nil, nil)
	require.ErrorIs(t, err, transport.ErrAuthentication)

	// Original call, one refresh, one retried call. Never a second refresh.
	require.Equal(t, int32(2), meCalls.Load())
	require.Equal(t, int32(1), refreshCalls.Load())
}

func TestNoRefreshTokenFailsImmediately(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	f := setupTestFixture(t, mux)
	require.NoError(t, f.store.SetAccessToken(testAccessToken))

	err := f.client.Get(context.Background(), "/auth/me", nil, nil)
	require.ErrorIs(t, err, transport.ErrAuthentication)
	require.False(t, transport.IsSessionExpired(err))
	require.Zero(t, refreshCalls.Load())

	// Store untouched: the stale access token is still there.
	require.Equal(t, testAccessToken, f.store.AccessToken())
}

func TestRefreshFailureClearsCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "refresh token expired"})
	})

	f := setupTestFixture(t, mux)
	require.NoError(t, f.store.SetTokens(testAccessToken, testRefreshToken))

	err := f.client.Get(context.Background(), "/auth/me", nil, nil)
	require.True(t, transport.IsSessionExpired(err))
	require.ErrorIs(t, err, transport.ErrAuthentication)

	require.Empty(t, f.store.AccessToken())
	require.Empty(t, f.store.RefreshToken())
	require.Zero(t, f.repo.Len())
}

func TestConnectivityFailureDuringRefreshKeepsCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		// Drop the connection without a response, as a dying network would.
		conn, _, err := w.(http.Hijacker).Hijack()
		require.NoError(t, err)
		_ = conn.Close()
	})

	f := setupTestFixture(t, mux)
	require.NoError(t, f.store.SetTokens(testAccessToken, testRefreshToken))

	err := f.client.Get(context.Background(), "/auth/me", nil, nil)
	require.ErrorIs(t, err, transport.ErrConnectivity)
	require.False(t, transport.IsSessionExpired(err))

	// An unreachable server proves nothing about the refresh token; the
	// next request retries the same handshake.
	require.Equal(t, testAccessToken, f.store.AccessToken())
	require.Equal(t, testRefreshToken, f.store.RefreshToken())
}

func TestValidationErrorCarriesFields(t *testing.T) {
	f := setupTestFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{
				{"loc": []any{"body", "password"}, "msg": "Password must be at least 8 characters long"},
				{"loc": []any{"body", "email"}, "msg": "value is not a valid email address"},
			},
		})
	}))

	err := f.client.Post(context.Background(), "/auth/register", map[string]string{}, nil)

	var validationErr *transport.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Fields, 2)
	require.Equal(t, "password", validationErr.Fields[0].Loc)
	require.Equal(t, "email", validationErr.Fields[1].Loc)
}

func TestServerErrorClassification(t *testing.T) {
	f := setupTestFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Registration failed"})
	}))

	err := f.client.Post(context.Background(), "/auth/register", map[string]string{}, nil)
	require.ErrorIs(t, err, transport.ErrServer)

	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, "Registration failed", apiErr.Detail)
}

func TestConnectivityError(t *testing.T) {
	f := setupTestFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	f.server.Close()

	err := f.client.Get(context.Background(), "/auth/me", nil, nil)
	require.ErrorIs(t, err, transport.ErrConnectivity)
	require.NotErrorIs(t, err, transport.ErrAuthentication)
}

func TestStructuredDetailPreserved(t *testing.T) {
	f := setupTestFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"detail": map[string]any{
				"message":      "No job data found for 'Software Engineer'",
				"suggestions":  []string{"Try increasing the time window"},
				"alternatives": []string{"Data Engineer"},
			},
		})
	}))

	err := f.client.Get(context.Background(), "/skills/gap-analysis", nil, nil)

	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "No job data found for 'Software Engineer'", apiErr.Detail)

	var detail struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(apiErr.RawDetail, &detail))
	require.Equal(t, []string{"Try increasing the time window"}, detail.Suggestions)
}

func TestWrappedTaxonomySurvivesErrorsIs(t *testing.T) {
	f := setupTestFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
	}))

	err := f.client.Post(context.Background(), "/auth/login", map[string]string{}, nil)
	wrapped := errors.Wrap(err, "login")
	require.ErrorIs(t, wrapped, transport.ErrAuthentication)
}
