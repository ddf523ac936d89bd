package clients_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-zonasi-client/clients"
	"github.com/jrsteele09/go-zonasi-client/internal/config"
	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/jrsteele09/go-zonasi-client/token"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	urls config.ServiceURLs
}

func (c testConfig) GetServiceURLs() config.ServiceURLs { return c.urls }
func (testConfig) GetRequestTimeout() time.Duration     { return 5 * time.Second }
func (testConfig) GetRequestsPerSecond() float64        { return 0 }
func (testConfig) GetRequestBurst() int                 { return 10 }

type fakeRenewer struct {
	calls atomic.Int32
	token string
	err   error
}

func (f *fakeRenewer) Renew(ctx context.Context) (string, error) {
	f.calls.Add(1)
	return f.token, f.err
}

type recorded struct {
	authorization string
	requestID     string
}

type testFixture struct {
	server  *httptest.Server
	state   *sessions.State
	renewer *fakeRenewer
	factory *clients.Factory
	client  *clients.Client

	mu   sync.Mutex
	seen []recorded
}

func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()
	f := &testFixture{
		state:   sessions.NewState(),
		renewer: &fakeRenewer{token: "fresh-token"},
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.seen = append(f.seen, recorded{r.Header.Get("Authorization"), r.Header.Get("X-Request-ID")})
		f.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	cfg := testConfig{urls: config.ServiceURLs{
		config.ServiceAuth:  f.server.URL,
		config.ServiceSiswa: f.server.URL,
	}}
	factory, err := clients.NewFactory(cfg, f.state, f.renewer)
	require.NoError(t, err)
	f.factory = factory
	f.client = factory.MustNew(config.ServiceSiswa)
	return f
}

func (f *testFixture) requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.seen...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": "ok"})
}

// requireBearer answers 401 unless the request carries the given token.
func requireBearer(tok string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+tok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": map[string]string{"message": "token expired"}})
			return
		}
		okHandler(w, r)
	}
}

func TestNewFactory_Validation(t *testing.T) {
	_, err := clients.NewFactory(nil, sessions.NewState(), nil)
	require.Error(t, err)

	_, err = clients.NewFactory(testConfig{}, nil, nil)
	require.Error(t, err)
}

func TestFactory_New(t *testing.T) {
	f := setupTestFixture(t, okHandler)

	t.Run("unknown service is a configuration error", func(t *testing.T) {
		_, err := f.factory.New("kantin")
		require.ErrorIs(t, err, apperrors.ErrUnknownService)
		require.Panics(t, func() { f.factory.MustNew("kantin") })
	})

	t.Run("configured service but no URL", func(t *testing.T) {
		_, err := f.factory.New(config.ServiceDokumen)
		require.ErrorIs(t, err, apperrors.ErrUnknownService)
	})

	t.Run("one instance per service", func(t *testing.T) {
		a, err := f.factory.New(config.ServiceAuth)
		require.NoError(t, err)
		b, err := f.factory.New(config.ServiceAuth)
		require.NoError(t, err)
		require.Same(t, a, b)
		require.NotSame(t, a, f.client)
		require.Equal(t, config.ServiceAuth, a.Service())
		require.Equal(t, f.server.URL, a.BaseURL())
	})
}

func TestClient_TokenInjection(t *testing.T) {
	f := setupTestFixture(t, okHandler)

	_, err := f.client.Do(context.Background(), &clients.Request{Path: "/api/siswa"})
	require.NoError(t, err)

	f.state.SetLogin(nil, token.NewBearer("abc.def.ghi"))
	_, err = f.client.Do(context.Background(), &clients.Request{Path: "/api/siswa"})
	require.NoError(t, err)

	seen := f.requests()
	require.Len(t, seen, 2)
	require.Empty(t, seen[0].authorization)
	require.Equal(t, "Bearer abc.def.ghi", seen[1].authorization)
	require.NotEmpty(t, seen[0].requestID)
	require.NotEqual(t, seen[0].requestID, seen[1].requestID)
}

func TestClient_RetriesOnceAfterRefresh(t *testing.T) {
	f := setupTestFixture(t, requireBearer("fresh-token"))
	f.state.SetLogin(nil, token.NewBearer("stale-token"))

	resp, err := f.client.Do(context.Background(), &clients.Request{Method: http.MethodPost, Path: "/api/siswa", Body: map[string]string{"nama": "Budi"}})
	require.NoError(t, err)
	require.True(t, resp.Retried)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, int32(1), f.renewer.calls.Load())

	seen := f.requests()
	require.Len(t, seen, 2)
	require.Equal(t, "Bearer stale-token", seen[0].authorization)
	require.Equal(t, "Bearer fresh-token", seen[1].authorization)
	require.Equal(t, seen[0].requestID, seen[1].requestID)
}

func TestClient_SecondUnauthorizedPassesThrough(t *testing.T) {
	f := setupTestFixture(t, requireBearer("never-issued"))
	f.state.SetLogin(nil, token.NewBearer("stale-token"))

	_, err := f.client.Do(context.Background(), &clients.Request{Path: "/api/siswa"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "token expired", apiErr.Message)
	require.Equal(t, int32(1), f.renewer.calls.Load())
	require.Len(t, f.requests(), 2)
}

func TestClient_RefreshEndpointNeverRetried(t *testing.T) {
	f := setupTestFixture(t, requireBearer("never-issued"))

	_, err := f.client.Do(context.Background(), &clients.Request{Method: http.MethodPost, Path: clients.RefreshPath})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	require.Equal(t, int32(0), f.renewer.calls.Load())
	require.Len(t, f.requests(), 1)
}

func TestClient_RefreshFailureFailsRequest(t *testing.T) {
	f := setupTestFixture(t, requireBearer("fresh-token"))
	f.renewer.err = &apperrors.RefreshError{Err: errors.New("cookie expired")}

	_, err := f.client.Do(context.Background(), &clients.Request{Path: "/api/siswa"})
	require.ErrorIs(t, err, apperrors.ErrRefreshFailed)
	require.Len(t, f.requests(), 1)
}

func TestClient_WithoutRenewerPassesThrough(t *testing.T) {
	f := setupTestFixture(t, requireBearer("fresh-token"))
	f.factory.SetRenewer(nil)

	_, err := f.client.Do(context.Background(), &clients.Request{Path: "/api/siswa"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	require.Equal(t, int32(0), f.renewer.calls.Load())
}

func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		message  string
		sentinel error
	}{
		{"server error hides body", http.StatusInternalServerError, `{"message":"pq: relation missing"}`, apperrors.ServerProblemMessage, apperrors.ErrServer},
		{"bad gateway", http.StatusBadGateway, `upstream`, apperrors.ServerProblemMessage, apperrors.ErrServer},
		{"validation errors", http.StatusUnprocessableEntity, `{"message":"NISN wajib diisi","errors":{"nisn":["required"]}}`, "NISN wajib diisi", apperrors.ErrValidation},
		{"error object", http.StatusBadRequest, `{"error":{"message":"Username sudah digunakan"}}`, "Username sudah digunakan", apperrors.ErrValidation},
		{"forbidden", http.StatusForbidden, `{"error":{"message":"akses ditolak"}}`, "akses ditolak", apperrors.ErrForbidden},
		{"empty body", http.StatusNotFound, ``, "Not Found", apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := f.client.Do(context.Background(), &clients.Request{Path: "/api/siswa"})
			require.ErrorIs(t, err, tt.sentinel)
			require.Equal(t, tt.message, apperrors.Message(err))
			require.Equal(t, int32(0), f.renewer.calls.Load())
		})
	}
}

func TestClient_TransportErrorPropagates(t *testing.T) {
	f := setupTestFixture(t, okHandler)
	f.server.Close()

	_, err := f.client.Do(context.Background(), &clients.Request{Path: "/api/siswa"})
	require.Error(t, err)
	var apiErr *apperrors.APIError
	require.False(t, errors.As(err, &apiErr))
}

func TestEnvelope(t *testing.T) {
	type siswa struct {
		ID   int    `json:"siswa_id"`
		Nama string `json:"nama"`
	}

	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			require.Equal(t, "2", r.URL.Query().Get("page"))
			writeJSON(w, http.StatusOK, map[string]any{
				"data": []siswa{{1, "Ani"}, {2, "Budi"}},
				"meta": map[string]int{"page": 2, "limit": 2, "total": 7, "totalPages": 4},
			})
		case http.MethodPost:
			var in siswa
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			in.ID = 9
			writeJSON(w, http.StatusCreated, map[string]any{"data": in})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	list, err := clients.Get[[]siswa](context.Background(), f.client, "/api/siswa", url.Values{"page": {"2"}})
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	require.Equal(t, &clients.Meta{Page: 2, Limit: 2, Total: 7, TotalPages: 4}, list.Meta)

	created, err := clients.Post[siswa](context.Background(), f.client, "/api/siswa", siswa{Nama: "Citra"})
	require.NoError(t, err)
	require.Equal(t, siswa{9, "Citra"}, created.Data)
	require.Nil(t, created.Meta)

	deleted, err := clients.Delete[any](context.Background(), f.client, "/api/siswa/9")
	require.NoError(t, err)
	require.Nil(t, deleted.Data)
}

func TestDecode_BadPayload(t *testing.T) {
	_, err := clients.Decode[int](&clients.Response{Status: http.StatusOK, Body: []byte(`{"data":"x"}`)})
	require.ErrorIs(t, err, apperrors.ErrBadPayload)
}
