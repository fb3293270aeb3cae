package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockbox/stockbox-admin/internal/session"
	"github.com/stockbox/stockbox-admin/pkg/client"
	"github.com/stockbox/stockbox-admin/pkg/domain"
)

type stubBackend struct {
	loginRes  *domain.StatusResponse
	loginErr  error
	logoutRes *domain.StatusResponse
	logoutErr error
	calls     int
	lastReq   client.LoginRequest
}

func (s *stubBackend) Login(_ context.Context, req client.LoginRequest) (*domain.StatusResponse, error) {
	s.calls++
	s.lastReq = req
	return s.loginRes, s.loginErr
}

func (s *stubBackend) Logout(context.Context) (*domain.StatusResponse, error) {
	return s.logoutRes, s.logoutErr
}

var fixedNow = time.UnixMilli(1_760_000_000_000)

func newFlow(b Backend) (*Flow, *session.Store) {
	store := session.NewStore(session.NewMemoryStorage(), zerolog.Nop())
	return NewFlow(b, store, func() time.Time { return fixedNow }, zerolog.Nop()), store
}

func TestLoginSuccessWritesSession(t *testing.T) {
	b := &stubBackend{loginRes: &domain.StatusResponse{Status: "success"}}
	flow, store := newFlow(b)

	err := flow.Login(context.Background(), Credentials{Email: "admin@stockbox.in", Password: "pw", RememberMe: true})
	require.NoError(t, err)

	rec, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, fixedNow.UnixMilli(), rec.Timestamp)
	assert.True(t, b.lastReq.RememberMe)
}

func TestLoginMissingFields(t *testing.T) {
	b := &stubBackend{}
	flow, store := newFlow(b)

	for _, creds := range []Credentials{{}, {Email: "a@b.c"}, {Password: "pw"}} {
		err := flow.Login(context.Background(), creds)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
	assert.Zero(t, b.calls, "no request without both fields")
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestLoginNonSuccessStatus(t *testing.T) {
	b := &stubBackend{loginRes: &domain.StatusResponse{Status: "fail", Message: "bad password"}}
	flow, store := newFlow(b)

	err := flow.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, ErrLoginFailed)
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestLoginBackendError(t *testing.T) {
	cause := &client.HTTPError{StatusCode: 401, Message: "Invalid credentials"}
	b := &stubBackend{loginErr: cause}
	flow, _ := newFlow(b)

	err := flow.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, ErrLoginFailed)
	var httpErr *client.HTTPError
	assert.True(t, errors.As(err, &httpErr))
}

func TestLogout(t *testing.T) {
	b := &stubBackend{logoutRes: &domain.StatusResponse{Status: "success"}}
	flow, store := newFlow(b)
	require.NoError(t, store.Write(fixedNow))

	require.NoError(t, flow.Logout(context.Background()))
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestLogoutNotConfirmedKeepsSession(t *testing.T) {
	b := &stubBackend{logoutRes: &domain.StatusResponse{Status: "error"}}
	flow, store := newFlow(b)
	require.NoError(t, store.Write(fixedNow))

	assert.ErrorIs(t, flow.Logout(context.Background()), ErrLogoutFailed)
	_, ok := store.Read()
	assert.True(t, ok)
}

// TestLoginThenServerInvalidation runs the whole lifecycle against a fake
// backend: login writes the record, a token failure on a later call clears it.
func TestLoginThenServerInvalidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sec/login":
			json.NewEncoder(w).Encode(domain.StatusResponse{Status: "success"}) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Token expired"}) //nolint:errcheck
		}
	}))
	defer srv.Close()

	store := session.NewStore(session.NewMemoryStorage(), zerolog.Nop())
	c := client.New(srv.URL, client.WithInvalidator(store))
	flow := NewFlow(c, store, func() time.Time { return fixedNow }, zerolog.Nop())

	require.NoError(t, flow.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"}))
	_, ok := store.Read()
	require.True(t, ok)

	_, err := c.ListJobs(context.Background())
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindUnauthenticated))
	_, ok = store.Read()
	assert.False(t, ok)
}

func TestLoginOverCorruptStorageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.StatusResponse{Status: "success"}) //nolint:errcheck
	}))
	defer srv.Close()

	store := session.NewStore(session.NewFileStorage(path, zerolog.Nop()), zerolog.Nop())
	guard := session.NewGuard(store, zerolog.Nop(), session.WithClock(func() time.Time { return fixedNow }))
	require.False(t, guard.Check().Allowed())

	flow := NewFlow(client.New(srv.URL), store, func() time.Time { return fixedNow }, zerolog.Nop())
	require.NoError(t, flow.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"}))
	assert.Equal(t, session.Allow, guard.Check().Decision)
}
