package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockbox/stockbox-admin/internal/auth"
	"github.com/stockbox/stockbox-admin/internal/config"
	"github.com/stockbox/stockbox-admin/internal/session"
)

func init() {
	readPassword = readLine
}

// backend serves the login/logout endpoints and counts requests.
func backend(t *testing.T, loginStatus string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/api/sec/login":
			if loginStatus == "success" {
				http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc", Path: "/"})
			}
			json.NewEncoder(w).Encode(map[string]string{"status": loginStatus, "message": "bad password"}) //nolint:errcheck
		case "/api/sec/logout":
			json.NewEncoder(w).Encode(map[string]string{"status": "success"}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testConsole(t *testing.T, apiURL string) *console {
	t.Helper()
	cfg := config.Default()
	cfg.APIURL = apiURL
	cfg.DataDir = t.TempDir()
	return newConsole(cfg, session.NewMemoryStorage(), zerolog.Nop())
}

func TestLoginWritesSession(t *testing.T) {
	srv, _ := backend(t, "success")
	con := testConsole(t, srv.URL)

	var out bytes.Buffer
	err := con.runLogin(context.Background(), strings.NewReader("ops@stockbox.com\nhunter22\n"), &out, false)
	if err != nil {
		t.Fatalf("runLogin() error: %v", err)
	}
	if _, ok := con.store.Read(); !ok {
		t.Error("expected session record after login")
	}
	if !strings.Contains(out.String(), "Signed in") {
		t.Errorf("output = %q", out.String())
	}
	if !con.guard.Check().Allowed() {
		t.Error("guard should allow right after login")
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	srv, _ := backend(t, "error")
	con := testConsole(t, srv.URL)

	err := con.runLogin(context.Background(), strings.NewReader("ops@stockbox.com\nwrong\n"), &bytes.Buffer{}, false)
	if !errors.Is(err, auth.ErrLoginFailed) {
		t.Errorf("err = %v, want ErrLoginFailed", err)
	}
	if strings.Contains(err.Error(), "bad password") {
		t.Error("backend message leaked")
	}
	if _, ok := con.store.Read(); ok {
		t.Error("failed login wrote a session")
	}
}

func TestLoginMissingFieldsSkipsRequest(t *testing.T) {
	srv, hits := backend(t, "success")
	con := testConsole(t, srv.URL)

	err := con.runLogin(context.Background(), strings.NewReader("\n\n"), &bytes.Buffer{}, false)
	if !errors.Is(err, auth.ErrMissingFields) {
		t.Errorf("err = %v, want ErrMissingFields", err)
	}
	if hits.Load() != 0 {
		t.Errorf("requests = %d, want 0", hits.Load())
	}
}

func TestStatus(t *testing.T) {
	con := testConsole(t, "http://127.0.0.1:1")

	var out bytes.Buffer
	con.printStatus(&out)
	if !strings.Contains(out.String(), "stockbox login") {
		t.Errorf("signed out status = %q", out.String())
	}

	if err := con.store.Write(time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	con.printStatus(&out)
	if !strings.Contains(out.String(), "Session ends in 23h0m0s") {
		t.Errorf("signed in status = %q", out.String())
	}
}

func TestStatusExpiredClearsRecord(t *testing.T) {
	con := testConsole(t, "http://127.0.0.1:1")
	if err := con.store.Write(time.Now().Add(-25 * time.Hour)); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	con.printStatus(&out)
	if !strings.Contains(out.String(), "Session expired.") {
		t.Errorf("status = %q", out.String())
	}
	if _, ok := con.store.Read(); ok {
		t.Error("expired record should be cleared")
	}
}

func TestLogout(t *testing.T) {
	srv, hits := backend(t, "success")
	con := testConsole(t, srv.URL)

	var out bytes.Buffer
	if err := con.runLogout(context.Background(), &out); err != nil {
		t.Fatalf("runLogout() error: %v", err)
	}
	if !strings.Contains(out.String(), "Already signed out") || hits.Load() != 0 {
		t.Errorf("output = %q hits = %d", out.String(), hits.Load())
	}

	if err := con.store.Write(time.Now()); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := con.runLogout(context.Background(), &out); err != nil {
		t.Fatalf("runLogout() error: %v", err)
	}
	if !strings.Contains(out.String(), "Signed out.") {
		t.Errorf("output = %q", out.String())
	}
	if _, ok := con.store.Read(); ok {
		t.Error("session should be cleared after logout")
	}
}

func TestReadLine(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("first\r\nlast"))
	if got, _ := readLine(in); got != "first" {
		t.Errorf("readLine = %q", got)
	}
	if got, err := readLine(in); got != "last" || err != nil {
		t.Errorf("readLine without newline = %q, %v", got, err)
	}
	if _, err := readLine(in); err == nil {
		t.Error("expected EOF on empty input")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOCKBOX_CONFIG", filepath.Join(dir, "missing.toml"))
	t.Setenv("STOCKBOX_DATA_DIR", dir)

	err := run(context.Background(), []string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("err = %v", err)
	}
}

func TestPrintHelp(t *testing.T) {
	var out bytes.Buffer
	printHelp(&out)
	for _, cmd := range []string{"stockbox login", "stockbox logout", "stockbox status"} {
		if !strings.Contains(out.String(), cmd) {
			t.Errorf("help missing %q", cmd)
		}
	}
}
