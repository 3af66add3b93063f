package upload

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meltforce/gymtrack/internal/ingest"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func newClient(url, key string) *Client {
	c := NewClient(url, key)
	c.backoff = time.Millisecond
	return c
}

// TestSendAlpha verifies the CSV body, path and API key header reach the server.
func TestSendAlpha(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathAlpha {
			t.Errorf("path = %s, want %s", r.URL.Path, PathAlpha)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("api key = %q, want secret", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "csv-data" {
			t.Errorf("body = %q", body)
		}
		json.NewEncoder(w).Encode(ingest.Result{SessionsReceived: 2, WorkoutsInserted: 2})
	}))
	defer ts.Close()

	res, err := newClient(ts.URL+"/", "secret").SendAlpha(context.Background(), []byte("csv-data"))
	if err != nil {
		t.Fatal(err)
	}
	if res.WorkoutsInserted != 2 {
		t.Errorf("inserted = %d, want 2", res.WorkoutsInserted)
	}
}

// TestSendRetriesServerErrors verifies 5xx responses are retried.
func TestSendRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"workouts": 4})
	}))
	defer ts.Close()

	counts, err := newClient(ts.URL, "").SendBackup(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if counts["workouts"] != 4 {
		t.Errorf("workouts = %d, want 4", counts["workouts"])
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

// TestSendClientErrorNoRetry verifies 4xx responses fail immediately.
func TestSendClientErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	if _, err := newClient(ts.URL, "wrong").SendAlpha(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error for 403")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

// TestUploaderSkipsUploadedFiles verifies the state DB prevents re-sending
// unchanged files and that changed files are sent again.
func TestUploaderSkipsUploadedFiles(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(ingest.Result{WorkoutsInserted: 1})
	}))
	defer ts.Close()

	dir := t.TempDir()
	state, err := OpenStateDB(filepath.Join(dir, "state"))
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	file := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(file, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	u := New(newClient(ts.URL, ""), state, FormatAlpha, false, false, discardLog)
	ctx := context.Background()

	stats, err := u.Run(ctx, []string{file})
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSent != 1 || stats.WorkoutsInserted != 1 {
		t.Errorf("first run stats = %+v", stats)
	}

	stats, err = u.Run(ctx, []string{file})
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 1 || stats.FilesSent != 0 {
		t.Errorf("second run stats = %+v, want skipped", stats)
	}

	if err := os.WriteFile(file, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	stats, err = u.Run(ctx, []string{file})
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSent != 1 {
		t.Errorf("changed file stats = %+v, want sent", stats)
	}
	if calls.Load() != 2 {
		t.Errorf("server calls = %d, want 2", calls.Load())
	}
}

// TestUploaderDryRun verifies nothing is sent or recorded in dry-run mode.
func TestUploaderDryRun(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called in dry run")
	}))
	defer ts.Close()

	dir := t.TempDir()
	file := filepath.Join(dir, "backup.json")
	if err := os.WriteFile(file, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := New(newClient(ts.URL, ""), nil, FormatBackup, true, false, discardLog).
		Run(context.Background(), []string{file, filepath.Join(dir, "missing.json")})
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSent != 1 || stats.FilesErrored != 1 {
		t.Errorf("stats = %+v, want 1 sent, 1 errored", stats)
	}
}

// TestUploaderUnknownFormat verifies an unsupported format is rejected up front.
func TestUploaderUnknownFormat(t *testing.T) {
	u := New(NewClient("http://example.invalid", ""), nil, Format("hae"), false, false, discardLog)
	if _, err := u.Run(context.Background(), nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
