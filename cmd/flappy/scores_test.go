package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
	"github.com/vovakirdan/flappy-arcade/internal/storage"
)

func TestPrintGlobal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"leaderboard":[{"wallet":"0xAB...CDEF","score":31}],"globalHighScore":31}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	client := leaderboard.NewClient(srv.URL, time.Second)
	if err := printGlobal(context.Background(), &out, client); err != nil {
		t.Fatalf("printGlobal: %v", err)
	}
	for _, want := range []string{"0xAB...CDEF", "31", "Global high score: 31"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrintLocal(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	var out bytes.Buffer
	if err := printLocal(&out, store, ""); err != nil {
		t.Fatalf("printLocal empty: %v", err)
	}
	if !strings.Contains(out.String(), "No runs recorded yet.") {
		t.Errorf("empty output:\n%s", out.String())
	}

	if _, err := store.SaveRun("bob", 14, 500); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	out.Reset()
	if err := printLocal(&out, store, ""); err != nil {
		t.Fatalf("printLocal: %v", err)
	}
	if !strings.Contains(out.String(), "bob") || !strings.Contains(out.String(), "Best: 14") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestPrintLocalIdentity(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	for _, score := range []int{4, 10} {
		if _, err := store.SaveRun("alice", score, 100); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	var out bytes.Buffer
	if err := printLocal(&out, store, "alice"); err != nil {
		t.Fatalf("printLocal: %v", err)
	}
	for _, want := range []string{"Runs: 2", "Best: 10", "Average: 7.0", "Recent:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := printLocal(&out, store, "carol"); err != nil {
		t.Fatalf("printLocal: %v", err)
	}
	if !strings.Contains(out.String(), "carol\n  No runs recorded yet.") {
		t.Errorf("unknown identity output:\n%s", out.String())
	}
}

func TestClearLocal(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	for _, id := range []string{"alice", "anonymous", "bob"} {
		if _, err := store.SaveRun(id, 5, 100); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	tests := []struct {
		identity string
		cleared  string
	}{
		{"alice", "alice"},
		{"", "anonymous"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if err := clearLocal(&out, store, tt.identity); err != nil {
			t.Fatalf("clearLocal(%q): %v", tt.identity, err)
		}
		if !strings.Contains(out.String(), tt.cleared) {
			t.Errorf("clearLocal(%q) output: %s", tt.identity, out.String())
		}
		stats, err := store.IdentityStats(tt.cleared)
		if err != nil {
			t.Fatalf("IdentityStats: %v", err)
		}
		if stats.Runs != 0 {
			t.Errorf("%s still has %d runs", tt.cleared, stats.Runs)
		}
	}

	if best, _ := store.BestScore("bob"); best != 5 {
		t.Errorf("other identities should be untouched, bob best = %d", best)
	}
}
