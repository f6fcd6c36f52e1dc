package oauth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type staticSource struct {
	tokens []string
	next   int
	forced int
}

func (s *staticSource) Token(ctx context.Context) (*Token, error) {
	return &Token{AccessToken: s.tokens[s.next]}, nil
}

func (s *staticSource) ForceRefresh(ctx context.Context) (*Token, error) {
	s.forced++
	if s.next < len(s.tokens)-1 {
		s.next++
	}
	return &Token{AccessToken: s.tokens[s.next]}, nil
}

func TestTransport_InjectsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-a" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(&staticSource{tokens: []string{"tok-a"}})
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestTransport_RetriesOnceOn401(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("Authorization") == "Bearer stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	src := &staticSource{tokens: []string{"stale", "fresh"}}
	client := NewClient(src)

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
	if requests != 2 {
		t.Errorf("server saw %d requests, want 2", requests)
	}
	if src.forced != 1 {
		t.Errorf("ForceRefresh called %d times, want 1", src.forced)
	}
}

func TestTransport_RetryReplaysRequestBody(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if r.Header.Get("Authorization") == "Bearer stale" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	src := &staticSource{tokens: []string{"stale", "fresh"}}
	client := NewClient(src)

	payload := `{"description":"Great run today"}`
	req, err := http.NewRequest("PUT", server.URL, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(bodies) != 2 {
		t.Fatalf("server saw %d requests, want 2", len(bodies))
	}
	if bodies[1] != payload {
		t.Errorf("retried body = %q, want %q", bodies[1], payload)
	}
}

func TestTransport_PersistentUnauthorized(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	src := &staticSource{tokens: []string{"stale"}}
	client := NewClient(src)

	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer resp.Body.Close()

	// Exactly one force refresh and one retry; the second 401 is returned.
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if requests != 2 {
		t.Errorf("server saw %d requests, want 2", requests)
	}
}
