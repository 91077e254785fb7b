package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"8080":           ":8080",
		":8080":          ":8080",
		"127.0.0.1:9000": "127.0.0.1:9000",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStartServeShutdown(t *testing.T) {
	var s Server
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	if err := s.Start("127.0.0.1:0", h); err != nil {
		t.Fatalf("Start: %v", err)
	}
	addr := s.Addr()
	if addr == "" {
		t.Fatalf("expected bound address")
	}

	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "pong" {
		t.Fatalf("body = %q", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if s.Addr() != "" {
		t.Fatalf("address should reset after shutdown")
	}
	// second shutdown is a no-op
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

func TestStart_BindError(t *testing.T) {
	var a, b Server
	h := http.NotFoundHandler()
	if err := a.Start("127.0.0.1:0", h); err != nil {
		t.Fatalf("Start a: %v", err)
	}
	defer func() { _ = a.Shutdown(context.Background()) }()

	if err := b.Start(a.Addr(), h); err == nil {
		_ = b.Shutdown(context.Background())
		t.Fatalf("expected bind error on busy address")
	}
}
