package memory

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestStore_SetAndGet(t *testing.T) {
	t.Parallel()

	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	u, _ := url.Parse("http://rpc.example.com/api")

	if err := s.SetCookies(ctx, u, []*http.Cookie{{Name: "session", Value: "abc", Path: "/"}}); err != nil {
		t.Fatalf("SetCookies: %v", err)
	}

	cookies, err := s.Cookies(ctx, u)
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if len(cookies) != 1 || cookies[0].Name != "session" || cookies[0].Value != "abc" {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
}

func TestStore_ExpiredCookiesDropped(t *testing.T) {
	t.Parallel()

	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	u, _ := url.Parse("http://rpc.example.com/")

	expired := &http.Cookie{Name: "gone", Value: "x", Path: "/", Expires: time.Now().Add(-time.Hour)}
	if err := s.SetCookies(ctx, u, []*http.Cookie{expired}); err != nil {
		t.Fatalf("SetCookies: %v", err)
	}

	cookies, err := s.Cookies(ctx, u)
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if len(cookies) != 0 {
		t.Fatalf("expired cookies must not be returned, got %+v", cookies)
	}
}

func TestStore_ScopedByHost(t *testing.T) {
	t.Parallel()

	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	a, _ := url.Parse("http://a.example.com/")
	b, _ := url.Parse("http://b.example.org/")

	if err := s.SetCookies(ctx, a, []*http.Cookie{{Name: "k", Value: "v", Path: "/"}}); err != nil {
		t.Fatalf("SetCookies: %v", err)
	}

	cookies, err := s.Cookies(ctx, b)
	if err != nil {
		t.Fatalf("Cookies: %v", err)
	}
	if len(cookies) != 0 {
		t.Fatalf("cookies must not leak across hosts, got %+v", cookies)
	}
}
