// Package cookiestore defines the pluggable cookie persistence interface used
// by the client session when cookie acceptance is enabled. Cookies set by the
// server via Set-Cookie headers are merged into a store keyed by the request
// URL and replayed on subsequent requests.
//
// Implementations
//
//	memory : in-process jar used by default, suitable for a single process
//	redis  : Redis-backed store for sessions shared across processes
//
// The interface is deliberately error-returning, unlike net/http.CookieJar:
// the session treats a cookie-merge failure as a fatal network failure for
// the in-flight call rather than best-effort state.
package cookiestore

import (
	"context"
	"net/http"
	"net/url"
)

// Store persists HTTP cookies across calls of a client session.
type Store interface {
	// SetCookies merges the cookies received in a response to a request made
	// to u, replacing entries with the same name, domain and path and
	// honoring expiry attributes.
	SetCookies(ctx context.Context, u *url.URL, cookies []*http.Cookie) error

	// Cookies returns the non-expired cookies to send with a request to u.
	Cookies(ctx context.Context, u *url.URL) ([]*http.Cookie, error)
}
