// Package memory provides the default in-process cookie store backed by
// net/http/cookiejar with an accept-all policy.
package memory

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// Store is an in-memory cookie store. It is safe for concurrent use.
type Store struct {
	jar *cookiejar.Jar
}

// New creates an empty in-memory cookie store. No public suffix list is
// consulted; every cookie the server sets is accepted.
func New() (*Store, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Store{jar: jar}, nil
}

// SetCookies merges response cookies for the given request URL.
func (s *Store) SetCookies(_ context.Context, u *url.URL, cookies []*http.Cookie) error {
	s.jar.SetCookies(u, cookies)
	return nil
}

// Cookies returns the non-expired cookies applicable to the given URL.
func (s *Store) Cookies(_ context.Context, u *url.URL) ([]*http.Cookie, error) {
	return s.jar.Cookies(u), nil
}
