// Package redis provides a Redis-backed cookie store so that a logical
// client session can be shared by multiple processes. Cookies are kept in one
// hash per endpoint host; expired entries are dropped lazily on read.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
)

// Config contains configuration options for the Redis cookie store. Defaults
// can be loaded via envdecode.
type Config struct {
	// Client is the Redis client instance. When nil, one is created from
	// RedisAddr.
	Client *redis.Client

	// RedisAddr like "localhost:6379". ENV: REDIS_ADDR
	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`

	// KeyPrefix for all keys. ENV: JSONRPC_COOKIES_KEY_PREFIX
	KeyPrefix string `env:"JSONRPC_COOKIES_KEY_PREFIX,default=jsonrpc:cookies:"`
}

// Store implements cookiestore.Store on top of Redis.
type Store struct {
	client    *redis.Client
	keyPrefix string
}

// storedCookie is the structure stored per hash field.
type storedCookie struct {
	Name     string     `json:"name"`
	Value    string     `json:"value"`
	Path     string     `json:"path,omitempty"`
	Domain   string     `json:"domain,omitempty"`
	Secure   bool       `json:"secure,omitempty"`
	HTTPOnly bool       `json:"http_only,omitempty"`
	Expires  *time.Time `json:"expires,omitempty"`
}

// New creates a Redis-backed cookie store.
func New(cfg Config) (*Store, error) {
	client := cfg.Client
	if client == nil {
		addr := cfg.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		client = redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "jsonrpc:cookies:"
	}
	return &Store{client: client, keyPrefix: prefix}, nil
}

// NewFromEnv builds a Store using envdecode to populate Config.
func NewFromEnv() (*Store, error) {
	var cfg Config
	// Defaults are provided via struct tags.
	_ = envdecode.Decode(&cfg)
	return New(cfg)
}

// Close closes the Redis client.
func (s *Store) Close() error { return s.client.Close() }

func (s *Store) hostKey(host string) string {
	return s.keyPrefix + strings.ToLower(host)
}

func cookieField(name, domain, path string) string {
	return name + "|" + strings.ToLower(domain) + "|" + path
}

// SetCookies merges response cookies for the given request URL.
func (s *Store) SetCookies(ctx context.Context, u *url.URL, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}

	key := s.hostKey(u.Hostname())
	pipe := s.client.Pipeline()
	now := time.Now()

	for _, c := range cookies {
		domain := c.Domain
		if domain == "" {
			domain = u.Hostname()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		field := cookieField(c.Name, domain, path)

		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!expires.IsZero() && !expires.After(now)) {
			pipe.HDel(ctx, key, field)
			continue
		}

		sc := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     path,
			Domain:   domain,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
		if !expires.IsZero() {
			sc.Expires = &expires
		}

		data, err := json.Marshal(sc)
		if err != nil {
			return fmt.Errorf("failed to marshal cookie %q: %w", c.Name, err)
		}
		pipe.HSet(ctx, key, field, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store cookies for %s: %w", u.Hostname(), err)
	}
	return nil
}

// Cookies returns the non-expired cookies applicable to the given URL.
// Expired entries encountered along the way are deleted.
func (s *Store) Cookies(ctx context.Context, u *url.URL) ([]*http.Cookie, error) {
	key := s.hostKey(u.Hostname())

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load cookies for %s: %w", u.Hostname(), err)
	}

	now := time.Now()
	var out []*http.Cookie

	for field, raw := range fields {
		var sc storedCookie
		if err := json.Unmarshal([]byte(raw), &sc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stored cookie: %w", err)
		}

		if sc.Expires != nil && !sc.Expires.After(now) {
			s.client.HDel(ctx, key, field)
			continue
		}
		if !domainMatches(u.Hostname(), sc.Domain) || !pathMatches(u.Path, sc.Path) {
			continue
		}
		if sc.Secure && u.Scheme != "https" {
			continue
		}

		out = append(out, &http.Cookie{Name: sc.Name, Value: sc.Value})
	}

	return out, nil
}

func domainMatches(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func pathMatches(reqPath, cookiePath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}
	if cookiePath == "" || cookiePath == "/" {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return len(reqPath) == len(cookiePath) ||
		strings.HasSuffix(cookiePath, "/") ||
		reqPath[len(cookiePath)] == '/'
}
