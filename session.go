package jsonrpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ggoodman/jsonrpc-client-go/cookiestore"
	"github.com/ggoodman/jsonrpc-client-go/cookiestore/memory"
	"github.com/ggoodman/jsonrpc-client-go/internal/logctx"
	"github.com/ggoodman/jsonrpc-client-go/jsonrpc2"
)

// ConnectionConfigurator customizes each outbound HTTP request after all
// options-derived configuration has been applied, so it can override any of
// it: extra headers, basic auth, per-request tweaks.
type ConnectionConfigurator interface {
	Configure(req *http.Request)
}

// ConnectionConfiguratorFunc adapts a function to the ConnectionConfigurator
// interface.
type ConnectionConfiguratorFunc func(req *http.Request)

func (f ConnectionConfiguratorFunc) Configure(req *http.Request) { f(req) }

// RawResponseInspector observes each captured raw HTTP response before any
// cookie or validation processing. A panic or failure inside the inspector
// propagates and aborts the call.
type RawResponseInspector interface {
	Inspect(resp *RawResponse)
}

// RawResponseInspectorFunc adapts a function to the RawResponseInspector
// interface.
type RawResponseInspectorFunc func(resp *RawResponse)

func (f RawResponseInspectorFunc) Inspect(resp *RawResponse) { f(resp) }

// Session sends JSON-RPC 2.0 requests and notifications to a server endpoint
// by means of HTTP(S) POST. A session is created once per endpoint and is
// safe for concurrent use: each call works on its own connection and its own
// response snapshot, and options are swapped by reference.
type Session struct {
	log *slog.Logger

	// httpOverride, when set, bypasses transport construction entirely.
	httpOverride *http.Client

	state atomic.Pointer[connState]

	mu           sync.Mutex
	url          *url.URL
	configurator ConnectionConfigurator
	inspector    RawResponseInspector
	cookies      cookiestore.Store
}

// Option configures a Session at construction time.
type Option func(*newConfig)

type newConfig struct {
	logger       *slog.Logger
	options      *Options
	configurator ConnectionConfigurator
	inspector    RawResponseInspector
	cookies      cookiestore.Store
	httpClient   *http.Client
}

// WithLogger sets the slog logger used by the session. If not provided, logs
// are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *newConfig) { c.logger = logger }
}

// WithOptions sets the initial session options instead of DefaultOptions.
func WithOptions(opts *Options) Option {
	return func(c *newConfig) { c.options = opts }
}

// WithConnectionConfigurator installs a connection configurator.
func WithConnectionConfigurator(cc ConnectionConfigurator) Option {
	return func(c *newConfig) { c.configurator = cc }
}

// WithRawResponseInspector installs a raw response inspector.
func WithRawResponseInspector(ri RawResponseInspector) Option {
	return func(c *newConfig) { c.inspector = ri }
}

// WithCookieStore replaces the default in-memory cookie store. The store is
// only consulted when the options enable cookie acceptance.
func WithCookieStore(store cookiestore.Store) Option {
	return func(c *newConfig) { c.cookies = store }
}

// WithHTTPClient replaces the options-derived HTTP client wholesale. Timeout
// and proxy options no longer apply; header handling is unaffected. Intended
// for tests and callers with bespoke transport needs.
func WithHTTPClient(client *http.Client) Option {
	return func(c *newConfig) { c.httpClient = client }
}

// New creates a client session to a JSON-RPC 2.0 server at the given
// endpoint URL. The URL scheme must be http or https.
func New(endpoint string, opts ...Option) (*Session, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	var cfg newConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.options == nil {
		cfg.options = DefaultOptions()
	}

	s := &Session{
		log:          logctx.Wrap(cfg.logger),
		httpOverride: cfg.httpClient,
		url:          u,
		configurator: cfg.configurator,
		inspector:    cfg.inspector,
		cookies:      cfg.cookies,
	}
	s.state.Store(newConnState(cfg.options, cfg.httpClient))

	return s, nil
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, errors.New("the server URL scheme must be HTTP or HTTPS")
	}
	return u, nil
}

// URL returns the server endpoint URL.
func (s *Session) URL() *url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// SetURL replaces the server endpoint URL. The scheme must be http or https.
func (s *Session) SetURL(endpoint string) error {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = u
	return nil
}

// Options returns the current session options. The returned value must not
// be mutated; build a new Options and call SetOptions instead.
func (s *Session) Options() *Options {
	return s.state.Load().opts
}

// SetOptions replaces the session options. In-flight calls keep the snapshot
// they started with.
func (s *Session) SetOptions(opts *Options) error {
	if opts == nil {
		return errors.New("the session options must not be nil")
	}
	s.state.Store(newConnState(opts, s.httpOverride))
	return nil
}

// ConnectionConfigurator returns the installed connection configurator, nil
// if none is set.
func (s *Session) ConnectionConfigurator() ConnectionConfigurator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configurator
}

// SetConnectionConfigurator installs a connection configurator, nil to remove
// a previously set one.
func (s *Session) SetConnectionConfigurator(cc ConnectionConfigurator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configurator = cc
}

// RawResponseInspector returns the installed raw response inspector, nil if
// none is set.
func (s *Session) RawResponseInspector() RawResponseInspector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inspector
}

// SetRawResponseInspector installs a raw response inspector, nil to remove a
// previously set one.
func (s *Session) SetRawResponseInspector(ri RawResponseInspector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inspector = ri
}

// Cookies returns the non-expired cookies currently held for the session
// endpoint, empty if none were set by the server or cookies are not
// accepted.
func (s *Session) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	s.mu.Lock()
	store := s.cookies
	u := s.url
	s.mu.Unlock()

	if store == nil {
		return nil, nil
	}
	return store.Cookies(ctx, u)
}

// cookieStore returns the session's cookie store, creating the default
// in-memory store on first need.
func (s *Session) cookieStore() (cookiestore.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cookies == nil {
		store, err := memory.New()
		if err != nil {
			return nil, err
		}
		s.cookies = store
	}
	return s.cookies, nil
}

// Send dispatches a JSON-RPC 2.0 request and returns the validated server
// response. Failures are reported as *SessionError: network failures,
// content-type enforcement failures and invalid responses (parse failures
// and identifier mismatches).
func (s *Session) Send(ctx context.Context, req *jsonrpc2.Request) (*jsonrpc2.Response, error) {
	if req == nil {
		return nil, errors.New("the request must not be nil")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{
		Method: req.Method,
		ID:     req.ID.String(),
		Type:   "request",
	})

	st := s.state.Load()

	raw, err := s.roundTrip(ctx, st, body)
	if err != nil {
		return nil, err
	}

	if contentType := raw.ContentType(); !st.allowsContentType(contentType) {
		var msg string
		if contentType == "" {
			msg = "missing Content-Type header in the HTTP response"
		} else {
			msg = fmt.Sprintf("unexpected %q content type of the HTTP response", contentType)
		}
		return nil, newContentTypeError(msg)
	}

	resp, err := jsonrpc2.ParseResponse(raw.Content(), jsonrpc2.ParseOptions{
		IgnoreVersion:          st.opts.IgnoreVersion,
		AllowNonStandardFields: st.opts.AllowNonStandardFields,
	})
	if err != nil {
		return nil, newBadResponseError("invalid JSON-RPC 2.0 response", err)
	}

	if err := matchIDs(req.ID, resp); err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "request completed", slog.Bool("success", resp.IndicatesSuccess()))

	return resp, nil
}

// Call builds a request with a generated identifier and sends it.
func (s *Session) Call(ctx context.Context, method string, params any) (*jsonrpc2.Response, error) {
	return s.Send(ctx, jsonrpc2.NewRequestWithAutoID(method, params))
}

// Notify dispatches a JSON-RPC 2.0 notification. Notifications produce no
// server response; Notify returns once the POST has completed, or a
// *SessionError on network failure.
func (s *Session) Notify(ctx context.Context, n *jsonrpc2.Notification) error {
	if n == nil {
		return errors.New("the notification must not be nil")
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{
		Method: n.Method,
		Type:   "notification",
	})

	_, err = s.roundTrip(ctx, s.state.Load(), body)
	return err
}

// roundTrip performs one HTTP POST exchange: request assembly and header
// application, dispatch, raw response capture, inspection and cookie merge.
// The response body is always released, success or failure, so the
// underlying connection can be reused.
func (s *Session) roundTrip(ctx context.Context, st *connState, body []byte) (*RawResponse, error) {
	s.mu.Lock()
	u := s.url
	configurator := s.configurator
	inspector := s.inspector
	s.mu.Unlock()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, newNetworkError("network error: "+err.Error(), err)
	}

	if err := s.applyHeaders(ctx, httpReq, st, u); err != nil {
		return nil, err
	}

	// The configurator runs last so it can override anything derived from
	// the session options.
	if configurator != nil {
		configurator.Configure(httpReq)
	}

	resp, err := st.client.Do(httpReq)
	if err != nil {
		return nil, newNetworkError("network error: "+err.Error(), err)
	}
	defer s.closeBody(ctx, resp.Body)

	raw, err := newRawResponse(resp)
	if err != nil {
		return nil, newNetworkError("network error: "+err.Error(), err)
	}

	if inspector != nil {
		inspector.Inspect(raw)
	}

	if st.opts.AcceptCookies {
		store, err := s.cookieStore()
		if err != nil {
			return nil, newNetworkError("network error: "+err.Error(), err)
		}
		cookies := (&http.Response{Header: raw.Header()}).Cookies()
		if err := store.SetCookies(ctx, u, cookies); err != nil {
			return nil, newNetworkError("network error: "+err.Error(), err)
		}
	}

	return raw, nil
}

// applyHeaders sets the outbound headers derived from the options snapshot.
func (s *Session) applyHeaders(ctx context.Context, req *http.Request, st *connState, u *url.URL) error {
	// Expect UTF-8 for JSON.
	req.Header.Set("Accept-Charset", "UTF-8")

	if st.opts.RequestContentType != "" {
		req.Header.Set("Content-Type", st.opts.RequestContentType)
	}

	if st.opts.Origin != "" {
		req.Header.Set("Origin", st.opts.Origin)
	}

	if st.opts.EnableCompression {
		req.Header.Set("Accept-Encoding", "gzip, deflate")
	}

	if st.opts.AcceptCookies {
		store, err := s.cookieStore()
		if err != nil {
			return newNetworkError("network error: "+err.Error(), err)
		}
		cookies, err := store.Cookies(ctx, u)
		if err != nil {
			return newNetworkError("network error: "+err.Error(), err)
		}
		parts := make([]string, 0, len(cookies))
		for _, c := range cookies {
			parts = append(parts, c.String())
		}
		req.Header.Set("Cookie", strings.Join(parts, "; "))
	}

	return nil
}

// closeBody releases the response body. A close failure never replaces the
// call's result; it is logged and swallowed.
func (s *Session) closeBody(ctx context.Context, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		s.log.WarnContext(ctx, "failed to close response body", slog.String("err", err.Error()))
	}
}

// matchIDs enforces the JSON-RPC 2.0 identifier correspondence rule. The
// response identifier must match the request identifier, except for error
// responses with codes -32700 (parse error), -32600 (invalid request) and
// -32603 (internal error), which the server may emit before it can know the
// request identifier. An absent identifier and an explicit null normalize to
// the same state on both sides.
func matchIDs(reqID *jsonrpc2.ID, resp *jsonrpc2.Response) error {
	resID := resp.ID

	switch {
	case !reqID.IsNull() && !resID.IsNull() && reqID.String() == resID.String():
		return nil
	case reqID.IsNull() && resID.IsNull():
		return nil
	case !resp.IndicatesSuccess() &&
		(resp.Error.Code == jsonrpc2.ErrorCodeParseError ||
			resp.Error.Code == jsonrpc2.ErrorCodeInvalidRequest ||
			resp.Error.Code == jsonrpc2.ErrorCodeInternalError):
		return nil
	default:
		return newBadResponseError(fmt.Sprintf(
			"invalid JSON-RPC 2.0 response: id mismatch: returned %s, expected %s", resID, reqID), nil)
	}
}
