package jsonrpcclient

import (
	"net"
	"net/http"
	"net/url"

	"github.com/elnormous/contenttype"
)

// defaultMaxIdleConnsPerHost is a reasonable pool size for a client that
// talks to a single endpoint.
const defaultMaxIdleConnsPerHost = 32

// connState is the immutable per-options snapshot a call operates on: the
// options themselves, the HTTP client derived from them and the pre-parsed
// content-type allow-list. SetOptions swaps the whole snapshot atomically.
type connState struct {
	opts    *Options
	client  *http.Client
	allowed []contenttype.MediaType
}

func newConnState(opts *Options, override *http.Client) *connState {
	st := &connState{opts: opts}

	if override != nil {
		st.client = override
	} else {
		st.client = &http.Client{Transport: newTransport(opts)}
	}

	if opts.AllowedResponseContentTypes != nil {
		st.allowed = make([]contenttype.MediaType, 0, len(opts.AllowedResponseContentTypes))
		for _, ct := range opts.AllowedResponseContentTypes {
			st.allowed = append(st.allowed, contenttype.NewMediaType(ct))
		}
	}

	return st
}

// newTransport derives an HTTP transport from the options snapshot. The
// session negotiates content encoding itself, so the transport's automatic
// gzip handling is disabled. The underlying connections stay pooled for
// keep-alive; the session only ever releases the response body.
func newTransport(opts *Options) *http.Transport {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}

	tr := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ReadTimeout,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		DisableCompression:    true,
		ForceAttemptHTTP2:     true,
	}

	if opts.Proxy != nil {
		proxy := *opts.Proxy
		tr.Proxy = func(*http.Request) (*url.URL, error) { return &proxy, nil }
	}

	return tr
}

// allowsContentType checks a response Content-Type header value against the
// allow-list. A nil allow-list accepts anything, including a missing header.
// Media type parameters such as charset are ignored during matching.
func (st *connState) allowsContentType(value string) bool {
	if st.opts.AllowedResponseContentTypes == nil {
		return true
	}
	if value == "" {
		return false
	}

	probe := &http.Request{Header: http.Header{"Content-Type": []string{value}}}
	ctype, err := contenttype.GetMediaType(probe)
	if err != nil {
		return false
	}
	for _, allowed := range st.allowed {
		if ctype.Matches(allowed) {
			return true
		}
	}
	return false
}
