package jsonrpcclient

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Options is the plain value holder of per-session tunables. A session takes
// an options snapshot per call: replacing the options via SetOptions swaps
// the whole object by reference, so an in-flight call observes either the
// old or the new snapshot, never a partially mutated one. Do not mutate an
// Options value after handing it to a session; build a new one instead.
type Options struct {
	// ConnectTimeout bounds establishing the TCP (and TLS) connection.
	// Zero means no timeout.
	ConnectTimeout time.Duration

	// ReadTimeout bounds waiting for the response after the request has been
	// written. Zero means no timeout.
	ReadTimeout time.Duration

	// Proxy routes requests through the given HTTP proxy. Nil means a direct
	// connection.
	Proxy *url.URL

	// RequestContentType is the Content-Type header sent with requests.
	// Empty suppresses the header.
	RequestContentType string

	// AllowedResponseContentTypes is the allow-list for the response
	// Content-Type header. Media type parameters (such as charset) on the
	// response value are ignored during matching. A nil slice accepts any
	// content type, including a missing header.
	AllowedResponseContentTypes []string

	// Origin, when non-empty, is sent as the Origin request header.
	Origin string

	// EnableCompression advertises "Accept-Encoding: gzip, deflate" and
	// transparently decompresses matching response bodies.
	EnableCompression bool

	// AcceptCookies stores cookies set by the server and replays them on
	// subsequent requests.
	AcceptCookies bool

	// IgnoreVersion skips validation of the "jsonrpc" response member.
	IgnoreVersion bool

	// AllowNonStandardFields tolerates response members beyond those defined
	// by the JSON-RPC 2.0 specification.
	AllowNonStandardFields bool
}

// DefaultOptions returns the options a new session starts with: the standard
// JSON-RPC content types, no proxy, no timeouts, compression and cookies
// disabled.
func DefaultOptions() *Options {
	return &Options{
		RequestContentType: "application/json",
		AllowedResponseContentTypes: []string{
			"application/json",
			"application/json-rpc",
			"application/jsonrequest",
		},
	}
}

// envOptions mirrors Options with envdecode-friendly field types.
type envOptions struct {
	ConnectTimeout              time.Duration `env:"JSONRPC_CONNECT_TIMEOUT"`
	ReadTimeout                 time.Duration `env:"JSONRPC_READ_TIMEOUT"`
	ProxyURL                    string        `env:"JSONRPC_PROXY_URL"`
	RequestContentType          string        `env:"JSONRPC_REQUEST_CONTENT_TYPE,default=application/json"`
	AllowedResponseContentTypes string        `env:"JSONRPC_ALLOWED_RESPONSE_CONTENT_TYPES"`
	Origin                      string        `env:"JSONRPC_ORIGIN"`
	EnableCompression           bool          `env:"JSONRPC_ENABLE_COMPRESSION,default=false"`
	AcceptCookies               bool          `env:"JSONRPC_ACCEPT_COOKIES,default=false"`
	IgnoreVersion               bool          `env:"JSONRPC_IGNORE_VERSION,default=false"`
	AllowNonStandardFields      bool          `env:"JSONRPC_ALLOW_NON_STANDARD_FIELDS,default=false"`
}

// OptionsFromEnv builds an Options holder from JSONRPC_* environment
// variables, falling back to the defaults of DefaultOptions. The allow-list
// variable is a comma-separated list of media types.
func OptionsFromEnv() (*Options, error) {
	var env envOptions
	if err := envdecode.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode options from environment: %w", err)
	}

	opts := &Options{
		ConnectTimeout:         env.ConnectTimeout,
		ReadTimeout:            env.ReadTimeout,
		RequestContentType:     env.RequestContentType,
		Origin:                 env.Origin,
		EnableCompression:      env.EnableCompression,
		AcceptCookies:          env.AcceptCookies,
		IgnoreVersion:          env.IgnoreVersion,
		AllowNonStandardFields: env.AllowNonStandardFields,
	}

	if env.ProxyURL != "" {
		proxy, err := url.Parse(env.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONRPC_PROXY_URL: %w", err)
		}
		opts.Proxy = proxy
	}

	if env.AllowedResponseContentTypes == "" {
		opts.AllowedResponseContentTypes = DefaultOptions().AllowedResponseContentTypes
	} else {
		for _, ct := range strings.Split(env.AllowedResponseContentTypes, ",") {
			if ct = strings.TrimSpace(ct); ct != "" {
				opts.AllowedResponseContentTypes = append(opts.AllowedResponseContentTypes, ct)
			}
		}
	}

	return opts, nil
}
