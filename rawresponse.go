package jsonrpcclient

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RawResponse is an immutable snapshot of one HTTP exchange, captured before
// any JSON-RPC interpretation: status, headers and the response content. The
// content is already decompressed when the server applied gzip or deflate
// encoding; ContentEncoding still reports the encoding the server used.
type RawResponse struct {
	statusCode int
	status     string
	header     http.Header
	content    []byte
}

// newRawResponse drains and captures the body of a completed HTTP exchange.
// Error-status responses are captured like any other; the session leaves
// HTTP status semantics to the JSON-RPC layer.
func newRawResponse(resp *http.Response) (*RawResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	raw := &RawResponse{
		statusCode: resp.StatusCode,
		status:     resp.Status,
		header:     resp.Header.Clone(),
		content:    body,
	}

	switch strings.ToLower(strings.TrimSpace(raw.ContentEncoding())) {
	case "gzip":
		raw.content, err = gunzip(body)
	case "deflate":
		raw.content, err = inflate(body)
	}
	if err != nil {
		return nil, fmt.Errorf("decompress %s response body: %w", raw.ContentEncoding(), err)
	}

	return raw, nil
}

// StatusCode returns the HTTP status code.
func (r *RawResponse) StatusCode() int { return r.statusCode }

// Status returns the HTTP status line, e.g. "200 OK".
func (r *RawResponse) Status() string { return r.status }

// Header returns the response headers. Callers must not modify the map.
func (r *RawResponse) Header() http.Header { return r.header }

// Content returns the response content, decompressed if the server applied
// gzip or deflate encoding.
func (r *RawResponse) Content() []byte { return r.content }

// ContentType returns the Content-Type header value, empty when the header
// is missing.
func (r *RawResponse) ContentType() string { return r.header.Get("Content-Type") }

// ContentEncoding returns the Content-Encoding header value as reported by
// the server, regardless of the decompression already performed.
func (r *RawResponse) ContentEncoding() string { return r.header.Get("Content-Encoding") }

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// inflate handles both spellings of "deflate" seen in the wild: the RFC's
// zlib-wrapped stream and the bare DEFLATE stream some servers emit.
func inflate(data []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
		defer zr.Close()
		return io.ReadAll(zr)
	}
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	return io.ReadAll(fr)
}
