// Package jsonrpcclient implements a client-side transport for the JSON-RPC
// 2.0 protocol carried over HTTP(S). A Session turns request and notification
// objects into HTTP POSTs against a fixed server endpoint, manages the
// per-session HTTP concerns (timeouts, proxying, custom request tuning,
// cookies, compression negotiation, content-type enforcement) and turns the
// raw HTTP response back into a validated jsonrpc2.Response — or a typed
// *SessionError.
//
// # Sessions
//
// A Session is created once per server endpoint and reused across many
// calls. It is safe for concurrent use: every call operates on its own
// connection and raw-response snapshot. Tunables live in an Options holder
// that is swapped wholesale via SetOptions; an in-flight call observes
// either the old or the new snapshot, never a torn one.
//
//	session, err := jsonrpcclient.New("http://jsonrpc.example.com:8080")
//	if err != nil {
//		// handle error...
//	}
//
//	req := jsonrpc2.NewRequest("getServerTime", nil, jsonrpc2.NumberID(0))
//	resp, err := session.Send(ctx, req)
//	if err != nil {
//		// handle *SessionError...
//	}
//	if resp.IndicatesSuccess() {
//		// decode resp.Result
//	}
//
// # Validation
//
// Responses pass three checks before they are returned: the Content-Type
// header must be present and in the configured allow-list, the body must
// parse as a JSON-RPC 2.0 response object, and the response identifier must
// correspond to the request identifier. The identifier rule tolerates
// mismatches on error responses with codes -32700, -32600 and -32603, which
// the protocol defines as failures the server may report before it knows the
// request identifier.
//
// # Failure Taxonomy
//
// Every failure surfaces synchronously as a *SessionError tagged with one of
// three kinds: network, unexpected content type, or bad response. The
// exported sentinels ErrNetwork, ErrUnexpectedContentType and ErrBadResponse
// support errors.Is branching; nothing is retried or downgraded internally.
//
// # Capabilities
//
// Two optional single-method collaborators hook into each exchange: a
// ConnectionConfigurator customizes the outbound request after all
// options-derived configuration (so it can override any of it), and a
// RawResponseInspector observes every captured raw response before cookie
// and validation processing.
//
// # Cookies
//
// When the options enable cookie acceptance, Set-Cookie response headers are
// merged into a cookiestore.Store and replayed as a Cookie header on
// subsequent requests. The default store is in-process
// (cookiestore/memory); cookiestore/redis shares cookies across processes.
// Cookie persistence is a strict dependency: a merge failure fails the call.
package jsonrpcclient
