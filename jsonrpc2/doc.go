// Package jsonrpc2 contains the JSON-RPC 2.0 message object model used by the
// client session: requests, notifications, responses and the request
// identifier type. It mirrors the wire representation defined by the JSON-RPC
// 2.0 specification while keeping the surface Go-friendly (plain exported
// structs, error-code constants, explicit parse options).
//
// The package is intentionally free of transport logic: the session package
// imports these types and implements HTTP dispatch, header handling and
// response validation on top of them.
//
// # Request Identifiers
//
// JSON-RPC 2.0 distinguishes three identifier states: a value (string, number
// or boolean), an explicit null, and an absent id field. The ID type models
// all three. An absent id is represented by a nil *ID; an explicit null by
// NullID(). The distinction matters for notifications (no id at all) and for
// the response/request matching rule implemented by the session.
//
// # Parsing
//
// ParseResponse validates structure as it decodes: the "jsonrpc" version
// member must equal "2.0" (unless relaxed via ParseOptions), and a response
// must carry exactly one of "result" or "error". Malformed input is reported
// as a *ParseError carrying the underlying decode error.
//
// Result payloads stay json.RawMessage so callers can decode into their own
// types; the original response text (and therefore its key order) is
// preserved verbatim.
package jsonrpc2
