package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ProtocolVersion is the supported JSON-RPC protocol version.
const ProtocolVersion = "2.0"

// Request is a JSON-RPC 2.0 request: a method invocation that expects a
// response correlated by its identifier.
type Request struct {
	Method string
	Params any
	ID     *ID
}

// NewRequest builds a request with the given identifier. A nil id produces a
// request whose id field is absent from the wire form; use NullID() for an
// explicit null.
func NewRequest(method string, params any, id *ID) *Request {
	return &Request{Method: method, Params: params, ID: id}
}

// NewRequestWithAutoID builds a request with a generated UUID string
// identifier, for callers that do not track identifiers themselves.
func NewRequestWithAutoID(method string, params any) *Request {
	return &Request{Method: method, Params: params, ID: StringID(uuid.NewString())}
}

// Notification is a JSON-RPC 2.0 notification: a method invocation that
// carries no identifier and expects no response.
type Notification struct {
	Method string
	Params any
}

// NewNotification builds a notification.
func NewNotification(method string, params any) *Notification {
	return &Notification{Method: method, Params: params}
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result or Error is set.
// Result stays raw so callers decide how to decode it.
type Response struct {
	Result json.RawMessage
	Error  *Error
	ID     *ID
}

// IndicatesSuccess reports whether the response carries a result rather than
// an error object.
func (r *Response) IndicatesSuccess() bool {
	return r.Error == nil
}

// UnmarshalResult decodes the result payload into v. It fails on error
// responses.
func (r *Response) UnmarshalResult(v any) error {
	if r.Error != nil {
		return fmt.Errorf("response indicates error %d: %s", r.Error.Code, r.Error.Message)
	}
	return json.Unmarshal(r.Result, v)
}

// wireMessage is the shared wire shape. The id member is kept raw so that an
// absent field and an explicit null remain distinguishable after decoding.
type wireMessage struct {
	JSONRPCVersion string          `json:"jsonrpc"`
	Method         string          `json:"method,omitempty"`
	Params         any             `json:"params,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	Error          *Error          `json:"error,omitempty"`
	ID             json.RawMessage `json:"id,omitempty"`
}

func marshalID(id *ID) (json.RawMessage, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalJSON()
}

// MarshalJSON implements json.Marshaler.
func (r *Request) MarshalJSON() ([]byte, error) {
	rawID, err := marshalID(r.ID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{
		JSONRPCVersion: ProtocolVersion,
		Method:         r.Method,
		Params:         r.Params,
		ID:             rawID,
	})
}

// String returns the canonical JSON-RPC 2.0 text of the request.
func (r *Request) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(data)
}

// MarshalJSON implements json.Marshaler.
func (n *Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMessage{
		JSONRPCVersion: ProtocolVersion,
		Method:         n.Method,
		Params:         n.Params,
	})
}

// String returns the canonical JSON-RPC 2.0 text of the notification.
func (n *Notification) String() string {
	data, err := json.Marshal(n)
	if err != nil {
		return ""
	}
	return string(data)
}

// MarshalJSON implements json.Marshaler.
func (r *Response) MarshalJSON() ([]byte, error) {
	rawID, err := marshalID(r.ID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{
		JSONRPCVersion: ProtocolVersion,
		Result:         r.Result,
		Error:          r.Error,
		ID:             rawID,
	})
}

// String returns the canonical JSON-RPC 2.0 text of the response.
func (r *Response) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseOptions relaxes structural validation during response parsing.
type ParseOptions struct {
	// IgnoreVersion skips the check that the "jsonrpc" member equals "2.0".
	IgnoreVersion bool

	// AllowNonStandardFields tolerates members beyond those defined by the
	// JSON-RPC 2.0 specification instead of rejecting the message.
	AllowNonStandardFields bool
}

// ParseResponse decodes and validates a JSON-RPC 2.0 response. Malformed
// input, a bad version member or a response carrying neither (or both) of
// result and error yields a *ParseError.
func ParseResponse(data []byte, opts ParseOptions) (*Response, error) {
	var wire struct {
		JSONRPCVersion string          `json:"jsonrpc"`
		Result         json.RawMessage `json:"result"`
		Error          *Error          `json:"error"`
		ID             json.RawMessage `json:"id"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if !opts.AllowNonStandardFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&wire); err != nil {
		return nil, newParseError("invalid JSON", err)
	}

	if !opts.IgnoreVersion && wire.JSONRPCVersion != ProtocolVersion {
		return nil, newParseError(fmt.Sprintf("invalid JSON-RPC version: expected %q, got %q", ProtocolVersion, wire.JSONRPCVersion), nil)
	}

	hasResult := len(wire.Result) > 0
	hasError := wire.Error != nil
	if hasResult && hasError {
		return nil, newParseError("response cannot have both result and error members", nil)
	}
	if !hasResult && !hasError {
		return nil, newParseError("response must have either a result or an error member", nil)
	}

	resp := &Response{
		Result: wire.Result,
		Error:  wire.Error,
	}

	if len(wire.ID) > 0 {
		var id ID
		if err := id.UnmarshalJSON(wire.ID); err != nil {
			return nil, newParseError("invalid response id", err)
		}
		resp.ID = &id
	}

	return resp, nil
}
