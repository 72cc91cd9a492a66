package jsonrpc2

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRequest_WireForm(t *testing.T) {
	t.Parallel()

	req := NewRequest("getServerTime", map[string]any{"tz": "UTC"}, NumberID(0))
	text := req.String()

	var wire map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		t.Fatalf("request text is not valid JSON: %v", err)
	}
	if string(wire["jsonrpc"]) != `"2.0"` {
		t.Errorf("jsonrpc member: got %s", wire["jsonrpc"])
	}
	if string(wire["method"]) != `"getServerTime"` {
		t.Errorf("method member: got %s", wire["method"])
	}
	if string(wire["id"]) != `0` {
		t.Errorf("id member: got %s", wire["id"])
	}
}

func TestRequest_IDAbsentVersusNull(t *testing.T) {
	t.Parallel()

	absent := NewRequest("m", nil, nil).String()
	if strings.Contains(absent, `"id"`) {
		t.Errorf("nil id should omit the id member, got %s", absent)
	}

	null := NewRequest("m", nil, NullID()).String()
	if !strings.Contains(null, `"id":null`) {
		t.Errorf("NullID should produce an explicit null id member, got %s", null)
	}
}

func TestNotification_WireForm(t *testing.T) {
	t.Parallel()

	n := NewNotification("logEvent", []any{"a", 1})
	text := n.String()
	if strings.Contains(text, `"id"`) {
		t.Errorf("notification must not carry an id, got %s", text)
	}
	if !strings.Contains(text, `"jsonrpc":"2.0"`) {
		t.Errorf("notification must carry the version member, got %s", text)
	}
}

func TestParseResponse_Success(t *testing.T) {
	t.Parallel()

	resp, err := ParseResponse([]byte(`{"jsonrpc":"2.0","result":{"b":2,"a":1},"id":"r1"}`), ParseOptions{})
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if !resp.IndicatesSuccess() {
		t.Fatal("expected success response")
	}
	if resp.ID.String() != "r1" {
		t.Errorf("id: got %s", resp.ID)
	}
	// Result stays raw, preserving the original text and key order.
	if string(resp.Result) != `{"b":2,"a":1}` {
		t.Errorf("result should be preserved verbatim, got %s", resp.Result)
	}
}

func TestParseResponse_Error(t *testing.T) {
	t.Parallel()

	resp, err := ParseResponse([]byte(`{"jsonrpc":"2.0","error":{"code":-32601,"message":"no such method","data":"x"},"id":4}`), ParseOptions{})
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.IndicatesSuccess() {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != ErrorCodeMethodNotFound {
		t.Errorf("code: got %d", resp.Error.Code)
	}
	if resp.Error.Message != "no such method" {
		t.Errorf("message: got %q", resp.Error.Message)
	}
}

func TestParseResponse_NullResultIsSuccess(t *testing.T) {
	t.Parallel()

	resp, err := ParseResponse([]byte(`{"jsonrpc":"2.0","result":null,"id":1}`), ParseOptions{})
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if !resp.IndicatesSuccess() {
		t.Fatal("a null result is still a success response")
	}
}

func TestParseResponse_Malformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"invalid JSON":         `{`,
		"wrong version":        `{"jsonrpc":"1.0","result":1,"id":1}`,
		"missing version":      `{"result":1,"id":1}`,
		"result and error":     `{"jsonrpc":"2.0","result":1,"error":{"code":1,"message":"m"},"id":1}`,
		"neither member":       `{"jsonrpc":"2.0","id":1}`,
		"object id":            `{"jsonrpc":"2.0","result":1,"id":{"x":1}}`,
		"non-standard members": `{"jsonrpc":"2.0","result":1,"id":1,"vendor":"x"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseResponse([]byte(body), ParseOptions{})
			if err == nil {
				t.Fatal("expected parse failure")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestParseResponse_RelaxedOptions(t *testing.T) {
	t.Parallel()

	if _, err := ParseResponse([]byte(`{"result":1,"id":1}`), ParseOptions{IgnoreVersion: true}); err != nil {
		t.Errorf("IgnoreVersion should tolerate a missing version member: %v", err)
	}

	if _, err := ParseResponse(
		[]byte(`{"jsonrpc":"2.0","result":1,"id":1,"vendor":"x"}`),
		ParseOptions{AllowNonStandardFields: true},
	); err != nil {
		t.Errorf("AllowNonStandardFields should tolerate extra members: %v", err)
	}
}

func TestParseResponse_IDStates(t *testing.T) {
	t.Parallel()

	resp, err := ParseResponse([]byte(`{"jsonrpc":"2.0","result":1}`), ParseOptions{})
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.ID != nil {
		t.Error("absent id member should yield a nil ID")
	}

	resp, err = ParseResponse([]byte(`{"jsonrpc":"2.0","result":1,"id":null}`), ParseOptions{})
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if resp.ID == nil || !resp.ID.IsNull() {
		t.Error("null id member should yield an explicit null ID")
	}
}

func TestNewRequestWithAutoID(t *testing.T) {
	t.Parallel()

	a := NewRequestWithAutoID("m", nil)
	b := NewRequestWithAutoID("m", nil)
	if a.ID.IsNull() || b.ID.IsNull() {
		t.Fatal("auto ids must be value identifiers")
	}
	if a.ID.String() == b.ID.String() {
		t.Error("auto ids must be unique per request")
	}
}

func TestResponse_WireForm(t *testing.T) {
	t.Parallel()

	resp := &Response{Result: json.RawMessage(`"ok"`), ID: StringID("r")}
	text := resp.String()
	if !strings.Contains(text, `"result":"ok"`) || !strings.Contains(text, `"id":"r"`) {
		t.Errorf("unexpected response text: %s", text)
	}
}
