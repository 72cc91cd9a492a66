package jsonrpc2

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a JSON-RPC 2.0 request identifier: a string, a number, a boolean or
// an explicit null. An absent id field is represented by a nil *ID, which is
// a distinct state from NullID().
type ID struct {
	value any
}

// NewID creates an identifier from a string, integer, float or boolean value.
// Any other value yields an explicit null identifier.
func NewID(value any) *ID {
	switch v := value.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return &ID{value: v}
	default:
		return &ID{value: nil}
	}
}

// StringID creates a string identifier.
func StringID(s string) *ID { return &ID{value: s} }

// NumberID creates a numeric identifier.
func NumberID(n int64) *ID { return &ID{value: n} }

// NullID creates an explicit null identifier, as in {"id": null}.
func NullID() *ID { return &ID{} }

// IsNull reports whether the identifier is an explicit null. A nil receiver
// (absent id) also reports true so that absent and null normalize to the same
// "no identifier" state during matching.
func (id *ID) IsNull() bool {
	return id == nil || id.value == nil
}

// Value returns the underlying value, nil for an explicit null or absent id.
func (id *ID) Value() any {
	if id == nil {
		return nil
	}
	return id.value
}

// String returns the canonical textual form of the identifier. Identifier
// equality in the response matching rule is defined over this form, so the
// number 7 and the string "7" compare equal.
func (id *ID) String() string {
	if id == nil || id.value == nil {
		return "null"
	}

	switch v := id.value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		// Remaining constructors only admit integer types.
		return fmt.Sprintf("%d", v)
	}
}

// Equal reports whether two identifiers have the same canonical form, with
// absent and explicit-null treated as equal.
func (id *ID) Equal(other *ID) bool {
	if id.IsNull() || other.IsNull() {
		return id.IsNull() && other.IsNull()
	}
	return id.String() == other.String()
}

// MarshalJSON implements json.Marshaler.
func (id *ID) MarshalJSON() ([]byte, error) {
	if id == nil || id.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		id.value = nil
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		if num == float64(int64(num)) {
			id.value = int64(num)
		} else {
			id.value = num
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		id.value = str
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		id.value = b
		return nil
	}

	return fmt.Errorf("JSON-RPC id must be a string, number, boolean or null, got: %s", string(data))
}
