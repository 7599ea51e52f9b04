package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID represents a JSON-RPC request id, which callers may choose as either a
// string or a number. The original token bytes are kept so responses echo the
// id exactly as it was received.
type ID struct {
	raw json.RawMessage
}

// NewStringID creates an ID from a string.
func NewStringID(s string) ID {
	raw, _ := json.Marshal(s)
	return ID{raw: raw}
}

// NewNumberID creates an ID from a number.
func NewNumberID(n float64) ID {
	raw, _ := json.Marshal(n)
	return ID{raw: raw}
}

// IsZero reports whether the id is absent, which marks a notification.
func (id ID) IsZero() bool {
	return len(id.raw) == 0
}

// String returns a stable string form for use as a map key or in logs.
func (id ID) String() string {
	return string(id.raw)
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if len(id.raw) == 0 {
		return []byte("null"), nil
	}
	return id.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		id.raw = nil
		return nil
	}
	// Only string and number ids are valid; reject objects, arrays and bools.
	var strVal string
	if err := json.Unmarshal(trimmed, &strVal); err == nil {
		id.raw = append(json.RawMessage(nil), trimmed...)
		return nil
	}
	var numVal float64
	if err := json.Unmarshal(trimmed, &numVal); err == nil {
		id.raw = append(json.RawMessage(nil), trimmed...)
		return nil
	}
	return fmt.Errorf("id must be a string or a number")
}
