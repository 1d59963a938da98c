package enums

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is the tri-state answer of one side of a match. It travels as
// null/true/false on the wire and in the matches table.
type Response uint8

const (
	ResponseUnset Response = iota
	ResponseAccepted
	ResponseDeclined
)

func ResponseFromBool(accept bool) Response {
	if accept {
		return ResponseAccepted
	}
	return ResponseDeclined
}

func ResponseFromPtr(v *bool) Response {
	if v == nil {
		return ResponseUnset
	}
	return ResponseFromBool(*v)
}

func (r Response) IsSet() bool {
	return r == ResponseAccepted || r == ResponseDeclined
}

// Ptr returns nil for unset, otherwise a pointer to the accept flag.
func (r Response) Ptr() *bool {
	switch r {
	case ResponseAccepted:
		v := true
		return &v
	case ResponseDeclined:
		v := false
		return &v
	}
	return nil
}

func (r Response) String() string {
	switch r {
	case ResponseAccepted:
		return "accepted"
	case ResponseDeclined:
		return "declined"
	}
	return "unset"
}

func (r Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Ptr())
}

func (r *Response) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = ResponseUnset
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	*r = ResponseFromBool(v)
	return nil
}
