package models

import (
	"bytes"
	"encoding/json"
)

// jsonObject is a JSON object decoded one level deep, so each field can be
// read with its own type tolerance.
type jsonObject map[string]json.RawMessage

// str returns the field when it is a JSON string.
func (o jsonObject) str(name string) (string, bool) {
	var s string
	if err := json.Unmarshal(o[name], &s); err != nil {
		return "", false
	}
	return s, true
}

// text returns the field as display text: strings as is, numbers and
// booleans in their literal form. Anything else is empty.
func (o jsonObject) text(name string) string {
	if s, ok := o.str(name); ok {
		return s
	}

	raw := bytes.TrimSpace(o[name])
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return string(raw)
	}
	return ""
}

// boolean returns the field when it is a JSON boolean.
func (o jsonObject) boolean(name string) (bool, bool) {
	var b bool
	if err := json.Unmarshal(o[name], &b); err != nil {
		return false, false
	}
	return b, true
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
