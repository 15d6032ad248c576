package models

import (
	"bytes"
	"encoding/json"
)

// SafeURLString is a URL that serializes without HTML escaping, so query
// strings keep their literal '&'.
type SafeURLString string

func (s SafeURLString) MarshalJSON() ([]byte, error) {
	return marshalUnescaped(string(s))
}

func (s *SafeURLString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = SafeURLString(str)
	return nil
}

// marshalUnescaped encodes v like json.Marshal but leaves <, > and & as is.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
