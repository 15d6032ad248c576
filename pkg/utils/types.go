package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StringList is a list of display strings. When decoding it also accepts a
// bare string or a list of non-string scalars, since reports are sent back by
// clients.
type StringList []string

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	var items []any
	if err := json.Unmarshal(trimmed, &items); err == nil {
		out := make(StringList, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		*l = out
		return nil
	}

	var single string
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	if single == "" {
		*l = StringList{}
		return nil
	}
	*l = StringList{single}
	return nil
}
