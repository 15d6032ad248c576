package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Section is one report slot: either Data or the error that replaced it.
// A failed section serializes as {"error": "<message>"}.
type Section[T any] struct {
	Data T
	Err  error
}

func Ok[T any](data T) Section[T] {
	return Section[T]{Data: data}
}

func Failed[T any](err error) Section[T] {
	return Section[T]{Err: err}
}

// Failed reports whether the section holds an error.
func (s Section[T]) Failed() bool { return s.Err != nil }

// ReportedError is an error message read back from a serialized report.
type ReportedError string

func (e ReportedError) Error() string { return string(e) }

type sectionError struct {
	Error string `json:"error"`
}

func (s Section[T]) MarshalJSON() ([]byte, error) {
	if s.Err != nil {
		return marshalUnescaped(sectionError{Error: s.Err.Error()})
	}
	data, err := marshalUnescaped(s.Data)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(data, []byte("null")) {
		return []byte("{}"), nil
	}
	return data, nil
}

func (s *Section[T]) UnmarshalJSON(data []byte) error {
	*s = Section[T]{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		if raw, ok := obj["error"]; ok {
			var msg string
			if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
				s.Err = ReportedError(msg)
				return nil
			}
		}
	} else if trimmed[0] == '"' {
		var msg string
		if err := json.Unmarshal(trimmed, &msg); err != nil {
			return err
		}
		s.Err = ReportedError(msg)
		return nil
	}

	if err := json.Unmarshal(trimmed, &s.Data); err != nil {
		return fmt.Errorf("decoding report section: %w", err)
	}
	return nil
}
