package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		in, url, domain string
	}{
		{"example.com", "http://example.com", "example.com"},
		{"  https://www.example.com/path?q=1 ", "https://www.example.com/path?q=1", "www.example.com"},
		{"http://example.com:8080#top", "http://example.com:8080#top", "example.com:8080"},
		{"example.com/blog", "http://example.com/blog", "example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			gotURL, gotDomain := NormalizeTarget(tt.in)
			assert.Equal(t, tt.url, gotURL)
			assert.Equal(t, tt.domain, gotDomain)
		})
	}
}

func TestStringListJSON(t *testing.T) {
	data, err := json.Marshal(StringList(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	var l StringList
	require.NoError(t, json.Unmarshal([]byte(`["a", 2, true]`), &l))
	assert.Equal(t, StringList{"a", "2", "true"}, l)

	require.NoError(t, json.Unmarshal([]byte(`"single"`), &l))
	assert.Equal(t, StringList{"single"}, l)
}

func TestLookupErrorMessages(t *testing.T) {
	err := Wrap(OpWhois, "example.com", ErrNotFound)
	assert.Equal(t, "Failed to retrieve WHOIS information: not found", err.Error())

	var lerr *LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, KindNotFound, lerr.Kind)
	assert.Same(t, lerr, Wrap(OpSEO, "x", lerr))

	assert.Nil(t, Wrap(OpSEO, "x", nil))
	assert.Equal(t, "Error (TXT)", (&LookupError{Op: OpDNSRecord, Kind: KindMalformed, Target: "TXT"}).Error())
}

func TestClassify(t *testing.T) {
	noSuchHost := &net.DNSError{Err: "no such host", Name: "api.invalid", IsNotFound: true}
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"sentinel not found", ErrNotFound, KindNotFound},
		{"no answer", fmt.Errorf("wrapped: %w", ErrNoAnswer), KindNotFound},
		{"bare resolver miss", noSuchHost, KindNotFound},
		{"http host does not resolve", &url.Error{Op: "Get", URL: "http://api.invalid/", Err: &net.OpError{Op: "dial", Net: "tcp", Err: noSuchHost}}, KindUnreachable},
		{"http fetch wrapped", fmt.Errorf("failed to fetch x: %w", &url.Error{Op: "Get", URL: "http://x.invalid/", Err: noSuchHost}), KindUnreachable},
		{"http deadline", &url.Error{Op: "Get", URL: "http://x/", Err: context.DeadlineExceeded}, KindTimeout},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, KindUnreachable},
		{"upstream status", fmt.Errorf("%w: 503", ErrUpstreamStatus), KindUnreachable},
		{"anything else", errors.New("bad payload"), KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
