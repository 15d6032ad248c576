package utils

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/publicsuffix"

	"github.com/vit0-9/site_analyzer/pkg/logger"
)

// defaultUserAgents is a list of common browser User-Agent strings.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.2478.51",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
}

const maxBodyBytes = 10 << 20

var (
	sharedTransport     *http.Transport
	sharedTransportOnce sync.Once
)

// transport returns the connection pool shared by all outbound HTTP lookups.
func transport() *http.Transport {
	sharedTransportOnce.Do(func() {
		sharedTransport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   15 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		}
	})
	return sharedTransport
}

// newHTTPClient builds a client over the shared transport. Each call gets its
// own cookie jar so nothing a target site sets survives the request.
func newHTTPClient(timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout:   timeout,
		Transport: transport(),
	}
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		client.Jar = jar
	}
	return client
}

// GetRandomUserAgent selects a User-Agent string randomly from the predefined list.
func GetRandomUserAgent() string {
	return defaultUserAgents[rand.Intn(len(defaultUserAgents))]
}

// FetchResult encapsulates the results of an HTTP fetch operation.
type FetchResult struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte // decoded according to Content-Encoding
	FinalURL   string // URL after all redirects
}

// FetchURL performs an HTTP GET request to the targetURL with browser-like
// headers and returns the response details. A timeout of zero means the
// context alone bounds the request.
func FetchURL(ctx context.Context, targetURL, userAgent string, timeout time.Duration) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", targetURL, err)
	}

	if userAgent == "" {
		userAgent = GetRandomUserAgent()
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := newHTTPClient(timeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", targetURL, err)
	}

	finalURL := resp.Request.URL.String()
	return &FetchResult{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Header,
		Body:       decodeBody(finalURL, resp.Header.Get("Content-Encoding"), raw),
		FinalURL:   finalURL,
	}, nil
}

// decodeBody undoes the Content-Encoding we negotiated. On a decoding failure
// the raw bytes are returned so callers can still try to use them.
func decodeBody(sourceURL, contentEncoding string, raw []byte) []byte {
	var reader io.Reader
	var err error

	switch encoding := strings.ToLower(strings.TrimSpace(contentEncoding)); encoding {
	case "", "identity":
		return raw
	case "gzip":
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(bytes.NewReader(raw)); err == nil {
			defer gz.Close()
			reader = gz
		}
	case "deflate":
		var zr io.ReadCloser
		if zr, err = zlib.NewReader(bytes.NewReader(raw)); err == nil {
			defer zr.Close()
			reader = zr
		}
	case "br":
		reader = brotli.NewReader(bytes.NewReader(raw))
	default:
		logger.Log.Warn().Str("url", sourceURL).Str("encoding", encoding).Msg("unsupported Content-Encoding, using raw body")
		return raw
	}

	if err == nil {
		var decoded []byte
		if decoded, err = io.ReadAll(io.LimitReader(reader, maxBodyBytes)); err == nil {
			return decoded
		}
	}
	logger.Log.Warn().Err(err).Str("url", sourceURL).Str("encoding", contentEncoding).Msg("body decoding failed, using raw body")
	return raw
}
