package utils

import "strings"

// NormalizeTarget prefixes a scheme when the input has none and derives the
// bare host from the result.
func NormalizeTarget(raw string) (targetURL, domain string) {
	targetURL = strings.TrimSpace(raw)
	if !strings.HasPrefix(targetURL, "http://") && !strings.HasPrefix(targetURL, "https://") {
		targetURL = "http://" + targetURL
	}
	return targetURL, HostFromURL(targetURL)
}

// HostFromURL strips the scheme and everything from the first path, query or
// fragment delimiter on.
func HostFromURL(rawURL string) string {
	host := rawURL
	if _, after, found := strings.Cut(host, "//"); found {
		host = after
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return host
}
