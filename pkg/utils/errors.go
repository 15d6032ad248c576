package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
)

// ErrorKind is the coarse failure class of a lookup.
type ErrorKind int

const (
	KindTimeout ErrorKind = iota + 1
	KindNotFound
	KindUnreachable
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not_found"
	case KindUnreachable:
		return "unreachable"
	case KindMalformed:
		return "malformed"
	}
	return "unknown"
}

// Lookup operations. The report sections are keyed by the top-level ones.
const (
	OpWhois      = "whois"
	OpTechStack  = "tech_stack"
	OpArchive    = "archive"
	OpSEO        = "seo"
	OpDNS        = "dns"
	OpDNSRecord  = "dns.record"
	OpServerInfo = "server_info"
	OpResolveIP  = "server_info.resolve"
	OpGeo        = "server_info.geo"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNXDomain       = errors.New("domain does not exist")
	ErrNoAnswer       = errors.New("no answer for the requested record type")
	ErrUpstreamStatus = errors.New("unexpected upstream status")
)

// LookupError is the single error type every lookup adapter returns. Its
// Error method yields the user-facing text for the failed report slot.
type LookupError struct {
	Op     string
	Kind   ErrorKind
	Target string // domain, URL or record type the lookup was about
	Err    error
}

func (e *LookupError) Error() string {
	if msg, ok := lookupMessages[lookupKey{e.Op, e.Kind}]; ok {
		return msg(e)
	}
	if msg, ok := lookupMessages[lookupKey{e.Op, 0}]; ok {
		return msg(e)
	}
	return fmt.Sprintf("%s lookup failed: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Detail is the underlying cause, for logs.
func (e *LookupError) Detail() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// Wrap converts err into a *LookupError for op, classifying it when it is not
// one already.
func Wrap(op, target string, err error) error {
	if err == nil {
		return nil
	}
	var lerr *LookupError
	if errors.As(err, &lerr) {
		return lerr
	}
	return &LookupError{Op: op, Kind: Classify(err), Target: target, Err: err}
}

// Classify maps transport and resolution errors onto an ErrorKind. Any failure
// of an outgoing HTTP request, including a failure to resolve the API host, is
// an upstream failure rather than an answer about the target.
func Classify(err error) ErrorKind {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNXDomain) || errors.Is(err, ErrNoAnswer) {
		return KindNotFound
	}
	if errors.Is(err, ErrUpstreamStatus) {
		return KindUnreachable
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return KindTimeout
		}
		return KindUnreachable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsTimeout:
			return KindTimeout
		case dnsErr.IsNotFound:
			return KindNotFound
		}
		return KindUnreachable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindUnreachable
	}
	return KindMalformed
}

type lookupKey struct {
	op   string
	kind ErrorKind
}

func withCause(format string) func(*LookupError) string {
	return func(e *LookupError) string { return fmt.Sprintf(format, e.Err) }
}

func fixed(msg string) func(*LookupError) string {
	return func(*LookupError) string { return msg }
}

// lookupMessages holds the display text per operation and kind; kind 0 is the
// fallback for an operation.
var lookupMessages = map[lookupKey]func(*LookupError) string{
	{OpWhois, 0}: withCause("Failed to retrieve WHOIS information: %v"),

	{OpTechStack, 0}: withCause("Failed to analyze technologies: %v"),

	{OpArchive, KindNotFound}:    fixed("No snapshots were found in the Wayback Machine."),
	{OpArchive, KindTimeout}:     withCause("Failed to access the Wayback Machine: %v"),
	{OpArchive, KindUnreachable}: withCause("Failed to access the Wayback Machine: %v"),
	{OpArchive, 0}:               withCause("Error while determining the first-seen date: %v"),

	{OpSEO, KindTimeout}:     withCause("Failed to fetch page content: %v"),
	{OpSEO, KindUnreachable}: withCause("Failed to fetch page content: %v"),
	{OpSEO, 0}:               withCause("Error while parsing SEO information: %v"),

	{OpDNS, KindNotFound}: fixed("Domain does not exist (NXDOMAIN)"),
	{OpDNS, 0}:            withCause("Error while retrieving DNS information: %v"),

	{OpDNSRecord, KindNotFound}:    fixed("No such record"),
	{OpDNSRecord, KindTimeout}:     fixed("Timeout"),
	{OpDNSRecord, KindUnreachable}: fixed("No nameserver info"),
	{OpDNSRecord, 0}:               func(e *LookupError) string { return fmt.Sprintf("Error (%s)", e.Target) },

	{OpResolveIP, 0}: fixed("Failed to resolve IP address (invalid domain or unreachable)"),

	{OpGeo, KindNotFound}: withCause("IP info API error: %v"),
	{OpGeo, 0}:            fixed("Failed to access the IP info API"),

	{OpServerInfo, 0}: fixed("Unexpected error while retrieving server information"),
}
