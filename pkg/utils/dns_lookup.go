package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/vit0-9/site_analyzer/pkg/logger"
)

// DNSRecordTypes are the record types collected for a report, in query order.
var DNSRecordTypes = []string{"A", "AAAA", "MX", "NS", "CNAME", "TXT"}

// DNSExchanger sends a single DNS message to one server. *dns.Client
// satisfies it.
type DNSExchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// DNSResolver queries a fixed list of nameservers in order. Each query is
// bounded by the client timeout and all attempts for one question by Lifetime.
type DNSResolver struct {
	Client      DNSExchanger
	Nameservers []string
	Lifetime    time.Duration
}

func NewDNSResolver(opts LookupOptions) *DNSResolver {
	servers := opts.Nameservers
	if len(servers) == 0 {
		servers = SystemNameservers()
	}
	return &DNSResolver{
		Client:      &dns.Client{Timeout: opts.DNSQueryTimeout},
		Nameservers: servers,
		Lifetime:    opts.DNSLifetime,
	}
}

// Query asks for the qtype records of name and returns the matching answers.
// Failures are *LookupError values with Op OpDNSRecord:
// NXDOMAIN and empty answers are KindNotFound (wrapping ErrNXDomain and
// ErrNoAnswer), an expired lifetime or per-query timeout is KindTimeout, and
// no usable nameserver is KindUnreachable.
func (r *DNSResolver) Query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	typeName := dns.TypeToString[qtype]
	fail := func(kind ErrorKind, err error) error {
		return &LookupError{Op: OpDNSRecord, Kind: kind, Target: typeName, Err: err}
	}

	if _, ok := dns.IsDomainName(name); !ok || name == "" {
		return nil, fail(KindMalformed, fmt.Errorf("invalid domain name %q", name))
	}
	if len(r.Nameservers) == 0 {
		return nil, fail(KindUnreachable, errors.New("no nameservers configured"))
	}

	if r.Lifetime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Lifetime)
		defer cancel()
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	timedOut := false
	var lastErr error
	for _, server := range r.Nameservers {
		if ctx.Err() != nil {
			timedOut = true
			break
		}
		resp, _, err := r.Client.ExchangeContext(ctx, msg, server)
		if err != nil {
			if isTimeout(err) {
				timedOut = true
			}
			lastErr = fmt.Errorf("%s: %w", server, err)
			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
			answers := make([]dns.RR, 0, len(resp.Answer))
			for _, rr := range resp.Answer {
				if rr.Header().Rrtype == qtype {
					answers = append(answers, rr)
				}
			}
			if len(answers) == 0 {
				return nil, fail(KindNotFound, ErrNoAnswer)
			}
			return answers, nil
		case dns.RcodeNameError:
			return nil, fail(KindNotFound, ErrNXDomain)
		default:
			lastErr = fmt.Errorf("%s answered %s", server, dns.RcodeToString[resp.Rcode])
		}
	}

	if timedOut || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fail(KindTimeout, fmt.Errorf("resolution lifetime expired: %w", context.DeadlineExceeded))
	}
	return nil, fail(KindUnreachable, lastErr)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// DNSEntry is the outcome for one record type: formatted values or an error.
type DNSEntry struct {
	Type    string
	Records StringList
	Err     error
}

// DNSRecordSet is the per-type DNS section, kept in query order.
type DNSRecordSet struct {
	Entries []DNSEntry
}

// Get returns the entry for record type t.
func (s DNSRecordSet) Get(t string) (DNSEntry, bool) {
	for _, e := range s.Entries {
		if e.Type == t {
			return e, true
		}
	}
	return DNSEntry{}, false
}

// MarshalJSON writes {"A": [...], "MX": "No such record", ...} in entry order.
func (s DNSRecordSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Type)
		if err != nil {
			return nil, err
		}
		var value []byte
		if e.Err != nil {
			value, err = json.Marshal(e.Err.Error())
		} else {
			value, err = json.Marshal(e.Records)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts a report sent back by a client. A string value is
// taken as that record type's error text.
func (s *DNSRecordSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		s.Entries = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dns records: expected an object, got %v", tok)
	}

	var entries []DNSEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		entry := DNSEntry{Type: key}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			entry.Err = errors.New(text)
		} else if err := json.Unmarshal(raw, &entry.Records); err != nil {
			return fmt.Errorf("dns records: %s: %w", key, err)
		}
		entries = append(entries, entry)
	}
	s.Entries = entries
	return nil
}

// LookupDNSRecords collects every type in DNSRecordTypes for domain. An
// NXDOMAIN answer aborts the remaining queries and fails the whole set.
func LookupDNSRecords(ctx context.Context, resolver *DNSResolver, domain string) (DNSRecordSet, error) {
	set := DNSRecordSet{Entries: make([]DNSEntry, 0, len(DNSRecordTypes))}

	for _, recordType := range DNSRecordTypes {
		qtype := dns.StringToType[recordType]
		answers, err := resolver.Query(ctx, domain, qtype)
		if err != nil {
			if errors.Is(err, ErrNXDomain) {
				return DNSRecordSet{}, &LookupError{Op: OpDNS, Kind: KindNotFound, Target: domain, Err: ErrNXDomain}
			}
			var lerr *LookupError
			if errors.As(err, &lerr) && lerr.Kind == KindMalformed {
				logger.Log.Error().Err(err).Str("domain", domain).Str("record_type", recordType).Str("detail", lerr.Detail()).Msg("DNS query failed")
			}
			set.Entries = append(set.Entries, DNSEntry{Type: recordType, Err: err})
			continue
		}

		records := make(StringList, 0, len(answers))
		for _, rr := range answers {
			records = append(records, FormatRecord(rr))
		}
		set.Entries = append(set.Entries, DNSEntry{Type: recordType, Records: records})
	}
	return set, nil
}

// FormatRecord renders one answer for display: MX as "<preference> <host>",
// TXT as its segments joined by spaces, anything else as its presentation
// data without the trailing root label.
func FormatRecord(rr dns.RR) string {
	switch v := rr.(type) {
	case *dns.MX:
		return fmt.Sprintf("%d %s", v.Preference, strings.TrimSuffix(v.Mx, "."))
	case *dns.TXT:
		segments := make([]string, 0, len(v.Txt))
		for _, segment := range v.Txt {
			segments = append(segments, decodeTXTSegment(segment))
		}
		return strings.Join(segments, " ")
	}
	rdata := strings.TrimPrefix(rr.String(), rr.Header().String())
	return strings.TrimSuffix(strings.TrimSpace(rdata), ".")
}

// decodeTXTSegment undoes the presentation escaping miekg/dns applies to
// character-strings and drops bytes that are not valid UTF-8.
func decodeTXTSegment(s string) string {
	if !strings.Contains(s, `\`) {
		return strings.ToValidUTF8(s, "")
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out = append(out, s[i])
			continue
		}
		if i+3 < len(s) && isDigit(s[i+1]) && isDigit(s[i+2]) && isDigit(s[i+3]) {
			if n, err := strconv.Atoi(s[i+1 : i+4]); err == nil && n <= 0xff {
				out = append(out, byte(n))
				i += 3
				continue
			}
		}
		out = append(out, s[i+1])
		i++
	}
	return strings.ToValidUTF8(string(out), "")
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
