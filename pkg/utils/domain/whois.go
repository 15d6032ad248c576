package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/vit0-9/site_analyzer/pkg/logger"
	"github.com/vit0-9/site_analyzer/pkg/utils"
)

// Registration is the flattened WHOIS record: field name to a display string
// or a utils.StringList. Only fields the registry returned are present.
type Registration map[string]any

// WhoisInfo is the line-pattern view of a raw WHOIS response, used when the
// structured parser does not recognise the registry's format.
type WhoisInfo struct {
	Domain          string
	Registrar       string
	CreationDate    time.Time
	ExpirationDate  time.Time
	UpdatedDate     time.Time
	NameServers     []string
	Status          []string
	RegistrantOrg   string
	RegistrantEmail string
	AdminEmail      string
	TechEmail       string
}

type WhoisError struct {
	Domain string
	Err    error
}

func (e *WhoisError) Error() string {
	return fmt.Sprintf("whois lookup failed for %s: %v", e.Domain, e.Err)
}

func (e *WhoisError) Unwrap() error { return e.Err }

// LookupRegistration queries WHOIS for domain, following registry referrals,
// and flattens the answer. The query is bounded by timeout and ctx.
func LookupRegistration(ctx context.Context, domain string, timeout time.Duration) (Registration, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" || !strings.Contains(domain, ".") {
		return nil, &utils.LookupError{
			Op:     utils.OpWhois,
			Kind:   utils.KindMalformed,
			Target: domain,
			Err:    fmt.Errorf("invalid domain format: %q", domain),
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, utils.Wrap(utils.OpWhois, domain, &WhoisError{Domain: domain, Err: err})
	}

	client := whois.NewClient()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	type answer struct {
		raw string
		err error
	}
	done := make(chan answer, 1)
	go func() {
		raw, err := client.Whois(domain)
		done <- answer{raw: raw, err: err}
	}()

	var raw string
	select {
	case <-ctx.Done():
		return nil, utils.Wrap(utils.OpWhois, domain, &WhoisError{Domain: domain, Err: ctx.Err()})
	case a := <-done:
		if a.err != nil {
			return nil, utils.Wrap(utils.OpWhois, domain, &WhoisError{Domain: domain, Err: a.err})
		}
		raw = a.raw
	}

	registration, err := ParseRegistration(domain, raw)
	if err != nil {
		return nil, utils.Wrap(utils.OpWhois, domain, err)
	}
	return registration, nil
}

// ParseRegistration flattens a raw WHOIS response. Formats the structured
// parser rejects fall back to line patterns; a registry answer saying the
// domain is not registered is reported as utils.ErrNotFound.
func ParseRegistration(domain, raw string) (Registration, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &WhoisError{Domain: domain, Err: errors.New("empty response from server")}
	}

	parsed, err := whoisparser.Parse(raw)
	switch {
	case err == nil:
		return flattenParsed(parsed), nil
	case errors.Is(err, whoisparser.ErrNotFoundDomain):
		return nil, &utils.LookupError{Op: utils.OpWhois, Kind: utils.KindNotFound, Target: domain, Err: &WhoisError{Domain: domain, Err: utils.ErrNotFound}}
	}

	logger.Log.Debug().Err(err).Str("domain", domain).Msg("structured WHOIS parse failed, using line patterns")
	registration := parseWhoisResponse(domain, raw).registration()
	if len(registration) <= 1 {
		return nil, &WhoisError{Domain: domain, Err: err}
	}
	return registration, nil
}

func flattenParsed(info whoisparser.WhoisInfo) Registration {
	r := Registration{}
	if d := info.Domain; d != nil {
		r.setString("domain_name", d.Domain)
		r.setString("whois_server", d.WhoisServer)
		r.setDate("creation_date", d.CreatedDate)
		r.setDate("updated_date", d.UpdatedDate)
		r.setDate("expiration_date", d.ExpirationDate)
		r.setList("name_servers", lowerAll(d.NameServers))
		r.setList("status", d.Status)
		if d.DNSSec {
			r["dnssec"] = "signed"
		}
	}
	if c := info.Registrar; c != nil {
		r.setString("registrar", c.Name)
		r.setString("registrar_url", c.ReferralURL)
	}
	if c := info.Registrant; c != nil {
		r.setString("registrant_name", c.Name)
		r.setString("registrant_organization", c.Organization)
		r.setString("registrant_country", c.Country)
		r.setString("registrant_email", c.Email)
	}
	if c := info.Administrative; c != nil {
		r.setString("admin_email", c.Email)
	}
	if c := info.Technical; c != nil {
		r.setString("tech_email", c.Email)
	}
	return r
}

func (r Registration) setString(key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		r[key] = value
	}
}

func (r Registration) setDate(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if date := parseDate(value); !date.IsZero() {
		r[key] = formatDate(date)
		return
	}
	r[key] = value
}

func (r Registration) setTime(key string, value time.Time) {
	if !value.IsZero() {
		r[key] = formatDate(value)
	}
}

func (r Registration) setList(key string, values []string) {
	values = removeDuplicates(values)
	if len(values) > 0 {
		r[key] = utils.StringList(values)
	}
}

func (info *WhoisInfo) registration() Registration {
	r := Registration{}
	r.setString("domain_name", info.Domain)
	r.setString("registrar", info.Registrar)
	r.setTime("creation_date", info.CreationDate)
	r.setTime("updated_date", info.UpdatedDate)
	r.setTime("expiration_date", info.ExpirationDate)
	r.setList("name_servers", info.NameServers)
	r.setList("status", info.Status)
	r.setString("registrant_organization", info.RegistrantOrg)
	r.setString("registrant_email", info.RegistrantEmail)
	r.setString("admin_email", info.AdminEmail)
	r.setString("tech_email", info.TechEmail)
	return r
}

var whoisPatterns = map[string]*regexp.Regexp{
	"registrar":        regexp.MustCompile(`(?i)^registrar:\s*(.+)`),
	"creation_date":    regexp.MustCompile(`(?i)^(creation date|created|registered)[^:]*:\s*(.+)`),
	"expiration_date":  regexp.MustCompile(`(?i)^[^:]*(expir|expires)[^:]*:\s*(.+)`),
	"updated_date":     regexp.MustCompile(`(?i)^(updated|last updated|modified)[^:]*:\s*(.+)`),
	"name_server":      regexp.MustCompile(`(?i)^(name server|nserver):\s*(.+)`),
	"status":           regexp.MustCompile(`(?i)^(domain )?status:\s*(.+)`),
	"registrant_org":   regexp.MustCompile(`(?i)^registrant.*organization:\s*(.+)`),
	"registrant_email": regexp.MustCompile(`(?i)^registrant.*email:\s*(.+)`),
	"admin_email":      regexp.MustCompile(`(?i)^admin.*email:\s*(.+)`),
	"tech_email":       regexp.MustCompile(`(?i)^tech.*email:\s*(.+)`),
}

// parseWhoisResponse extracts structured data from raw WHOIS response
func parseWhoisResponse(domain, rawData string) *WhoisInfo {
	info := &WhoisInfo{Domain: domain}

	for _, line := range strings.Split(rawData, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}

		if match := whoisPatterns["registrar"].FindStringSubmatch(line); len(match) > 1 {
			info.Registrar = strings.TrimSpace(match[1])
		}
		if match := whoisPatterns["creation_date"].FindStringSubmatch(line); len(match) > 2 {
			if date := parseDate(match[2]); !date.IsZero() {
				info.CreationDate = date
			}
		}
		if match := whoisPatterns["expiration_date"].FindStringSubmatch(line); len(match) > 2 {
			if date := parseDate(match[2]); !date.IsZero() {
				info.ExpirationDate = date
			}
		}
		if match := whoisPatterns["updated_date"].FindStringSubmatch(line); len(match) > 2 {
			if date := parseDate(match[2]); !date.IsZero() {
				info.UpdatedDate = date
			}
		}
		if match := whoisPatterns["name_server"].FindStringSubmatch(line); len(match) > 2 {
			ns := strings.ToLower(strings.TrimSpace(match[2]))
			info.NameServers = append(info.NameServers, strings.TrimSuffix(ns, "."))
		}
		if match := whoisPatterns["status"].FindStringSubmatch(line); len(match) > 2 {
			info.Status = append(info.Status, strings.TrimSpace(match[2]))
		}
		if match := whoisPatterns["registrant_org"].FindStringSubmatch(line); len(match) > 1 {
			info.RegistrantOrg = strings.TrimSpace(match[1])
		}
		if match := whoisPatterns["registrant_email"].FindStringSubmatch(line); len(match) > 1 {
			info.RegistrantEmail = strings.TrimSpace(match[1])
		}
		if match := whoisPatterns["admin_email"].FindStringSubmatch(line); len(match) > 1 {
			info.AdminEmail = strings.TrimSpace(match[1])
		}
		if match := whoisPatterns["tech_email"].FindStringSubmatch(line); len(match) > 1 {
			info.TechEmail = strings.TrimSpace(match[1])
		}
	}

	info.NameServers = removeDuplicates(info.NameServers)
	info.Status = removeDuplicates(info.Status)
	return info
}

// parseDate attempts to parse various date formats found in WHOIS data
func parseDate(dateStr string) time.Time {
	dateStr = strings.TrimSpace(dateStr)

	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05 MST",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02-Jan-2006",
		"2-Jan-2006",
		"January 02 2006",
		"2006/01/02",
		"2006.01.02",
		"02.01.2006",
	}

	for _, format := range formats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date
		}
	}
	return time.Time{}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "."))
	}
	return out
}

// removeDuplicates removes duplicate and empty strings, keeping order.
func removeDuplicates(slice []string) []string {
	seen := make(map[string]bool)
	result := []string{}

	for _, item := range slice {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}
