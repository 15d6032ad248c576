package report

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	reportTitle    = "Website Analysis Report"
	targetURLLabel = "Target URL:"
	generatedLabel = "Generated:"
	emptySection   = "No information available."
	notAvailable   = "N/A"
	notFound       = "Not found"
	bullet         = "• "

	registeredPrefix = "Domain registered: "
	registeredLayout = "January 2, 2006"
)

// Section titles, in report order.
var sectionTitles = []struct {
	key, title string
}{
	{"domain_info", "Domain Information (WHOIS)"},
	{"tech_stack", "Technology Stack"},
	{"existence_date", "Site First Seen"},
	{"seo_info", "SEO Information"},
	{"dns_info", "DNS Records"},
	{"server_info", "Server Information"},
}

func sectionTitle(key string) string {
	for _, s := range sectionTitles {
		if s.key == key {
			return s.title
		}
	}
	return titleize(key)
}

type fieldLabel struct {
	key, label string
}

var whoisFields = []fieldLabel{
	{"domain_name", "Domain Name"},
	{"registrar", "Registrar"},
	{"registrar_url", "Registrar URL"},
	{"whois_server", "WHOIS Server"},
	{"creation_date", "Creation Date"},
	{"updated_date", "Updated Date"},
	{"expiration_date", "Expiration Date"},
	{"name_servers", "Name Servers"},
	{"status", "Status"},
	{"dnssec", "DNSSEC"},
	{"registrant_name", "Registrant Name"},
	{"registrant_organization", "Registrant Organization"},
	{"registrant_country", "Registrant Country"},
	{"registrant_email", "Registrant Email"},
	{"admin_email", "Admin Email"},
	{"tech_email", "Tech Email"},
}

// techCategoryLabels maps fingerprint category names to report headings.
// Categories not listed are shown as they come.
var techCategoryLabels = map[string]string{
	"JavaScript frameworks": "JavaScript Frameworks",
	"Js Frameworks":         "JavaScript Frameworks",
	"JavaScript libraries":  "JavaScript Libraries",
	"Web frameworks":        "Web Frameworks",
	"Web servers":           "Web Servers",
	"Reverse proxies":       "Reverse Proxies",
	"Programming languages": "Programming Languages",
	"Tag managers":          "Tag Managers",
	"Font scripts":          "Font Scripts",
	"UI frameworks":         "UI Frameworks",
	"Cms":                   "CMS",
	"Cdn":                   "CDN",
	"Seo":                   "SEO Tools",
	"SEO":                   "SEO Tools",
	"Ecommerce":             "E-commerce",
	"Paas":                  "PaaS",
	"Other":                 "Other",
}

var seoFields = []fieldLabel{
	{"title", "Page Title"},
	{"meta_description", "Meta Description"},
	{"meta_keywords", "Meta Keywords"},
	{"h1_tags", "H1 Headings"},
}

var serverFields = []fieldLabel{
	{"ip_address", "IP Address"},
	{"country", "Country"},
	{"isp", "ISP (Provider)"},
}

var dnsOrder = []string{"A", "AAAA", "CNAME", "MX", "NS", "TXT", "SOA"}

func dnsLabel(recordType string) string {
	return recordType + " Record"
}

func techCategoryLabel(category string) string {
	if label, ok := techCategoryLabels[category]; ok {
		return label
	}
	return category
}

func labelFor(fields []fieldLabel, key string) string {
	for _, f := range fields {
		if f.key == key {
			return f.label
		}
	}
	return titleize(key)
}

// orderedKeys returns keys in the order of fields, followed by any other keys
// sorted alphabetically.
func orderedKeys(fields []fieldLabel, keys []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	out := make([]string, 0, len(keys))
	for _, f := range fields {
		if present[f.key] {
			out = append(out, f.key)
			delete(present, f.key)
		}
	}
	rest := make([]string, 0, len(present))
	for k := range present {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

var titleCaser = cases.Title(language.English)

// titleize turns a snake_case key into "Title Case" words.
func titleize(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}
