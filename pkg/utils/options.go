package utils

import (
	"net"
	"time"

	"github.com/miekg/dns"
)

const (
	DefaultArchiveCDXURL = "http://web.archive.org/cdx/search/cdx"
	DefaultGeoAPIURL     = "http://ip-api.com/json"

	GeoProviderIPAPI   = "ipapi"
	GeoProviderMaxMind = "maxmind"
)

var fallbackNameservers = []string{"8.8.8.8:53", "1.1.1.1:53"}

// LookupOptions carries the timeouts and upstream endpoints for one analysis.
// It is passed explicitly to every lookup.
type LookupOptions struct {
	WhoisTimeout    time.Duration
	PageTimeout     time.Duration
	ArchiveTimeout  time.Duration
	GeoTimeout      time.Duration
	DNSQueryTimeout time.Duration
	DNSLifetime     time.Duration
	Nameservers     []string
	ArchiveCDXURL   string
	GeoAPIURL       string
	UserAgent       string // empty picks a random browser agent per request
}

func DefaultLookupOptions() LookupOptions {
	return LookupOptions{
		WhoisTimeout:    15 * time.Second,
		PageTimeout:     10 * time.Second,
		ArchiveTimeout:  10 * time.Second,
		GeoTimeout:      5 * time.Second,
		DNSQueryTimeout: 3 * time.Second,
		DNSLifetime:     5 * time.Second,
		Nameservers:     SystemNameservers(),
		ArchiveCDXURL:   DefaultArchiveCDXURL,
		GeoAPIURL:       DefaultGeoAPIURL,
	}
}

// SystemNameservers returns the resolvers from /etc/resolv.conf as host:port
// pairs, or public resolvers when the file is unusable.
func SystemNameservers() []string {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return append([]string(nil), fallbackNameservers...)
	}
	servers := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		servers = append(servers, net.JoinHostPort(s, conf.Port))
	}
	return servers
}
