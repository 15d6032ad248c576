package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/oschwald/geoip2-golang"

	"github.com/vit0-9/site_analyzer/pkg/logger"
)

const notAvailable = "N/A"

// ServerInfo is the hosting section of a report.
type ServerInfo struct {
	IPAddress string `json:"ip_address"`
	Country   string `json:"country"`
	ISP       string `json:"isp"`
}

// GeoRecord is what a geolocation provider knows about an address.
type GeoRecord struct {
	Country     string
	CountryCode string
	ISP         string
	Org         string
}

// GeoLocator resolves an IP address to a GeoRecord.
type GeoLocator interface {
	Locate(ctx context.Context, ip string) (GeoRecord, error)
}

// HostResolver is the subset of *net.Resolver used for address lookups.
type HostResolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// RecordQuerier answers a single DNS question. *DNSResolver satisfies it.
type RecordQuerier interface {
	Query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error)
}

// ServerLookup resolves a domain to its first IPv4 address and geolocates it.
type ServerLookup struct {
	DNS   RecordQuerier
	Hosts HostResolver
	Geo   GeoLocator
}

// Lookup follows at most one CNAME hop before resolving the address. Longer
// chains are left to the system resolver.
func (l *ServerLookup) Lookup(ctx context.Context, domain string) (ServerInfo, error) {
	host := domain
	if l.DNS != nil {
		if answers, err := l.DNS.Query(ctx, domain, dns.TypeCNAME); err == nil {
			for _, rr := range answers {
				if cname, ok := rr.(*dns.CNAME); ok {
					host = strings.TrimSuffix(cname.Target, ".")
					break
				}
			}
		}
	}

	hosts := l.Hosts
	if hosts == nil {
		hosts = net.DefaultResolver
	}
	ips, err := hosts.LookupIP(ctx, "ip4", host)
	if err != nil || len(ips) == 0 {
		if err == nil {
			err = ErrNotFound
		}
		logger.Log.Warn().Err(err).Str("domain", domain).Str("host", host).Msg("IP resolution failed")
		return ServerInfo{}, &LookupError{Op: OpResolveIP, Kind: KindNotFound, Target: host, Err: err}
	}
	ip := ips[0].String()

	if l.Geo == nil {
		return ServerInfo{}, &LookupError{Op: OpServerInfo, Kind: KindMalformed, Target: domain, Err: errors.New("no geolocation provider configured")}
	}
	record, err := l.Geo.Locate(ctx, ip)
	if err != nil {
		return ServerInfo{}, Wrap(OpGeo, ip, err)
	}

	return ServerInfo{
		IPAddress: ip,
		Country:   FormatCountry(record.Country, record.CountryCode),
		ISP:       FormatISP(record.ISP, record.Org),
	}, nil
}

// FormatCountry renders "<name> (<code>)", with N/A for unknown parts.
func FormatCountry(name, code string) string {
	if name == "" {
		name = notAvailable
	}
	if code == "" {
		code = notAvailable
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

// FormatISP shows the ISP, adding the organization in parentheses when it
// differs. With no ISP the organization is shown alone.
func FormatISP(isp, org string) string {
	if isp == "" {
		isp = notAvailable
	}
	if org == "" || strings.EqualFold(org, isp) {
		return isp
	}
	if isp == notAvailable {
		return org
	}
	return fmt.Sprintf("%s (%s)", isp, org)
}

// IPAPIClient geolocates through an ip-api.com compatible JSON endpoint.
type IPAPIClient struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewIPAPIClient(opts LookupOptions) *IPAPIClient {
	base := opts.GeoAPIURL
	if base == "" {
		base = DefaultGeoAPIURL
	}
	return &IPAPIClient{
		BaseURL: strings.TrimSuffix(base, "/"),
		Timeout: opts.GeoTimeout,
	}
}

type ipAPIResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	ISP         string `json:"isp"`
	Org         string `json:"org"`
	Query       string `json:"query"`
}

func (c *IPAPIClient) Locate(ctx context.Context, ip string) (GeoRecord, error) {
	apiURL := fmt.Sprintf("%s/%s?fields=status,message,country,countryCode,isp,org,query", c.BaseURL, ip)

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return GeoRecord{}, &LookupError{Op: OpGeo, Kind: KindMalformed, Target: ip, Err: err}
	}

	client := c.HTTPClient
	if client == nil {
		client = newHTTPClient(0)
	}
	resp, err := client.Do(req)
	if err != nil {
		logger.Log.Error().Err(err).Str("api_url", apiURL).Msg("IP info API request failed")
		return GeoRecord{}, Wrap(OpGeo, ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		logger.Log.Error().Int("status", resp.StatusCode).Str("api_url", apiURL).Msg("IP info API returned an error status")
		return GeoRecord{}, &LookupError{Op: OpGeo, Kind: KindUnreachable, Target: ip, Err: fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status)}
	}

	var payload ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Log.Error().Err(err).Str("api_url", apiURL).Msg("IP info API response could not be decoded")
		return GeoRecord{}, &LookupError{Op: OpGeo, Kind: KindMalformed, Target: ip, Err: err}
	}
	if payload.Status != "success" {
		message := payload.Message
		if message == "" {
			message = "status " + payload.Status
		}
		logger.Log.Error().Str("api_url", apiURL).Str("message", message).Msg("IP info API reported a failure")
		return GeoRecord{}, &LookupError{Op: OpGeo, Kind: KindNotFound, Target: ip, Err: errors.New(message)}
	}

	return GeoRecord{
		Country:     payload.Country,
		CountryCode: payload.CountryCode,
		ISP:         payload.ISP,
		Org:         payload.Org,
	}, nil
}

// GeoDB geolocates from local MaxMind GeoLite2 databases. Either reader may
// be nil; the ASN organization stands in for the ISP.
type GeoDB struct {
	city *geoip2.Reader
	asn  *geoip2.Reader
}

// OpenGeoDB opens the City and ASN databases. At least one path is required.
func OpenGeoDB(cityDBPath, asnDBPath string) (*GeoDB, error) {
	if cityDBPath == "" && asnDBPath == "" {
		return nil, errors.New("no MaxMind database path provided")
	}
	g := &GeoDB{}
	if cityDBPath != "" {
		db, err := geoip2.Open(cityDBPath)
		if err != nil {
			return nil, fmt.Errorf("opening GeoLite2-City database at %s: %w", cityDBPath, err)
		}
		g.city = db
		logger.Log.Info().Str("path", cityDBPath).Msg("loaded GeoLite2-City database")
	}
	if asnDBPath != "" {
		db, err := geoip2.Open(asnDBPath)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("opening GeoLite2-ASN database at %s: %w", asnDBPath, err)
		}
		g.asn = db
		logger.Log.Info().Str("path", asnDBPath).Msg("loaded GeoLite2-ASN database")
	}
	return g, nil
}

func (g *GeoDB) Locate(_ context.Context, ip string) (GeoRecord, error) {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return GeoRecord{}, &LookupError{Op: OpGeo, Kind: KindMalformed, Target: ip, Err: fmt.Errorf("invalid IP address %q", ip)}
	}

	var record GeoRecord
	if g.city != nil {
		cityRecord, err := g.city.City(parsedIP)
		if err != nil {
			return GeoRecord{}, &LookupError{Op: OpGeo, Kind: KindMalformed, Target: ip, Err: err}
		}
		record.Country = cityRecord.Country.Names["en"]
		record.CountryCode = cityRecord.Country.IsoCode
	}
	if g.asn != nil {
		asnRecord, err := g.asn.ASN(parsedIP)
		if err != nil {
			return GeoRecord{}, &LookupError{Op: OpGeo, Kind: KindMalformed, Target: ip, Err: err}
		}
		record.ISP = asnRecord.AutonomousSystemOrganization
	}
	if record == (GeoRecord{}) {
		return GeoRecord{}, &LookupError{Op: OpGeo, Kind: KindNotFound, Target: ip, Err: fmt.Errorf("no database entry for %s", ip)}
	}
	return record, nil
}

// Close releases both readers.
func (g *GeoDB) Close() {
	if g.city != nil {
		if err := g.city.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("closing GeoLite2-City database")
		}
	}
	if g.asn != nil {
		if err := g.asn.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("closing GeoLite2-ASN database")
		}
	}
}
