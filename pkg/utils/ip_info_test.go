package utils

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	cname string
}

func (f fakeQuerier) Query(_ context.Context, name string, qtype uint16) ([]dns.RR, error) {
	if f.cname == "" {
		return nil, &LookupError{Op: OpDNSRecord, Kind: KindNotFound, Target: "CNAME", Err: ErrNoAnswer}
	}
	return []dns.RR{&dns.CNAME{Hdr: hdr(name, dns.TypeCNAME), Target: dns.Fqdn(f.cname)}}, nil
}

type fakeHosts struct {
	ips     map[string][]net.IP
	queried []string
}

func (f *fakeHosts) LookupIP(_ context.Context, network, host string) ([]net.IP, error) {
	f.queried = append(f.queried, host)
	if ips, ok := f.ips[host]; ok {
		return ips, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

type fakeGeo struct {
	record GeoRecord
	err    error
}

func (f fakeGeo) Locate(context.Context, string) (GeoRecord, error) { return f.record, f.err }

func TestServerLookupWithoutCNAMEResolvesDomain(t *testing.T) {
	hosts := &fakeHosts{ips: map[string][]net.IP{"example.com": {net.ParseIP("93.184.216.34")}}}
	lookup := &ServerLookup{
		DNS:   fakeQuerier{},
		Hosts: hosts,
		Geo:   fakeGeo{record: GeoRecord{Country: "United States", CountryCode: "US", ISP: "Edgecast", Org: "edgecast"}},
	}

	info, err := lookup.Lookup(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, hosts.queried)
	assert.Equal(t, ServerInfo{IPAddress: "93.184.216.34", Country: "United States (US)", ISP: "Edgecast"}, info)
}

func TestServerLookupFollowsOneCNAME(t *testing.T) {
	hosts := &fakeHosts{ips: map[string][]net.IP{"edge.cdn.example.net": {net.ParseIP("203.0.113.7")}}}
	lookup := &ServerLookup{
		DNS:   fakeQuerier{cname: "edge.cdn.example.net"},
		Hosts: hosts,
		Geo:   fakeGeo{record: GeoRecord{Country: "Japan", CountryCode: "JP", ISP: "CDN Inc", Org: "Example Org"}},
	}

	info, err := lookup.Lookup(context.Background(), "www.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"edge.cdn.example.net"}, hosts.queried)
	assert.Equal(t, "203.0.113.7", info.IPAddress)
	assert.Equal(t, "CDN Inc (Example Org)", info.ISP)
}

func TestServerLookupErrors(t *testing.T) {
	lookup := &ServerLookup{DNS: fakeQuerier{}, Hosts: &fakeHosts{}, Geo: fakeGeo{}}
	_, err := lookup.Lookup(context.Background(), "nowhere.invalid")
	require.Error(t, err)
	assert.Equal(t, "Failed to resolve IP address (invalid domain or unreachable)", err.Error())

	lookup = &ServerLookup{
		DNS:   fakeQuerier{},
		Hosts: &fakeHosts{ips: map[string][]net.IP{"example.com": {net.ParseIP("192.0.2.1")}}},
		Geo:   fakeGeo{err: &LookupError{Op: OpGeo, Kind: KindNotFound, Err: errors.New("reserved range")}},
	}
	_, err = lookup.Lookup(context.Background(), "example.com")
	require.Error(t, err)
	assert.Equal(t, "IP info API error: reserved range", err.Error())
}

func TestFormatISP(t *testing.T) {
	tests := []struct {
		isp, org, want string
	}{
		{"Google LLC", "Google LLC", "Google LLC"},
		{"Google LLC", "google llc", "Google LLC"},
		{"Cloudflare, Inc.", "Example Org", "Cloudflare, Inc. (Example Org)"},
		{"", "Example Org", "Example Org"},
		{"", "", "N/A"},
		{"Akamai", "", "Akamai"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatISP(tt.isp, tt.org), "isp=%q org=%q", tt.isp, tt.org)
	}
	assert.Equal(t, "N/A (N/A)", FormatCountry("", ""))
}

func TestIPAPIClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/93.184.216.34", r.URL.Path)
		assert.Equal(t, "status,message,country,countryCode,isp,org,query", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"status":"success","country":"United States","countryCode":"US","isp":"Edgecast","org":"Verizon","query":"93.184.216.34"}`))
	}))
	defer srv.Close()

	client := NewIPAPIClient(LookupOptions{GeoAPIURL: srv.URL, GeoTimeout: 2 * time.Second})
	record, err := client.Locate(context.Background(), "93.184.216.34")
	require.NoError(t, err)
	assert.Equal(t, GeoRecord{Country: "United States", CountryCode: "US", ISP: "Edgecast", Org: "Verizon"}, record)
}

func TestIPAPIClientFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range","query":"10.0.0.1"}`))
	}))
	defer srv.Close()

	client := NewIPAPIClient(LookupOptions{GeoAPIURL: srv.URL})
	_, err := client.Locate(context.Background(), "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, "IP info API error: private range", err.Error())
}

func TestIPAPIClientUnresolvableHost(t *testing.T) {
	client := NewIPAPIClient(LookupOptions{GeoAPIURL: "http://geo.invalid/json", GeoTimeout: 5 * time.Second})
	_, err := client.Locate(context.Background(), "93.184.216.34")
	require.Error(t, err)
	assert.Equal(t, "Failed to access the IP info API", err.Error())

	var lerr *LookupError
	require.ErrorAs(t, err, &lerr)
	assert.NotEqual(t, KindNotFound, lerr.Kind)
}
