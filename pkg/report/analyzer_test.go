package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vit0-9/site_analyzer/models"
	"github.com/vit0-9/site_analyzer/pkg/utils"
	"github.com/vit0-9/site_analyzer/pkg/utils/domain"
)

type fakeLookups struct {
	registration domain.Registration
	tech         utils.TechStack
	firstSeen    time.Time
	seo          utils.SEOInfo
	dns          utils.DNSRecordSet
	server       utils.ServerInfo
	errs         map[string]error
	panicOn      string
	calls        []string
}

func (f *fakeLookups) record(op, target string) error {
	f.calls = append(f.calls, op+":"+target)
	if f.panicOn == op {
		panic("lookup exploded")
	}
	return f.errs[op]
}

func (f *fakeLookups) Registration(_ context.Context, d string) (domain.Registration, error) {
	return f.registration, f.record(utils.OpWhois, d)
}

func (f *fakeLookups) TechStack(_ context.Context, u string) (utils.TechStack, error) {
	return f.tech, f.record(utils.OpTechStack, u)
}

func (f *fakeLookups) FirstSeen(_ context.Context, d string) (time.Time, error) {
	return f.firstSeen, f.record(utils.OpArchive, d)
}

func (f *fakeLookups) SEO(_ context.Context, u string) (utils.SEOInfo, error) {
	return f.seo, f.record(utils.OpSEO, u)
}

func (f *fakeLookups) DNS(_ context.Context, d string) (utils.DNSRecordSet, error) {
	return f.dns, f.record(utils.OpDNS, d)
}

func (f *fakeLookups) ServerInfo(_ context.Context, d string) (utils.ServerInfo, error) {
	return f.server, f.record(utils.OpServerInfo, d)
}

func sampleLookups() *fakeLookups {
	return &fakeLookups{
		registration: domain.Registration{
			"domain_name":  "example.com",
			"registrar":    "RESERVED-Internet Assigned Numbers Authority",
			"name_servers": utils.StringList{"a.iana-servers.net", "b.iana-servers.net"},
		},
		tech:      utils.TechStack{"Web servers": {"Nginx"}},
		firstSeen: time.Date(1996, time.January, 1, 0, 0, 0, 0, time.UTC),
		seo:       utils.SEOInfo{Title: "Example Domain", H1Tags: utils.StringList{"Example Domain"}},
		dns: utils.DNSRecordSet{Entries: []utils.DNSEntry{
			{Type: "A", Records: utils.StringList{"93.184.216.34"}},
			{Type: "MX", Err: &utils.LookupError{Op: utils.OpDNSRecord, Kind: utils.KindNotFound, Target: "MX", Err: utils.ErrNoAnswer}},
		}},
		server: utils.ServerInfo{IPAddress: "93.184.216.34", Country: "United States (US)", ISP: "Edgecast"},
	}
}

func TestAnalyzeRunsSectionsInOrder(t *testing.T) {
	lookups := sampleLookups()
	r := NewAnalyzer(lookups).Analyze(context.Background(), "example.com")

	assert.Equal(t, models.SafeURLString("http://example.com"), r.URL)
	assert.Equal(t, []string{
		"whois:example.com",
		"tech_stack:http://example.com",
		"archive:example.com",
		"seo:http://example.com",
		"dns:example.com",
		"server_info:example.com",
	}, lookups.calls)
	assert.Equal(t, "Around January 1, 1996", r.ExistenceDate.Text())
}

func TestAnalyzeIsolatesFailures(t *testing.T) {
	lookups := sampleLookups()
	lookups.errs = map[string]error{
		utils.OpWhois: errors.New("connection reset"),
		utils.OpDNS:   &utils.LookupError{Op: utils.OpDNS, Kind: utils.KindNotFound, Target: "example.com", Err: utils.ErrNXDomain},
	}
	lookups.panicOn = utils.OpSEO

	r := NewAnalyzer(lookups).Analyze(context.Background(), "example.com")

	require.Error(t, r.DomainInfo.Err)
	assert.Equal(t, "Failed to retrieve WHOIS information: connection reset", r.DomainInfo.Err.Error())
	require.Error(t, r.SEOInfo.Err)
	assert.Contains(t, r.SEOInfo.Err.Error(), "Error while parsing SEO information")
	assert.NoError(t, r.ServerInfo.Err)
	assert.Len(t, lookups.calls, 6)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `{"error":"Domain does not exist (NXDOMAIN)"}`, string(raw["dns_info"]))
	assert.JSONEq(t, `{"ip_address":"93.184.216.34","country":"United States (US)","isp":"Edgecast"}`, string(raw["server_info"]))
}

func TestAnalyzeEmptyTechStackIsEmptyMapping(t *testing.T) {
	lookups := sampleLookups()
	lookups.tech = nil

	r := NewAnalyzer(lookups).Analyze(context.Background(), "example.com")
	require.NoError(t, r.TechStack.Err)

	data, err := json.Marshal(r.TechStack)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestArchiveMissIsReportedAsText(t *testing.T) {
	lookups := sampleLookups()
	lookups.errs = map[string]error{
		utils.OpArchive: &utils.LookupError{Op: utils.OpArchive, Kind: utils.KindNotFound, Err: utils.ErrNotFound},
	}

	r := NewAnalyzer(lookups).Analyze(context.Background(), "example.com")
	data, err := json.Marshal(r.ExistenceDate)
	require.NoError(t, err)
	assert.Equal(t, `"No snapshots were found in the Wayback Machine."`, string(data))
}

func TestArchiveMissFallsBackToRegistrationDate(t *testing.T) {
	archiveMiss := &utils.LookupError{Op: utils.OpArchive, Kind: utils.KindNotFound, Err: utils.ErrNotFound}
	archiveDown := &utils.LookupError{Op: utils.OpArchive, Kind: utils.KindUnreachable, Err: utils.ErrUpstreamStatus}

	tests := []struct {
		name    string
		created any
		errs    map[string]error
		want    string
	}{
		{"no snapshots", "1995-08-14T04:00:00Z", map[string]error{utils.OpArchive: archiveMiss}, "Domain registered: August 14, 1995"},
		{"archive unreachable", "1995-08-14T04:00:00Z", map[string]error{utils.OpArchive: archiveDown}, "Domain registered: August 14, 1995"},
		{"unparsed date kept as is", "14-aug-1995", map[string]error{utils.OpArchive: archiveMiss}, "Domain registered: 14-aug-1995"},
		{"archive answered", "1995-08-14T04:00:00Z", nil, "Around January 1, 1996"},
		{"no creation date", nil, map[string]error{utils.OpArchive: archiveMiss}, "No snapshots were found in the Wayback Machine."},
		{"whois failed", "1995-08-14T04:00:00Z", map[string]error{utils.OpArchive: archiveMiss, utils.OpWhois: errors.New("timeout")}, "No snapshots were found in the Wayback Machine."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookups := sampleLookups()
			if tt.created != nil {
				lookups.registration["creation_date"] = tt.created
			}
			lookups.errs = tt.errs

			r := NewAnalyzer(lookups).Analyze(context.Background(), "example.com")
			assert.Equal(t, tt.want, r.ExistenceDate.Text())

			data, err := json.Marshal(r.ExistenceDate)
			require.NoError(t, err)
			want, err := json.Marshal(tt.want)
			require.NoError(t, err)
			assert.JSONEq(t, string(want), string(data))
		})
	}
}
