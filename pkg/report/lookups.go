package report

import (
	"context"
	"net"
	"time"

	"github.com/vit0-9/site_analyzer/pkg/utils"
	"github.com/vit0-9/site_analyzer/pkg/utils/domain"
)

// Lookups is the set of external capabilities a report is built from.
type Lookups interface {
	Registration(ctx context.Context, domain string) (domain.Registration, error)
	TechStack(ctx context.Context, targetURL string) (utils.TechStack, error)
	FirstSeen(ctx context.Context, domain string) (time.Time, error)
	SEO(ctx context.Context, targetURL string) (utils.SEOInfo, error)
	DNS(ctx context.Context, domain string) (utils.DNSRecordSet, error)
	ServerInfo(ctx context.Context, domain string) (utils.ServerInfo, error)
}

// LiveLookups performs every lookup against the real upstream services.
type LiveLookups struct {
	opts     utils.LookupOptions
	resolver *utils.DNSResolver
	server   *utils.ServerLookup
}

// NewLiveLookups wires the network lookups. geo may be nil, in which case the
// ip-api.com compatible endpoint from opts is used.
func NewLiveLookups(opts utils.LookupOptions, geo utils.GeoLocator) *LiveLookups {
	if geo == nil {
		geo = utils.NewIPAPIClient(opts)
	}
	resolver := utils.NewDNSResolver(opts)
	return &LiveLookups{
		opts:     opts,
		resolver: resolver,
		server: &utils.ServerLookup{
			DNS:   resolver,
			Hosts: net.DefaultResolver,
			Geo:   geo,
		},
	}
}

func (l *LiveLookups) Registration(ctx context.Context, d string) (domain.Registration, error) {
	return domain.LookupRegistration(ctx, d, l.opts.WhoisTimeout)
}

func (l *LiveLookups) TechStack(ctx context.Context, targetURL string) (utils.TechStack, error) {
	return utils.AnalyzeStack(ctx, targetURL, l.opts)
}

func (l *LiveLookups) FirstSeen(ctx context.Context, d string) (time.Time, error) {
	return utils.LookupFirstSeen(ctx, d, l.opts)
}

func (l *LiveLookups) SEO(ctx context.Context, targetURL string) (utils.SEOInfo, error) {
	return utils.ExtractSEO(ctx, targetURL, l.opts)
}

func (l *LiveLookups) DNS(ctx context.Context, d string) (utils.DNSRecordSet, error) {
	return utils.LookupDNSRecords(ctx, l.resolver, d)
}

func (l *LiveLookups) ServerInfo(ctx context.Context, d string) (utils.ServerInfo, error) {
	return l.server.Lookup(ctx, d)
}
