package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vit0-9/site_analyzer/models"
	"github.com/vit0-9/site_analyzer/pkg/logger"
	"github.com/vit0-9/site_analyzer/pkg/metrics"
	"github.com/vit0-9/site_analyzer/pkg/utils"
	"github.com/vit0-9/site_analyzer/pkg/utils/domain"
)

// Analyzer builds reports. Sections run one after another and a failure in
// one of them only affects its own slot.
type Analyzer struct {
	lookups Lookups
}

func NewAnalyzer(lookups Lookups) *Analyzer {
	return &Analyzer{lookups: lookups}
}

// Analyze normalizes rawURL and collects every section for it.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) models.Report {
	targetURL, d := utils.NormalizeTarget(rawURL)
	logger.Log.Info().Str("url", targetURL).Str("domain", d).Msg("starting analysis")

	registration := a.Registration(ctx, d)
	techStack := a.TechStack(ctx, targetURL)
	existence := registeredSince(a.FirstSeen(ctx, d), registration)

	return models.Report{
		URL:           models.SafeURLString(targetURL),
		DomainInfo:    registration,
		TechStack:     techStack,
		ExistenceDate: existence,
		SEOInfo:       a.SEO(ctx, targetURL),
		DNSInfo:       a.DNS(ctx, d),
		ServerInfo:    a.ServerInfo(ctx, d),
	}
}

// registeredSince falls back to the WHOIS creation date when the archive
// gave no first-seen date.
func registeredSince(seen models.FirstSeen, reg models.Section[domain.Registration]) models.FirstSeen {
	if seen.Err == nil || reg.Err != nil {
		return seen
	}
	created, _ := reg.Data["creation_date"].(string)
	if created == "" {
		return seen
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		created = t.Format(registeredLayout)
	}
	logger.Log.Debug().Str("creation_date", created).Msg("using registration date as first-seen date")
	return models.FirstSeenText(registeredPrefix + created)
}

func (a *Analyzer) Registration(ctx context.Context, d string) models.Section[domain.Registration] {
	return run(ctx, utils.OpWhois, d, a.lookups.Registration)
}

func (a *Analyzer) TechStack(ctx context.Context, targetURL string) models.Section[utils.TechStack] {
	section := run(ctx, utils.OpTechStack, targetURL, a.lookups.TechStack)
	if section.Err == nil && section.Data == nil {
		section.Data = utils.TechStack{}
	}
	return section
}

func (a *Analyzer) FirstSeen(ctx context.Context, d string) models.FirstSeen {
	section := run(ctx, utils.OpArchive, d, a.lookups.FirstSeen)
	if section.Err != nil {
		return models.FirstSeenFailed(section.Err)
	}
	return models.FirstSeenAt(section.Data)
}

func (a *Analyzer) SEO(ctx context.Context, targetURL string) models.Section[utils.SEOInfo] {
	return run(ctx, utils.OpSEO, targetURL, a.lookups.SEO)
}

func (a *Analyzer) DNS(ctx context.Context, d string) models.Section[utils.DNSRecordSet] {
	return run(ctx, utils.OpDNS, d, a.lookups.DNS)
}

func (a *Analyzer) ServerInfo(ctx context.Context, d string) models.Section[utils.ServerInfo] {
	return run(ctx, utils.OpServerInfo, d, a.lookups.ServerInfo)
}

// run executes one lookup, converting errors and panics into a failed section.
func run[T any](ctx context.Context, op, target string, lookup func(context.Context, string) (T, error)) (section models.Section[T]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().Str("section", op).Str("target", target).Interface("panic", r).Msg("lookup panicked")
			section = models.Failed[T](&utils.LookupError{Op: op, Kind: utils.KindMalformed, Target: target, Err: fmt.Errorf("panic: %v", r)})
		}
		metrics.ObserveLookup(op, section.Err != nil, time.Since(start))
	}()

	data, err := lookup(ctx, target)
	if err != nil {
		err = utils.Wrap(op, target, err)
		logLookupFailure(op, target, err)
		return models.Failed[T](err)
	}
	return models.Ok(data)
}

func logLookupFailure(op, target string, err error) {
	var lerr *utils.LookupError
	if !errors.As(err, &lerr) {
		return
	}
	event := logger.Log.Warn()
	if lerr.Kind == utils.KindMalformed {
		event = logger.Log.Error()
	}
	event.Str("section", op).
		Str("target", target).
		Str("kind", lerr.Kind.String()).
		Str("detail", lerr.Detail()).
		Msg("lookup failed")
}
