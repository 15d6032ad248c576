package utils

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	wappalyze "github.com/projectdiscovery/wappalyzergo"

	"github.com/vit0-9/site_analyzer/pkg/logger"
)

var (
	wappalyzerClient   *wappalyze.Wappalyze
	wappalyzerInitOnce sync.Once
	wappalyzerInitErr  error
)

const (
	versionSeparator = ":"
	otherCategory    = "Other"
)

func initializeWappalyzer() {
	wappalyzerInitOnce.Do(func() {
		var err error
		wappalyzerClient, err = wappalyze.New()
		if err != nil {
			wappalyzerInitErr = fmt.Errorf("failed to initialize wappalyzer client: %w", err)
			logger.Log.Error().Err(err).Msg("wappalyzer initialization failed")
			return
		}
		logger.Log.Info().Msg("wappalyzer client initialized")
	})
}

// TechStack maps a technology category to the technologies detected in it.
type TechStack map[string]StringList

// AnalyzeStack fetches targetURL and fingerprints the response. A page with no
// recognisable technology yields an empty, non-nil TechStack.
func AnalyzeStack(ctx context.Context, targetURL string, opts LookupOptions) (TechStack, error) {
	initializeWappalyzer()
	if wappalyzerInitErr != nil {
		return nil, &LookupError{Op: OpTechStack, Kind: KindMalformed, Target: targetURL, Err: wappalyzerInitErr}
	}

	fetchResult, err := FetchURL(ctx, targetURL, opts.UserAgent, opts.PageTimeout)
	if err != nil {
		return nil, Wrap(OpTechStack, targetURL, err)
	}

	logger.Log.Debug().
		Str("url", fetchResult.FinalURL).
		Int("status", fetchResult.StatusCode).
		Str("content_type", fetchResult.Headers.Get("Content-Type")).
		Msg("fingerprinting response")

	detected := wappalyzerClient.FingerprintWithInfo(fetchResult.Headers, fetchResult.Body)
	return groupByCategory(detected), nil
}

// groupByCategory turns wappalyzer's per-app result into category -> names.
func groupByCategory(detected map[string]wappalyze.AppInfo) TechStack {
	stack := TechStack{}
	for appKey, appInfo := range detected {
		name := technologyName(appKey)
		categories := appInfo.Categories
		if len(categories) == 0 {
			categories = []string{otherCategory}
		}
		for _, category := range categories {
			stack[category] = append(stack[category], name)
		}
	}
	for category, names := range stack {
		sort.Strings(names)
		stack[category] = dedupeSorted(names)
	}
	return stack
}

// technologyName renders wappalyzer's "Name:Version" key for display.
func technologyName(appKey string) string {
	name, version, found := strings.Cut(appKey, versionSeparator)
	if !found || version == "" {
		return name
	}
	return name + " " + version
}

func dedupeSorted(in StringList) StringList {
	out := in[:0]
	for i, s := range in {
		if i == 0 || s != in[i-1] {
			out = append(out, s)
		}
	}
	return out
}
