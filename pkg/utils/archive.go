package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vit0-9/site_analyzer/pkg/logger"
)

const (
	archiveTimestampLayout = "20060102150405"
	archiveDateLayout      = "20060102"
	firstSeenLayout        = "January 2, 2006"
)

// LookupFirstSeen asks the archive CDX index for the domain's earliest
// snapshot and returns its capture time.
func LookupFirstSeen(ctx context.Context, domain string, opts LookupOptions) (time.Time, error) {
	base := opts.ArchiveCDXURL
	if base == "" {
		base = DefaultArchiveCDXURL
	}
	query := url.Values{}
	query.Set("url", domain)
	query.Set("output", "json")
	query.Set("fl", "timestamp")
	query.Set("limit", "1")
	query.Set("sort", "asc")
	apiURL := base + "?" + query.Encode()

	if opts.ArchiveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ArchiveTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return time.Time{}, &LookupError{Op: OpArchive, Kind: KindMalformed, Target: domain, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := newHTTPClient(0).Do(req)
	if err != nil {
		logger.Log.Warn().Err(err).Str("api_url", apiURL).Msg("archive index request failed")
		return time.Time{}, Wrap(OpArchive, domain, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return time.Time{}, &LookupError{
			Op:     OpArchive,
			Kind:   KindUnreachable,
			Target: domain,
			Err:    fmt.Errorf("%w: %s", ErrUpstreamStatus, resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return time.Time{}, Wrap(OpArchive, domain, err)
	}

	timestamp, err := firstArchiveTimestamp(body)
	if err != nil {
		return time.Time{}, Wrap(OpArchive, domain, err)
	}
	seen, err := ParseArchiveTimestamp(timestamp)
	if err != nil {
		return time.Time{}, &LookupError{Op: OpArchive, Kind: KindMalformed, Target: domain, Err: err}
	}
	return seen, nil
}

// firstArchiveTimestamp reads the CDX JSON output, whose first row is the
// field header.
func firstArchiveTimestamp(body []byte) (string, error) {
	if len(body) == 0 {
		return "", ErrNotFound
	}
	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return "", fmt.Errorf("decoding archive index response: %w", err)
	}
	if len(rows) < 2 || len(rows[1]) == 0 {
		return "", ErrNotFound
	}
	return rows[1][0], nil
}

// ParseArchiveTimestamp parses a YYYYMMDDHHMMSS capture timestamp. Truncated
// timestamps are accepted as long as the date part is present.
func ParseArchiveTimestamp(ts string) (time.Time, error) {
	if len(ts) >= len(archiveTimestampLayout) {
		if t, err := time.Parse(archiveTimestampLayout, ts[:len(archiveTimestampLayout)]); err == nil {
			return t, nil
		}
	}
	if len(ts) < len(archiveDateLayout) {
		return time.Time{}, fmt.Errorf("archive timestamp %q is too short", ts)
	}
	t, err := time.Parse(archiveDateLayout, ts[:len(archiveDateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid archive timestamp %q: %w", ts, err)
	}
	return t, nil
}

// FormatFirstSeen renders a capture time as the report's first-seen text.
func FormatFirstSeen(t time.Time) string {
	return "Around " + t.Format(firstSeenLayout)
}
