package report

import (
	"strings"
	"time"

	"github.com/vit0-9/site_analyzer/pkg/utils"
)

// Filename is the download name for a report on url generated at now:
// website-analysis-<domain>-<YYYY-MM-DD>.pdf.
func Filename(url string, now time.Time) string {
	host := strings.TrimPrefix(strings.ToLower(utils.HostFromURL(strings.TrimSpace(url))), "www.")
	host = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, host)
	if host == "" {
		host = "report"
	}
	return "website-analysis-" + host + "-" + now.Format("2006-01-02") + ".pdf"
}
