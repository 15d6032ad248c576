package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// NotFoundText stands in for an SEO field the page does not carry.
const NotFoundText = "Not found"

// SEOInfo holds the on-page signals read from a document. Empty fields
// serialize as NotFoundText.
type SEOInfo struct {
	Title           string
	MetaDescription string
	MetaKeywords    string
	H1Tags          StringList
}

type seoInfoJSON struct {
	Title           string     `json:"title"`
	MetaDescription string     `json:"meta_description"`
	MetaKeywords    string     `json:"meta_keywords"`
	H1Tags          StringList `json:"h1_tags"`
}

func orNotFound(s string) string {
	if s == "" {
		return NotFoundText
	}
	return s
}

func (s SEOInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(seoInfoJSON{
		Title:           orNotFound(s.Title),
		MetaDescription: orNotFound(s.MetaDescription),
		MetaKeywords:    orNotFound(s.MetaKeywords),
		H1Tags:          s.H1Tags,
	})
}

func (s *SEOInfo) UnmarshalJSON(data []byte) error {
	var raw seoInfoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SEOInfo{
		Title:           raw.Title,
		MetaDescription: raw.MetaDescription,
		MetaKeywords:    raw.MetaKeywords,
		H1Tags:          raw.H1Tags,
	}
	return nil
}

// ExtractSEO fetches targetURL and reads its title, meta tags and h1 headings.
func ExtractSEO(ctx context.Context, targetURL string, opts LookupOptions) (SEOInfo, error) {
	fetchResult, err := FetchURL(ctx, targetURL, opts.UserAgent, opts.PageTimeout)
	if err != nil {
		return SEOInfo{}, Wrap(OpSEO, targetURL, err)
	}
	if fetchResult.StatusCode >= http.StatusBadRequest {
		return SEOInfo{}, &LookupError{
			Op:     OpSEO,
			Kind:   KindUnreachable,
			Target: targetURL,
			Err:    fmt.Errorf("%w: %s", ErrUpstreamStatus, fetchResult.Status),
		}
	}

	info, err := ParseSEO(fetchResult.Body, fetchResult.Headers.Get("Content-Type"))
	if err != nil {
		return SEOInfo{}, &LookupError{Op: OpSEO, Kind: KindMalformed, Target: targetURL, Err: err}
	}
	return info, nil
}

// ParseSEO extracts SEO signals from an HTML body, transcoding it to UTF-8
// according to contentType and any in-document charset declaration.
func ParseSEO(body []byte, contentType string) (SEOInfo, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return SEOInfo{}, fmt.Errorf("detecting document charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return SEOInfo{}, fmt.Errorf("parsing HTML: %w", err)
	}

	info := SEOInfo{
		Title:  collapseSpace(doc.Find("title").First().Text()),
		H1Tags: StringList{},
	}
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		info.MetaDescription = strings.TrimSpace(content)
	}
	if content, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		info.MetaKeywords = strings.TrimSpace(content)
	}
	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		info.H1Tags = append(info.H1Tags, collapseSpace(s.Text()))
	})
	return info, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
