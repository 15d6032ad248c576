package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seoPage = `<!doctype html>
<html><head>
<title>  Example   Domain </title>
<meta name="description" content="An example page">
<meta name="keywords" content="example, test">
</head><body>
<h1>First
  heading</h1>
<div><h1>Second</h1></div>
</body></html>`

func TestExtractSEO(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(seoPage))
	}))
	defer srv.Close()

	info, err := ExtractSEO(context.Background(), srv.URL, LookupOptions{PageTimeout: 2 * time.Second})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotUA, "Mozilla/5.0"))
	assert.Equal(t, "Example Domain", info.Title)
	assert.Equal(t, "An example page", info.MetaDescription)
	assert.Equal(t, "example, test", info.MetaKeywords)
	assert.Equal(t, StringList{"First heading", "Second"}, info.H1Tags)
}

func TestExtractSEOMissingFieldsUseSentinel(t *testing.T) {
	info, err := ParseSEO([]byte(`<html><body><p>nothing here</p></body></html>`), "text/html")
	require.NoError(t, err)

	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Not found","meta_description":"Not found","meta_keywords":"Not found","h1_tags":[]}`, string(data))
}

func TestParseSEOTranscodesCharset(t *testing.T) {
	body := []byte("<html><head><title>Caf\xe9</title></head></html>")
	info, err := ParseSEO(body, "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "Café", info.Title)
}

func TestExtractSEOErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := ExtractSEO(context.Background(), srv.URL, LookupOptions{PageTimeout: 2 * time.Second})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to fetch page content:"))
}

func TestExtractSEOUnresolvableHost(t *testing.T) {
	_, err := ExtractSEO(context.Background(), "http://no-such-host.invalid", LookupOptions{PageTimeout: 5 * time.Second})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to fetch page content"), err.Error())

	var lerr *LookupError
	require.ErrorAs(t, err, &lerr)
	assert.NotEqual(t, KindNotFound, lerr.Kind)
}
