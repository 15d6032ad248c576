package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vit0-9/site_analyzer/pkg/utils"
	"github.com/vit0-9/site_analyzer/pkg/utils/domain"
)

type offlineLookups struct{}

func (offlineLookups) Registration(context.Context, string) (domain.Registration, error) {
	return nil, utils.ErrNotFound
}
func (offlineLookups) TechStack(context.Context, string) (utils.TechStack, error) {
	return utils.TechStack{}, nil
}
func (offlineLookups) FirstSeen(context.Context, string) (time.Time, error) {
	return time.Time{}, utils.ErrNotFound
}
func (offlineLookups) SEO(context.Context, string) (utils.SEOInfo, error) {
	return utils.SEOInfo{}, nil
}
func (offlineLookups) DNS(context.Context, string) (utils.DNSRecordSet, error) {
	return utils.DNSRecordSet{}, nil
}
func (offlineLookups) ServerInfo(context.Context, string) (utils.ServerInfo, error) {
	return utils.ServerInfo{}, nil
}

func TestAppRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := NewApp(offlineLookups{})
	require.NoError(t, err)

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/", http.StatusOK, "v0.9.0"},
		{"/api/v1/health", http.StatusOK, `"status":"UP"`},
		{"/api/v1/web/wayback?domain=example.com", http.StatusOK, "No snapshots were found in the Wayback Machine."},
		{"/api/v1/net/server-info", http.StatusBadRequest, "domain query parameter is required"},
		{"/metrics", http.StatusOK, "site_analyzer_http_requests_total"},
		{"/swagger/doc.json", http.StatusOK, "Site Analyzer API"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}
