package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/site_analyzer/models"
	"github.com/vit0-9/site_analyzer/pkg/report"
	"github.com/vit0-9/site_analyzer/pkg/utils"
)

// WebAnalysisHandlers serves the page-level report sections one at a time.
type WebAnalysisHandlers struct {
	analyzer *report.Analyzer
}

func NewWebAnalysisHandlers(analyzer *report.Analyzer) *WebAnalysisHandlers {
	return &WebAnalysisHandlers{analyzer: analyzer}
}

func urlParam(c *gin.Context) (string, bool) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "url query parameter is required"})
		return "", false
	}
	targetURL, _ := utils.NormalizeTarget(raw)
	return targetURL, true
}

// StackAnalyzerHandler godoc
// @Summary      Technology stack of a website
// @Description  Fetches the page and fingerprints it, grouping detected technologies by category. No detections yield an empty object.
// @Tags         Web Analysis
// @Produce      json
// @Param        url query string true "URL of the website to analyze"
// @Success      200 {object} models.StackAnalyzerResponse "Technologies by category, or {\"error\": ...} in tech_stack"
// @Failure      400 {object} models.ErrorResponse "Missing URL"
// @Router       /api/v1/web/tech-stack [get]
func (h *WebAnalysisHandlers) StackAnalyzerHandler(c *gin.Context) {
	targetURL, ok := urlParam(c)
	if !ok {
		return
	}
	c.PureJSON(http.StatusOK, models.StackAnalyzerResponse{
		URL:       models.SafeURLString(targetURL),
		TechStack: h.analyzer.TechStack(c.Request.Context(), targetURL),
	})
}

// SEOHandler godoc
// @Summary      On-page SEO signals
// @Description  Extracts the title, meta description, meta keywords and h1 headings. Missing fields read "Not found".
// @Tags         Web Analysis
// @Produce      json
// @Param        url query string true "URL of the page"
// @Success      200 {object} models.SEOResponse "SEO fields, or {\"error\": ...} in seo_info"
// @Failure      400 {object} models.ErrorResponse "Missing URL"
// @Router       /api/v1/web/seo [get]
func (h *WebAnalysisHandlers) SEOHandler(c *gin.Context) {
	targetURL, ok := urlParam(c)
	if !ok {
		return
	}
	c.PureJSON(http.StatusOK, models.SEOResponse{
		URL:     models.SafeURLString(targetURL),
		SEOInfo: h.analyzer.SEO(c.Request.Context(), targetURL),
	})
}

// WaybackHandler godoc
// @Summary      First archived snapshot of a domain
// @Description  Asks the Wayback Machine CDX index for the earliest capture and formats its date.
// @Tags         Web Analysis
// @Produce      json
// @Param        domain query string true "Domain to look up"
// @Success      200 {object} models.WaybackResponse "First-seen text or the reason it is unknown"
// @Failure      400 {object} models.ErrorResponse "Missing domain"
// @Router       /api/v1/web/wayback [get]
func (h *WebAnalysisHandlers) WaybackHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}
	c.PureJSON(http.StatusOK, models.WaybackResponse{
		Domain:        d,
		ExistenceDate: h.analyzer.FirstSeen(c.Request.Context(), d),
	})
}
