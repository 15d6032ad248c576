package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/site_analyzer/models"
	"github.com/vit0-9/site_analyzer/pkg/logger"
	"github.com/vit0-9/site_analyzer/pkg/metrics"
	"github.com/vit0-9/site_analyzer/pkg/report"
)

const maxReportBytes = 5 << 20

// AnalysisHandlers serves the full-report endpoints.
type AnalysisHandlers struct {
	analyzer *report.Analyzer
	renderer *report.Renderer
	now      func() time.Time
}

func NewAnalysisHandlers(analyzer *report.Analyzer, renderer *report.Renderer) *AnalysisHandlers {
	return &AnalysisHandlers{analyzer: analyzer, renderer: renderer, now: time.Now}
}

// AnalyzeHandler godoc
// @Summary      Analyze a website
// @Description  Runs every lookup for the URL in turn and returns the aggregate report. Failed sections carry an error message; the request itself still succeeds.
// @Tags         Report
// @Accept       json
// @Produce      json
// @Param        request body models.AnalyzeRequest true "URL or bare domain"
// @Success      200 {object} models.Report
// @Failure      400 {object} models.ErrorResponse "Missing URL"
// @Router       /analyze [post]
func (h *AnalysisHandlers) AnalyzeHandler(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body."})
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "URL is required."})
		return
	}

	c.PureJSON(http.StatusOK, h.analyzer.Analyze(c.Request.Context(), req.URL))
}

// DownloadPDFHandler godoc
// @Summary      Render a report as PDF
// @Description  Accepts a report exactly as returned by /analyze and returns it as a PDF attachment named after the domain and the current date.
// @Tags         Report
// @Accept       json
// @Produce      application/pdf
// @Param        report body models.Report true "Report returned by /analyze"
// @Success      200 {file} file "PDF document"
// @Failure      400 {object} models.ErrorResponse "Missing or invalid report"
// @Failure      500 {object} models.ErrorResponse "Rendering failed"
// @Router       /download_pdf [post]
func (h *AnalysisHandlers) DownloadPDFHandler(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxReportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid report data."})
		return
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Report data is missing."})
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		logger.Log.Warn().Err(err).Msg("rejected malformed report body")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid report data."})
		return
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Report data is missing."})
		return
	}

	var rep models.Report
	if err := json.Unmarshal(body, &rep); err != nil {
		logger.Log.Warn().Err(err).Msg("rejected malformed report body")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid report data."})
		return
	}

	pdf, err := h.renderer.Render(rep)
	metrics.CountPDF(err != nil)
	if err != nil {
		logger.Log.Error().Err(err).Str("url", string(rep.URL)).Msg("PDF rendering failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate the PDF report."})
		return
	}

	filename := report.Filename(string(rep.URL), h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
