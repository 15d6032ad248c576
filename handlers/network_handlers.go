package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/site_analyzer/models"
	"github.com/vit0-9/site_analyzer/pkg/report"
	"github.com/vit0-9/site_analyzer/pkg/utils"
)

// NetworkIntelligenceHandlers serves the domain-level report sections one at
// a time.
type NetworkIntelligenceHandlers struct {
	analyzer *report.Analyzer
}

func NewNetworkIntelligenceHandlers(analyzer *report.Analyzer) *NetworkIntelligenceHandlers {
	return &NetworkIntelligenceHandlers{analyzer: analyzer}
}

// domainParam reads and normalizes the domain query parameter, answering 400
// when it is missing.
func domainParam(c *gin.Context) (string, bool) {
	raw := c.Query("domain")
	if raw == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "domain query parameter is required"})
		return "", false
	}
	_, d := utils.NormalizeTarget(raw)
	return d, true
}

// WhoisLookupHandler godoc
// @Summary      WHOIS registration data for a domain
// @Description  Queries WHOIS for the domain and flattens the record into display fields. Dates are ISO-8601.
// @Tags         Network & Domain Intelligence
// @Produce      json
// @Param        domain query string true "Domain for WHOIS lookup"
// @Success      200 {object} models.WhoisLookupResponse "Registration data, or {\"error\": ...} in domain_info"
// @Failure      400 {object} models.ErrorResponse "Missing domain"
// @Router       /api/v1/net/whois [get]
func (h *NetworkIntelligenceHandlers) WhoisLookupHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}
	c.PureJSON(http.StatusOK, models.WhoisLookupResponse{
		Domain:     d,
		DomainInfo: h.analyzer.Registration(c.Request.Context(), d),
	})
}

// DNSLookupHandler godoc
// @Summary      DNS records for a domain
// @Description  Resolves A, AAAA, MX, NS, CNAME and TXT records. Per-type failures are strings in place of the record list; a non-existent domain fails the whole section.
// @Tags         Network & Domain Intelligence
// @Produce      json
// @Param        domain query string true "Domain to resolve"
// @Success      200 {object} models.DNSLookupResponse "Records by type, or {\"error\": ...} in dns_info"
// @Failure      400 {object} models.ErrorResponse "Missing domain"
// @Router       /api/v1/net/dns [get]
func (h *NetworkIntelligenceHandlers) DNSLookupHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}
	c.PureJSON(http.StatusOK, models.DNSLookupResponse{
		Domain:  d,
		DNSInfo: h.analyzer.DNS(c.Request.Context(), d),
	})
}

// ServerInfoHandler godoc
// @Summary      Hosting information for a domain
// @Description  Resolves the domain (following one CNAME) to an IPv4 address and geolocates it.
// @Tags         Network & Domain Intelligence
// @Produce      json
// @Param        domain query string true "Domain to locate"
// @Success      200 {object} models.ServerInfoResponse "IP, country and ISP, or {\"error\": ...} in server_info"
// @Failure      400 {object} models.ErrorResponse "Missing domain"
// @Router       /api/v1/net/server-info [get]
func (h *NetworkIntelligenceHandlers) ServerInfoHandler(c *gin.Context) {
	d, ok := domainParam(c)
	if !ok {
		return
	}
	c.PureJSON(http.StatusOK, models.ServerInfoResponse{
		Domain:     d,
		ServerInfo: h.analyzer.ServerInfo(c.Request.Context(), d),
	})
}
