package models

import (
	"github.com/vit0-9/site_analyzer/pkg/utils"
	"github.com/vit0-9/site_analyzer/pkg/utils/domain"
)

// Report is the aggregate result of one analysis. It is also the body
// /download_pdf accepts back from the client.
type Report struct {
	URL           SafeURLString                `json:"url" swaggertype:"string" example:"http://example.com"`
	DomainInfo    Section[domain.Registration] `json:"domain_info" swaggertype:"object"`
	TechStack     Section[utils.TechStack]     `json:"tech_stack" swaggertype:"object"`
	ExistenceDate FirstSeen                    `json:"existence_date" swaggertype:"string" example:"Around January 1, 1996"`
	SEOInfo       Section[utils.SEOInfo]       `json:"seo_info" swaggertype:"object"`
	DNSInfo       Section[utils.DNSRecordSet]  `json:"dns_info" swaggertype:"object"`
	ServerInfo    Section[utils.ServerInfo]    `json:"server_info" swaggertype:"object"`
}
