package models

import "github.com/vit0-9/site_analyzer/pkg/utils/domain"

// WhoisLookupResponse is the body of GET /net/whois.
type WhoisLookupResponse struct {
	Domain     string                       `json:"domain" example:"example.com"`
	DomainInfo Section[domain.Registration] `json:"domain_info" swaggertype:"object"`
}
