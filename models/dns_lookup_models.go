package models

import "github.com/vit0-9/site_analyzer/pkg/utils"

// DNSLookupResponse is the body of GET /net/dns. Record values are keyed by
// type; a string value in place of a list is that type's error.
type DNSLookupResponse struct {
	Domain  string                      `json:"domain" example:"example.com"`
	DNSInfo Section[utils.DNSRecordSet] `json:"dns_info" swaggertype:"object"`
}
