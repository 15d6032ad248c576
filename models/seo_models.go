package models

import "github.com/vit0-9/site_analyzer/pkg/utils"

// SEOResponse is the body of GET /web/seo.
type SEOResponse struct {
	URL     SafeURLString          `json:"url" swaggertype:"string" example:"http://example.com"`
	SEOInfo Section[utils.SEOInfo] `json:"seo_info" swaggertype:"object"`
}

// WaybackResponse is the body of GET /web/wayback.
type WaybackResponse struct {
	Domain        string    `json:"domain" example:"example.com"`
	ExistenceDate FirstSeen `json:"existence_date" swaggertype:"string" example:"Around January 1, 1996"`
}
