package models

import "github.com/vit0-9/site_analyzer/pkg/utils"

// StackAnalyzerResponse is the body of GET /web/tech-stack: detected
// technologies grouped by category.
type StackAnalyzerResponse struct {
	URL       SafeURLString            `json:"url" swaggertype:"string" example:"http://example.com"`
	TechStack Section[utils.TechStack] `json:"tech_stack" swaggertype:"object"`
}
