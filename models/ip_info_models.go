package models

import "github.com/vit0-9/site_analyzer/pkg/utils"

// ServerInfoResponse is the body of GET /net/server-info.
type ServerInfoResponse struct {
	Domain     string                    `json:"domain" example:"example.com"`
	ServerInfo Section[utils.ServerInfo] `json:"server_info" swaggertype:"object"`
}
