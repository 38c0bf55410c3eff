package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme = "ytqa://"

	settingsURI = uriScheme + "settings"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         settingsURI,
		Name:        "settings",
		Description: "Effective ytqa settings (no secrets)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleSettingsResource returns every setting key with its effective value.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	values := map[string]string{}

	if s.ports.Settings != nil {
		for _, key := range s.ports.Settings.Keys() {
			v, err := s.ports.Settings.Value(key)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", key, err)
			}
			values[key] = v
		}
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
