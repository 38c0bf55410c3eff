package mcp

import (
	"github.com/custodia-labs/ytqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Questions answers and indexes videos.
	Questions driving.QuestionService

	// Settings backs the settings resource. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Questions == nil {
		return ErrMissingQuestionService
	}
	return nil
}
