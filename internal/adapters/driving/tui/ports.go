// Package tui provides an interactive terminal user interface for ytqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ytqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Questions answers questions about videos.
	Questions driving.QuestionService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Questions == nil {
		return ErrMissingQuestionService
	}
	return nil
}
