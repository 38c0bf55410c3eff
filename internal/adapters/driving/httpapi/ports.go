// Package httpapi serves the question pipeline over a JSON HTTP API.
package httpapi

import "github.com/custodia-labs/ytqa/internal/core/ports/driving"

// Ports holds the services the HTTP API depends on.
type Ports struct {
	Questions driving.QuestionService
}

// Validate checks that all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Questions == nil {
		return ErrMissingQuestionService
	}
	return nil
}
