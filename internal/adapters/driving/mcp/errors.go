// Package mcp provides an MCP (Model Context Protocol) server adapter for ytqa.
// It lets AI assistants ask questions about YouTube videos through the same
// pipeline as the CLI.
package mcp

import "errors"

// ErrMissingQuestionService is returned when the question service is not provided.
var ErrMissingQuestionService = errors.New("mcp: question service is required")
