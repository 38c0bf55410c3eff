package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask_video tool.
type AskInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL or 11-character video id"`
	Question string `json:"question" jsonschema:"the question to answer from the video transcript"`
}

// AskOutput is the output schema for the ask_video tool.
type AskOutput struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title,omitempty"`
	Answer   string `json:"answer"`
	CacheHit bool   `json:"cache_hit"`
	Chunks   int    `json:"chunks"`
	Model    string `json:"model,omitempty"`
}

// IndexInput is the input schema for the index_video tool.
type IndexInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL or 11-character video id"`
}

// IndexOutput is the output schema for the index_video tool.
type IndexOutput struct {
	URL    string `json:"url"`
	Chunks int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_video",
		Description: "Answer a question using only the transcript of a YouTube video",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_video",
		Description: "Fetch and index a YouTube video transcript so later questions are fast",
	}, s.handleIndex)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Questions.Ask(ctx, input.Question, input.URL)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		VideoID:  answer.VideoID.String(),
		Title:    answer.Title,
		Answer:   answer.Text,
		CacheHit: answer.CacheHit,
		Chunks:   answer.Chunks,
		Model:    answer.Model,
	}, nil
}

func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	n, err := s.ports.Questions.Ingest(ctx, input.URL)
	if err != nil {
		return nil, IndexOutput{}, err
	}
	return nil, IndexOutput{URL: input.URL, Chunks: n}, nil
}
