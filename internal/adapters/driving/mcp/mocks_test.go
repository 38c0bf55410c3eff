package mcp

import (
	"context"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// mockQuestionService is a mock implementation of driving.QuestionService.
type mockQuestionService struct {
	answer *domain.Answer
	chunks int
	err    error

	gotQuery string
	gotURL   string
}

func (m *mockQuestionService) Ask(_ context.Context, query, videoURL string) (*domain.Answer, error) {
	m.gotQuery = query
	m.gotURL = videoURL
	return m.answer, m.err
}

func (m *mockQuestionService) Ingest(_ context.Context, videoURL string) (int, error) {
	m.gotURL = videoURL
	return m.chunks, m.err
}

func (m *mockQuestionService) Reset(_ context.Context) error {
	return m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	values map[string]string
	err    error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }
func (m *mockSettingsService) Set(_, _ string) error            { return m.err }
func (m *mockSettingsService) Unset(_ string) error             { return m.err }

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}

func (m *mockSettingsService) Value(key string) (string, error) {
	return m.values[key], m.err
}

func (m *mockSettingsService) CheckProviders(_ context.Context) []domain.ProviderStatus {
	return nil
}
