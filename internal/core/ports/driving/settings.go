package driving

import (
	"context"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// SettingsService manages the non-secret settings stored in the config file.
type SettingsService interface {
	// Get returns the effective settings: stored values over defaults.
	// Stored values that fail to parse fall back to the default.
	Get() (*domain.AppSettings, error)

	// Save persists every field of settings.
	Save(settings *domain.AppSettings) error

	// Set parses raw for the type of key and persists it.
	// Unknown keys and unparsable values return domain.ErrInvalidInput.
	Set(key, raw string) error

	// Unset removes a stored value so the default applies again.
	Unset(key string) error

	// Keys lists every supported key in sorted order.
	Keys() []string

	// Value returns the effective value of key formatted for display.
	Value(key string) (string, error)

	// CheckProviders pings every configured provider and reports which one
	// would be selected.
	CheckProviders(ctx context.Context) []domain.ProviderStatus
}
