// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the URL and question form with the answer viewport.
	ViewAsk
	// ViewSettings lists and edits settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// AskRequested is sent when the user submits a question.
type AskRequested struct {
	URL      string
	Question string
}

// AnswerReceived carries the pipeline result back to the model.
type AnswerReceived struct {
	Answer *domain.Answer
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// Setting is one key with its effective value.
type Setting struct {
	Key   string
	Value string
}

// SettingsLoaded carries every setting for display.
type SettingsLoaded struct {
	Settings []Setting
	Err      error
}

// SettingSaved signals a setting was written.
type SettingSaved struct {
	Key string
	Err error
}

// ProvidersChecked carries the result of pinging every provider.
type ProvidersChecked struct {
	Statuses []domain.ProviderStatus
}
