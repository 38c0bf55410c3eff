// Package settings provides the settings view for the TUI.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ytqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ytqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driving"
)

// Section tracks which part of the settings view is active.
type Section int

const (
	SectionList Section = iota
	SectionEdit
	SectionProviders
)

const (
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// View lists every setting, edits one at a time and shows provider health.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService
	ctx             context.Context

	settings  []messages.Setting
	providers []domain.ProviderStatus
	checking  bool
	notice    string
	err       error

	section  Section
	selected int
	editor   textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	editor := textinput.New()
	editor.CharLimit = 512

	return &View{
		styles:          s,
		settingsService: settingsService,
		ctx:             context.Background(),
		section:         SectionList,
		editor:          editor,
	}
}

// WithContext sets the context used for provider checks.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		keys := v.settingsService.Keys()
		out := make([]messages.Setting, 0, len(keys))
		for _, key := range keys {
			value, err := v.settingsService.Value(key)
			if err != nil {
				return messages.SettingsLoaded{Err: err}
			}
			out = append(out, messages.Setting{Key: key, Value: value})
		}
		return messages.SettingsLoaded{Settings: out}
	}
}

func (v *View) saveSetting(key, value string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(value) == "" {
			return messages.SettingSaved{Key: key, Err: v.settingsService.Unset(key)}
		}
		return messages.SettingSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

func (v *View) checkProviders() tea.Cmd {
	return func() tea.Msg {
		return messages.ProvidersChecked{Statuses: v.settingsService.CheckProviders(v.ctx)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.settings = msg.Settings
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key + ". Restart ytqa to apply."
		return v, v.loadSettings()

	case messages.ProvidersChecked:
		v.checking = false
		v.providers = msg.Statuses
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.section {
	case SectionEdit:
		return v.handleEditKeys(msg)
	case SectionProviders:
		if msg.String() == keyEsc {
			v.section = SectionList
		}
		return v, nil
	case SectionList:
	}

	switch msg.String() {
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.settings)-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected < len(v.settings) && v.settingsService != nil {
			v.section = SectionEdit
			v.notice = ""
			v.editor.SetValue(v.settings[v.selected].Value)
			v.editor.CursorEnd()
			return v, v.editor.Focus()
		}
	case "p":
		if v.settingsService != nil {
			v.section = SectionProviders
			v.checking = true
			v.providers = nil
			return v, v.checkProviders()
		}
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.section = SectionList
		v.editor.Blur()
		return v, nil
	case keyEnter:
		v.section = SectionList
		v.editor.Blur()
		return v, v.saveSetting(v.settings[v.selected].Key, v.editor.Value())
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	if v.section == SectionProviders {
		b.WriteString(v.renderProviders())
	} else {
		b.WriteString(v.renderList())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderList() string {
	var b strings.Builder

	width := 0
	for _, s := range v.settings {
		width = max(width, len(s.Key))
	}

	for i, s := range v.settings {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		value := s.Value
		if value == "" {
			value = v.styles.Muted.Render("(unset)")
		}
		if i == v.selected && v.section == SectionEdit {
			value = v.editor.View()
		}

		key := fmt.Sprintf("%s%-*s", indicator, width, s.Key)
		if i == v.selected {
			key = v.styles.Selected.Render(key)
		} else {
			key = v.styles.Normal.Render(key)
		}
		b.WriteString(key + "  " + value + "\n")
	}
	return b.String()
}

func (v *View) renderProviders() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Providers"))
	b.WriteString("\n\n")

	if v.checking {
		b.WriteString(v.styles.Muted.Render("Checking providers..."))
		b.WriteString("\n")
		return b.String()
	}

	for _, p := range v.providers {
		state := v.styles.Muted.Render("not configured")
		switch {
		case p.Error != "":
			state = v.styles.Error.Render(p.Error)
		case p.Selected:
			state = v.styles.Success.Render("selected")
		case p.Configured:
			state = v.styles.Normal.Render("ok")
		}
		fmt.Fprintf(&b, "  %-10s %-12s %-40s %s\n", p.Kind, p.Provider, p.Model, state)
	}
	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionEdit:
		return v.styles.Help.Render("[enter] save (empty resets)  [esc] cancel")
	case SectionProviders:
		return v.styles.Help.Render("[esc] back")
	default:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [p] check providers  [esc] back")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.editor.Width = max(width-40, 20)
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.section = SectionList
	v.selected = 0
	v.err = nil
	v.notice = ""
	v.editor.SetValue("")
	v.editor.Blur()
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the loaded settings.
func (v *View) Settings() []messages.Setting {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
