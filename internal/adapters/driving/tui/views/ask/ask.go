// Package ask provides the question form and answer viewport for the TUI.
package ask

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ytqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ytqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ytqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ytqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ytqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driving"
)

var (
	// ErrNoQuestionService indicates that no question service was provided.
	ErrNoQuestionService = errors.New("question service is required")

	// ErrIncompleteForm is shown when the URL or the question is empty.
	ErrIncompleteForm = errors.New("enter both a video URL and a question")
)

const (
	fieldURL = iota
	fieldQuestion
)

// reservedRows is the height taken by everything except the answer viewport.
const reservedRows = 14

// View holds the URL and question inputs, the progress spinner and the
// answer viewport.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	fields    [2]*input.Field
	focus     int
	spinner   spinner.Model
	viewport  viewport.Model
	statusbar *status.Bar

	questions driving.QuestionService
	ctx       context.Context

	width  int
	height int
	ready  bool
	asking bool
	answer *domain.Answer
	err    error
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, questions driving.QuestionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles: s,
		keymap: km,
		fields: [2]*input.Field{
			input.NewField(s, "Video", "https://www.youtube.com/watch?v=... (comma-separated for several)"),
			input.NewField(s, "Question", "What is this video about?"),
		},
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner)),
		viewport:  viewport.New(80, 10),
		statusbar: status.NewBar(s, km),
		questions: questions,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.fields[fieldURL].Focus()
	return v
}

// WithContext sets the context passed to the question service.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.fields[v.focus].Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil

	case spinner.TickMsg:
		if !v.asking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Back) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.asking {
		return v, nil
	}

	if v.answer != nil && !v.formFocused() {
		return v.handleAnswerKeys(msg)
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.NextField):
		return v, v.setFocus(1 - v.focus)

	case keymap.Matches(msg.String(), v.keymap.Submit):
		return v.submit()
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

func (v *View) handleAnswerKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.NewQuestion) {
		v.fields[fieldQuestion].Reset()
		v.statusbar.Clear()
		return v, v.setFocus(fieldQuestion)
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) submit() (*View, tea.Cmd) {
	url := strings.TrimSpace(v.fields[fieldURL].Value())
	question := strings.TrimSpace(v.fields[fieldQuestion].Value())
	if url == "" || question == "" {
		v.setError(ErrIncompleteForm)
		return v, nil
	}

	v.asking = true
	v.err = nil
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateAsking)
	v.blurAll()

	return v, tea.Batch(v.spinner.Tick, v.ask(url, question))
}

// ask runs the pipeline. Extra comma-separated URLs are indexed first and the
// first URL is the one the question is about.
func (v *View) ask(urls, question string) tea.Cmd {
	return func() tea.Msg {
		if v.questions == nil {
			return messages.AnswerReceived{Err: ErrNoQuestionService}
		}

		list := SplitURLs(urls)
		for _, extra := range list[1:] {
			if _, err := v.questions.Ingest(v.ctx, extra); err != nil {
				return messages.AnswerReceived{Err: err}
			}
		}

		answer, err := v.questions.Ask(v.ctx, question, list[0])
		return messages.AnswerReceived{Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.asking = false
	if msg.Err != nil {
		v.setError(msg.Err)
		v.setFocus(fieldQuestion)
		return
	}

	v.err = nil
	v.answer = msg.Answer
	v.viewport.SetContent(v.renderAnswer())
	v.viewport.GotoTop()
	v.statusbar.SetAnswer(msg.Answer.Chunks, msg.Answer.CacheHit)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) setFocus(field int) tea.Cmd {
	v.blurAll()
	v.focus = field
	return v.fields[field].Focus()
}

func (v *View) blurAll() {
	for _, f := range v.fields {
		f.Blur()
	}
}

func (v *View) formFocused() bool {
	return v.fields[fieldURL].Focused() || v.fields[fieldQuestion].Focused()
}

func (v *View) renderAnswer() string {
	if v.answer == nil {
		return ""
	}
	width := v.viewport.Width - 4
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().Width(width).Render(v.answer.Text)
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections,
		v.styles.Title.Render("ytqa"), "",
		v.fields[fieldURL].View(),
		v.fields[fieldQuestion].View(), "",
	)

	if v.asking {
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Thinking..."), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.answer != nil && !v.asking {
		heading := v.answer.Title
		if heading == "" {
			heading = v.answer.VideoID.WatchURL()
		}
		sections = append(sections,
			v.styles.Subtitle.Render(heading),
			v.styles.Answer.Render(v.viewport.View()),
		)
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	for _, f := range v.fields {
		f.SetWidth(width)
	}
	v.viewport.Width = width - 4
	v.viewport.Height = max(height-reservedRows, 3)
	if v.answer != nil {
		v.viewport.SetContent(v.renderAnswer())
	}
	v.statusbar.SetWidth(width)
}

// Reset clears the answer and focuses the URL input. The URL is kept.
func (v *View) Reset() {
	v.answer = nil
	v.err = nil
	v.asking = false
	v.fields[fieldQuestion].Reset()
	v.statusbar.Clear()
	v.setFocus(fieldURL)
}

// URL returns the URL input value.
func (v *View) URL() string {
	return v.fields[fieldURL].Value()
}

// SetURL sets the URL input value.
func (v *View) SetURL(url string) {
	v.fields[fieldURL].SetValue(url)
}

// Question returns the question input value.
func (v *View) Question() string {
	return v.fields[fieldQuestion].Value()
}

// SetQuestion sets the question input value.
func (v *View) SetQuestion(question string) {
	v.fields[fieldQuestion].SetValue(question)
}

// Focus returns the index of the focused field: 0 for the URL, 1 for the question.
func (v *View) Focus() int {
	return v.focus
}

// Asking reports whether a question is in flight.
func (v *View) Asking() bool {
	return v.asking
}

// Answer returns the last answer, if any.
func (v *View) Answer() *domain.Answer {
	return v.answer
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// SplitURLs splits a comma-separated list, dropping blanks. It always returns
// at least one element so callers can index the first URL.
func SplitURLs(raw string) []string {
	var urls []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	if len(urls) == 0 {
		return []string{""}
	}
	return urls
}
