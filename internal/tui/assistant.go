package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/reportdesk/internal/assistant"
	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/render"
)

// Assistant is the conversation service behind the panel.
type Assistant interface {
	Send(ctx context.Context, input string) (assistant.Reply, error)
	Draft(ctx context.Context, prompt string) (models.Report, error)
	Summarize(ctx context.Context) (string, error)
	History() []models.Message
	Reset()
}

type requestKind int

const (
	requestSend requestKind = iota
	requestDraft
	requestSummarize
)

// assistantDoneMsg carries the outcome of a request started from the panel.
type assistantDoneMsg struct {
	kind    requestKind
	created *models.Report
	err     error
}

// assistantPanel is the conversation view plus its input line.
type assistantPanel struct {
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	busy     bool
	err      string
}

func newAssistantPanel(width, height int) assistantPanel {
	ti := textinput.New()
	ti.Placeholder = "Ask the assistant, or describe a report to draft"
	ti.CharLimit = 2000
	ti.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleSearchPrompt

	p := assistantPanel{
		input:    ti,
		viewport: viewport.New(width, 10),
		spinner:  sp,
	}
	p.resize(width, height)
	return p
}

func (p *assistantPanel) resize(width, height int) {
	p.input.Width = width - 4
	p.viewport.Width = width
	h := height - headerHeight - 6
	if h < 3 {
		h = 3
	}
	p.viewport.Height = h
}

// refresh re-renders the conversation and scrolls to the newest turn.
func (p *assistantPanel) refresh(history []models.Message) {
	p.viewport.SetContent(renderConversation(history, p.viewport.Width))
	p.viewport.GotoBottom()
}

func renderConversation(history []models.Message, width int) string {
	if len(history) == 0 {
		return styleLabel.Render("No messages yet. Type below and press enter.")
	}
	var b strings.Builder
	for i, msg := range history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case models.RoleUser:
			b.WriteString(styleUserTurn.Render("You: ") + msg.Content)
		default:
			b.WriteString(styleLabel.Render("Assistant:") + "\n")
			b.WriteString(render.Markdown(msg.Content, width-2))
		}
	}
	return b.String()
}

func sendCmd(ctx context.Context, a Assistant, input string) tea.Cmd {
	return func() tea.Msg {
		reply, err := a.Send(ctx, input)
		return assistantDoneMsg{kind: requestSend, created: reply.Created, err: err}
	}
}

func draftCmd(ctx context.Context, a Assistant, prompt string) tea.Cmd {
	return func() tea.Msg {
		r, err := a.Draft(ctx, prompt)
		if err != nil {
			return assistantDoneMsg{kind: requestDraft, err: err}
		}
		return assistantDoneMsg{kind: requestDraft, created: &r}
	}
}

func summarizeCmd(ctx context.Context, a Assistant) tea.Cmd {
	return func() tea.Msg {
		_, err := a.Summarize(ctx)
		return assistantDoneMsg{kind: requestSummarize, err: err}
	}
}

func (m Model) openAssistant() (tea.Model, tea.Cmd) {
	m.mode = modeAssistant
	m.panel.err = ""
	if m.assistant != nil {
		m.panel.refresh(m.assistant.History())
	}
	return m, m.panel.input.Focus()
}

func (m Model) handleAssistantKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, assistantKeys.Back):
		m.mode = modeNormal
		m.panel.input.Blur()
		return m, nil
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	if m.assistant == nil {
		m.panel.err = "Assistant is not configured"
		return m, nil
	}

	switch {
	case key.Matches(msg, assistantKeys.Send):
		return m.startRequest(requestSend)
	case key.Matches(msg, assistantKeys.Draft):
		return m.startRequest(requestDraft)
	case key.Matches(msg, assistantKeys.Summarize):
		return m.startRequest(requestSummarize)
	case key.Matches(msg, assistantKeys.Reset):
		m.assistant.Reset()
		m.panel.err = ""
		m.panel.refresh(nil)
		return m, nil
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.panel.viewport, cmd = m.panel.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.panel.input, cmd = m.panel.input.Update(msg)
	return m, cmd
}

// startRequest runs one assistant call in the background. Only one call is in
// flight at a time.
func (m Model) startRequest(kind requestKind) (tea.Model, tea.Cmd) {
	m.panel.err = ""
	if m.panel.busy {
		return m, nil
	}

	input := strings.TrimSpace(m.panel.input.Value())
	var cmd tea.Cmd
	switch kind {
	case requestSend:
		if input == "" {
			return m, nil
		}
		cmd = sendCmd(m.ctx, m.assistant, input)
	case requestDraft:
		if input == "" {
			m.panel.err = "Describe the report to draft first"
			return m, nil
		}
		cmd = draftCmd(m.ctx, m.assistant, input)
	case requestSummarize:
		cmd = summarizeCmd(m.ctx, m.assistant)
	}

	if kind != requestSummarize {
		m.panel.input.SetValue("")
	}
	m.panel.busy = true
	if kind == requestSend {
		// The service records the user turn itself; this only previews it.
		pending := append(m.assistant.History(), models.Message{Role: models.RoleUser, Content: input})
		m.panel.refresh(pending)
	}
	return m, tea.Batch(cmd, m.panel.spinner.Tick)
}

// handleAssistantDone lands a finished request whatever view is showing.
func (m Model) handleAssistantDone(msg assistantDoneMsg) (tea.Model, tea.Cmd) {
	m.panel.busy = false
	if m.assistant != nil {
		m.panel.refresh(m.assistant.History())
	}

	switch {
	case errors.Is(msg.err, assistant.ErrDiscarded):
		return m, nil
	case errors.Is(msg.err, assistant.ErrNoReports):
		m.panel.err = "There are no reports to summarize"
	case msg.err != nil:
		m.panel.err = msg.err.Error()
	}

	if msg.created != nil {
		m.statusMsg = fmt.Sprintf("Created report: %s", msg.created.Title)
		m.refresh(msg.created.ID)
	}
	return m, nil
}

func (m *Model) renderAssistant() string {
	var b strings.Builder
	b.WriteString(m.panel.viewport.View())
	b.WriteString("\n")
	if m.panel.busy {
		b.WriteString(m.panel.spinner.View() + " " + styleLabel.Render("Waiting for the assistant…"))
	}
	b.WriteString("\n")
	if m.panel.err != "" {
		b.WriteString(styleError.Render("Error: "+m.panel.err) + "\n")
	}
	b.WriteString(m.panel.input.View())
	return b.String()
}
