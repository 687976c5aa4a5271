package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ppiankov/reportdesk/internal/models"
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldContent
)

// editorState is the modal used for both new and existing reports.
type editorState struct {
	reportID string // empty for a new report
	title    textinput.Model
	content  textarea.Model
	focus    editorField
	err      string

	// set while $EDITOR runs on the content
	externalPath   string
	externalBefore string
}

func newEditor(r *models.Report, width, height int) editorState {
	ti := textinput.New()
	ti.Placeholder = "Report title"
	ti.CharLimit = 200
	ti.Prompt = ""

	ta := textarea.New()
	ta.Placeholder = "Content (HTML or plain text)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	e := editorState{title: ti, content: ta}
	if r != nil {
		e.reportID = r.ID
		e.title.SetValue(r.Title)
		e.content.SetValue(r.Content)
	}
	e.resize(width, height)
	e.title.Focus()
	return e
}

func (e *editorState) resize(width, height int) {
	w := width - 8
	if w < 20 {
		w = 20
	}
	h := height - 12
	if h < 3 {
		h = 3
	}
	e.title.Width = w
	e.content.SetWidth(w)
	e.content.SetHeight(h)
}

func (e *editorState) toggleFocus() tea.Cmd {
	if e.focus == fieldTitle {
		e.focus = fieldContent
		e.title.Blur()
		return e.content.Focus()
	}
	e.focus = fieldTitle
	e.content.Blur()
	return e.title.Focus()
}

func (e *editorState) isNew() bool {
	return e.reportID == ""
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, editorKeys.Cancel):
		m.mode = modeNormal
		m.editor = nil
		return m, nil
	case key.Matches(msg, editorKeys.Save):
		m.saveEditor()
		return m, nil
	case key.Matches(msg, editorKeys.NextField):
		return m, m.editor.toggleFocus()
	case key.Matches(msg, editorKeys.External):
		cmd, err := m.editor.openExternalEditor()
		if err != nil {
			m.editor.err = "Editor failed: " + err.Error()
			return m, nil
		}
		return m, cmd
	}

	var cmd tea.Cmd
	if m.editor.focus == fieldTitle {
		m.editor.title, cmd = m.editor.title.Update(msg)
	} else {
		m.editor.content, cmd = m.editor.content.Update(msg)
	}
	return m, cmd
}

// saveEditor adds or updates the report. The modal stays open on error.
func (m *Model) saveEditor() {
	e := m.editor
	title := strings.TrimSpace(e.title.Value())
	if title == "" {
		e.err = "Title is required"
		return
	}
	content := e.content.Value()

	var savedID string
	if e.isNew() {
		r := models.NewReport(title, content, m.now())
		if err := m.coll.Add(r); err != nil {
			e.err = err.Error()
			return
		}
		savedID = r.ID
		m.statusMsg = "Report created"
	} else {
		patch := models.ReportPatch{Title: &title, Content: &content}
		if err := m.coll.Update(e.reportID, patch); err != nil {
			e.err = err.Error()
			return
		}
		savedID = e.reportID
		m.statusMsg = "Report saved"
	}

	m.mode = modeNormal
	m.editor = nil
	m.refresh(savedID)
}

func (e *editorState) view(width int) string {
	var b strings.Builder
	heading := "New report"
	if !e.isNew() {
		heading = "Edit report"
	}
	b.WriteString(styleSearchPrompt.Render(heading) + "\n\n")
	b.WriteString(styleLabel.Render("Title") + "\n")
	b.WriteString(e.title.View() + "\n\n")
	b.WriteString(styleLabel.Render("Content") + "\n")
	b.WriteString(e.content.View() + "\n")
	if e.err != "" {
		b.WriteString("\n" + styleError.Render(e.err) + "\n")
	}
	b.WriteString("\n" + styleLabel.Render(helpLine(editorKeys.Save, editorKeys.NextField, editorKeys.External, editorKeys.Cancel)))

	w := width - 2
	if w < 24 {
		w = 24
	}
	return styleModal.Width(w).Render(b.String())
}
