package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type externalEditorDoneMsg struct {
	err error
}

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// openExternalEditor writes the content to a temp file and suspends the
// program while the editor runs on it.
func (e *editorState) openExternalEditor() (tea.Cmd, error) {
	args := strings.Fields(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	f, err := os.CreateTemp("", "reportdesk-*.html")
	if err != nil {
		return nil, err
	}
	path := f.Name()

	if _, err := f.WriteString(e.content.Value()); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	_ = f.Close()

	e.externalPath = path
	e.externalBefore = e.content.Value()

	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{err: err}
	}), nil
}

// applyExternalResult loads the edited file back into the content field.
func (e *editorState) applyExternalResult(msg externalEditorDoneMsg) {
	path := e.externalPath
	before := e.externalBefore

	e.externalPath = ""
	e.externalBefore = ""
	if strings.TrimSpace(path) == "" {
		return
	}
	defer func() { _ = os.Remove(path) }()

	if msg.err != nil {
		e.err = "Editor failed: " + msg.err.Error()
		return
	}

	b, err := os.ReadFile(path)
	if err != nil {
		e.err = "Editor read failed: " + err.Error()
		return
	}

	after := strings.TrimRight(string(b), "\n")
	e.content.SetValue(after)

	if strings.TrimSpace(after) == strings.TrimSpace(before) {
		e.err = fmt.Sprintf("No changes from %s", externalEditorName())
		return
	}
	e.err = ""
}
