package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/reportdesk/internal/models"
)

// Collection is the report store the dashboard edits.
type Collection interface {
	Reports() []models.Report
	Add(r models.Report) error
	Update(id string, patch models.ReportPatch) error
	Delete(id string) bool
	Move(activeID, overID string) error
	Subscribe(fn func([]models.Report)) (cancel func())
}

// mode represents the current UI interaction mode.
type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeEditor
	modeConfirmDelete
	modeAssistant
)

const defaultTableHeight = 15

// collectionChangedMsg signals that some producer changed the collection.
type collectionChangedMsg struct{}

// Model is the top-level Bubble Tea model for the dashboard.
type Model struct {
	ctx       context.Context
	coll      Collection
	assistant Assistant
	now       func() time.Time

	changes     chan struct{}
	unsubscribe func()

	all      []models.Report
	visible  []models.Report
	position map[string]int

	// UI state
	table         table.Model
	searchInput   textinput.Model
	filters       filterState
	mode          mode
	editor        *editorState
	pendingDelete *models.Report
	panel         assistantPanel
	width         int
	height        int
	statusMsg     string
}

// New creates the dashboard model. asst may be nil when no assistant is configured.
func New(ctx context.Context, coll Collection, asst Assistant) Model {
	ti := textinput.New()
	ti.Placeholder = "search titles..."
	ti.CharLimit = 64

	m := Model{
		ctx:         ctx,
		coll:        coll,
		assistant:   asst,
		now:         time.Now,
		changes:     make(chan struct{}, 1),
		table:       newTable(80, defaultTableHeight),
		searchInput: ti,
		mode:        modeNormal,
		panel:       newAssistantPanel(80, 24),
		width:       80,
		height:      24,
	}

	changes := m.changes
	m.unsubscribe = coll.Subscribe(func([]models.Report) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	m.refresh("")
	return m
}

// Close stops listening for collection changes.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return collectionChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetColumns(tableColumns(msg.Width))
		tableH := msg.Height - headerHeight - detailHeight - 3
		if tableH < 3 {
			tableH = 3
		}
		m.table.SetHeight(tableH)
		m.panel.resize(msg.Width, msg.Height)
		if m.editor != nil {
			m.editor.resize(msg.Width, msg.Height)
		}
		m.refresh(m.selectedID())
		return m, nil

	case collectionChangedMsg:
		m.refresh(m.selectedID())
		return m, waitForChange(m.changes)

	case assistantDoneMsg:
		return m.handleAssistantDone(msg)

	case externalEditorDoneMsg:
		if m.editor != nil {
			m.editor.applyExternalResult(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.panel.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.panel.spinner, cmd = m.panel.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case modeAssistant:
		m.panel.input, cmd = m.panel.input.Update(msg)
	case modeEditor:
		if m.editor.focus == fieldTitle {
			m.editor.title, cmd = m.editor.title.Update(msg)
		} else {
			m.editor.content, cmd = m.editor.content.Update(msg)
		}
	default:
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeEditor:
		return m.handleEditorKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeAssistant:
		return m.handleAssistantKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.filters.SearchText)
		return m, m.searchInput.Focus()
	case key.Matches(msg, keys.ClearFilter):
		m.filters = filterState{}
		m.refresh(m.selectedID())
		return m, nil
	case key.Matches(msg, keys.New):
		e := newEditor(nil, m.width, m.height)
		m.editor = &e
		m.mode = modeEditor
		return m, textinput.Blink
	case key.Matches(msg, keys.Edit):
		r := m.selectedReport()
		if r == nil {
			m.statusMsg = "Nothing to edit"
			return m, nil
		}
		e := newEditor(r, m.width, m.height)
		m.editor = &e
		m.mode = modeEditor
		return m, textinput.Blink
	case key.Matches(msg, keys.Delete):
		r := m.selectedReport()
		if r == nil {
			m.statusMsg = "Nothing to delete"
			return m, nil
		}
		m.pendingDelete = r
		m.mode = modeConfirmDelete
		return m, nil
	case key.Matches(msg, keys.MoveUp):
		m.moveSelected(-1)
		return m, nil
	case key.Matches(msg, keys.MoveDown):
		m.moveSelected(1)
		return m, nil
	case key.Matches(msg, keys.Assistant):
		return m.openAssistant()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleSearchKey filters live while typing. enter keeps the filter, esc drops it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.filters = filterState{}
		m.refresh(m.selectedID())
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.filters.SearchText = m.searchInput.Value()
	m.refresh(m.selectedID())
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.pendingDelete != nil && m.coll.Delete(m.pendingDelete.ID) {
			m.statusMsg = fmt.Sprintf("Deleted %q", m.pendingDelete.Title)
		}
		m.pendingDelete = nil
		m.mode = modeNormal
		m.refresh("")
	case "n", "N", "esc":
		m.pendingDelete = nil
		m.mode = modeNormal
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// moveSelected moves the selected report to its visible neighbour's position.
// Under a search filter that position may be several places away, and the
// reports in between shift by one.
func (m *Model) moveSelected(delta int) {
	cursor := m.table.Cursor()
	target := cursor + delta
	if cursor < 0 || cursor >= len(m.visible) || target < 0 || target >= len(m.visible) {
		return
	}
	active := m.visible[cursor].ID
	if err := m.coll.Move(active, m.visible[target].ID); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.refresh(active)
}

// refresh reloads the collection and keeps keepID selected when it is still visible.
func (m *Model) refresh(keepID string) {
	m.all = m.coll.Reports()
	m.position = positions(m.all)
	m.visible = applyFilters(m.all, m.filters)

	cols := tableColumns(m.width)
	m.table.SetRows(buildRows(m.visible, m.position, cols[1].Width))

	cursor := m.table.Cursor()
	if keepID != "" {
		if i := indexByID(m.visible, keepID); i >= 0 {
			cursor = i
		}
	}
	if cursor >= len(m.visible) {
		cursor = len(m.visible) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.table.SetCursor(cursor)
}

func (m *Model) selectedReport() *models.Report {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return nil
	}
	r := m.visible[cursor]
	return &r
}

func (m *Model) selectedID() string {
	if r := m.selectedReport(); r != nil {
		return r.ID
	}
	return ""
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(renderHeader(len(m.all), len(m.visible), m.filters, m.panel.busy, m.width))
	b.WriteString("\n")

	switch m.mode {
	case modeEditor:
		b.WriteString(m.editor.view(m.width))
		return b.String()
	case modeAssistant:
		b.WriteString(m.renderAssistant())
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
		return b.String()
	}

	if m.mode == modeSearch {
		b.WriteString(styleSearchPrompt.Render("/ "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	if m.mode == modeConfirmDelete && m.pendingDelete != nil {
		b.WriteString(styleError.Render(fmt.Sprintf("Delete %q? This cannot be undone. (y/n)", m.pendingDelete.Title)))
		b.WriteString("\n")
	}

	if len(m.visible) == 0 {
		if m.filters.active() {
			b.WriteString(styleLabel.Render("No reports match the search."))
		} else {
			b.WriteString(styleLabel.Render("No reports yet. Press n to create one or a to ask the assistant."))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	b.WriteString(renderDetail(m.selectedReport(), m.width))
	b.WriteString("\n")

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderFooter() string {
	var left string
	switch m.mode {
	case modeAssistant:
		left = helpLine(assistantKeys.Send, assistantKeys.Draft, assistantKeys.Summarize, assistantKeys.Reset, assistantKeys.Back)
	default:
		left = helpLine(keys.Quit, keys.Search, keys.New, keys.Edit, keys.Delete, keys.MoveUp, keys.MoveDown, keys.Assistant)
	}
	right := fmt.Sprintf("%d/%d reports", len(m.visible), len(m.all))

	if m.statusMsg != "" {
		right = styleStatus.Render(m.statusMsg) + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styleFooter.Render(left + strings.Repeat(" ", gap) + right)
}

// Run starts the Bubble Tea program on the alternate screen.
func Run(ctx context.Context, coll Collection, asst Assistant) error {
	m := New(ctx, coll, asst)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
