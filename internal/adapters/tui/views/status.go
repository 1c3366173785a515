package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"colophon/internal/adapters/tui/styles"
	"colophon/internal/application"
	"colophon/internal/application/commands"
	"colophon/internal/ports"
)

// StatusKeyMap defines key bindings for the status table view
type StatusKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Yank   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

var StatusKeys = StatusKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "yank URL"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// statusLine is one visible line: a component header or a ticket row.
type statusLine struct {
	header string
	row    *application.StatusRow
}

// StatusModel is the model for the status table browser
type StatusModel struct {
	source ports.TicketSource

	table     *application.StatusTable
	lines     []statusLine
	cursor    int
	filter    textinput.Model
	filtering bool

	width      int
	height     int
	message    string
	messageErr bool
}

// NewStatusModel creates a new status table model
func NewStatusModel(source ports.TicketSource) *StatusModel {
	filter := textinput.New()
	filter.Placeholder = "filter tickets"
	filter.CharLimit = 64

	return &StatusModel{
		source: source,
		filter: filter,
	}
}

// Init initializes the status view
func (m *StatusModel) Init() tea.Cmd {
	return m.loadTable
}

func (m *StatusModel) loadTable() tea.Msg {
	result, err := commands.NewStatusCommand(m.source).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return tableLoadedMsg{result.Table}
}

type tableLoadedMsg struct {
	table *application.StatusTable
}

type errMsg struct {
	err error
}

// SetSize updates the view dimensions
func (m *StatusModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the status view
func (m *StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tableLoadedMsg:
		m.table = msg.table
		m.rebuildLines()
		return m, nil

	case errMsg:
		m.message = msg.err.Error()
		m.messageErr = true
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m *StatusModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.rebuildLines()
	return m, cmd
}

func (m *StatusModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, StatusKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, StatusKeys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, StatusKeys.Down):
		m.moveCursor(1)

	case key.Matches(msg, StatusKeys.Filter):
		m.filtering = true
		m.filter.Focus()

	case key.Matches(msg, StatusKeys.Reload):
		return m, m.loadTable

	case key.Matches(msg, StatusKeys.Yank):
		m.yank()
	}

	return m, nil
}

// moveCursor skips component headers so the cursor always rests on a row.
func (m *StatusModel) moveCursor(delta int) {
	next := m.cursor
	for {
		next += delta
		if next < 0 || next >= len(m.lines) {
			return
		}
		if m.lines[next].row != nil {
			m.cursor = next
			return
		}
	}
}

func (m *StatusModel) yank() {
	row := m.selectedRow()
	if row == nil {
		return
	}
	if row.URL == "" {
		m.message = fmt.Sprintf("%s has no URL", row.ID)
		m.messageErr = true
		return
	}
	if err := clipboard.WriteAll(row.URL); err != nil {
		m.message = fmt.Sprintf("clipboard: %v", err)
		m.messageErr = true
		return
	}
	m.message = fmt.Sprintf("copied %s", row.URL)
	m.messageErr = false
}

func (m *StatusModel) selectedRow() *application.StatusRow {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return nil
	}
	return m.lines[m.cursor].row
}

// rebuildLines flattens the grouped table into visible lines, applying the
// current filter to ticket keys and summaries.
func (m *StatusModel) rebuildLines() {
	m.lines = nil
	if m.table == nil {
		return
	}

	query := strings.ToLower(m.filter.Value())
	for gi := range m.table.Groups {
		group := &m.table.Groups[gi]

		var rows []*application.StatusRow
		for ri := range group.Rows {
			row := &group.Rows[ri]
			if query != "" &&
				!strings.Contains(strings.ToLower(row.ID.String()), query) &&
				!strings.Contains(strings.ToLower(row.Summary), query) {
				continue
			}
			rows = append(rows, row)
		}
		if len(rows) == 0 {
			continue
		}

		m.lines = append(m.lines, statusLine{header: group.Component})
		for _, row := range rows {
			m.lines = append(m.lines, statusLine{row: row})
		}
	}

	if m.cursor >= len(m.lines) {
		m.cursor = 0
	}
	if m.cursor < len(m.lines) && m.lines[m.cursor].row == nil {
		m.moveCursor(1)
	}
}

// View renders the status table
func (m *StatusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Release note status"))
	b.WriteString("\n")

	if m.table == nil {
		if m.messageErr {
			b.WriteString(styles.ErrorMsg.Render(m.message))
		} else {
			b.WriteString(styles.MutedText.Render("loading tickets..."))
		}
		return styles.App.Render(b.String())
	}

	p := m.table.Progress
	b.WriteString(styles.Subtitle.Render(
		fmt.Sprintf("%d tickets, %d complete (%.0f%%)", p.All, p.Complete, p.Percent())))
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	for i, line := range m.lines {
		if line.row == nil {
			b.WriteString(styles.Component.Render(line.header))
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderRow(line.row, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return styles.App.Render(b.String())
}

func (m *StatusModel) renderRow(row *application.StatusRow, selected bool) string {
	status := row.DocTextStatus.String()
	switch row.DocTextStatus {
	case application.StatusComplete:
		status = styles.StatusComplete.Render(status)
	case application.StatusInProgress:
		status = styles.StatusInProgress.Render(status)
	default:
		status = styles.StatusUnset.Render(status)
	}

	text := fmt.Sprintf("  %s  %s", row.ID, row.Summary)
	if selected {
		text = styles.RowSelected.Render(text)
	}
	return fmt.Sprintf("%s  %s  %s", text, status, styles.MutedText.Render(row.DocsContact))
}

func (m *StatusModel) footer() string {
	if m.message != "" {
		if m.messageErr {
			return styles.ErrorMsg.Render(m.message)
		}
		return styles.Success.Render(m.message)
	}

	bindings := []key.Binding{
		StatusKeys.Up, StatusKeys.Down, StatusKeys.Filter,
		StatusKeys.Yank, StatusKeys.Reload, StatusKeys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKey.Render(b.Help().Key),
			styles.HelpDesc.Render(b.Help().Desc)))
	}
	return strings.Join(parts, styles.MutedText.Render(" • "))
}
