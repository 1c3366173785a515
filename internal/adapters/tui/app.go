package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"colophon/internal/adapters/tui/views"
	"colophon/internal/ports"
)

// App is the main TUI application model
type App struct {
	source ports.TicketSource

	status *views.StatusModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(source ports.TicketSource) *App {
	return &App{
		source: source,
		status: views.NewStatusModel(source),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.status.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = msg.Width
		a.height = msg.Height
		a.status.SetSize(msg.Width, msg.Height)
		return a, nil
	}

	_, cmd := a.status.Update(msg)
	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	return a.status.View()
}
