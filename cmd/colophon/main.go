package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"colophon/internal/adapters/ticketdb"
	"colophon/internal/adapters/tui"
	"colophon/internal/adapters/yamlsource"
	"colophon/internal/config"
	"colophon/internal/logging"
	"colophon/internal/ports"
)

func main() {
	log := logging.New(0)

	project, err := config.LoadProject(config.DefaultProjectDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var source ports.TicketSource
	if project.HasSnapshotDB() {
		source = ticketdb.New(project.SnapshotDBPath(), log)
	} else {
		source = yamlsource.New(project.TicketsPath(), log)
	}

	app := tui.NewApp(source)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
