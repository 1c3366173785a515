package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"colophon/internal/adapters/ticketdb"
	"colophon/internal/adapters/yamlsource"
	"colophon/internal/config"
	"colophon/internal/logging"
	"colophon/internal/ports"
)

var (
	projectDir  string
	ticketsPath string
	verbosity   int

	project *config.Project
	log     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "colophon-cli",
	Short: "Generate release notes documents from tracking tickets",
	Long: `colophon-cli turns a snapshot of tracking tickets and a document
template into an AsciiDoc release notes document.

The template organizes tickets into chapters and sections by filter
rules; the build produces an internal draft variant and an external
publishable variant side by side.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		log = logging.New(verbosity)

		var err error
		project, err = config.LoadProject(projectDir)
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", config.DefaultProjectDir(), "path to the release notes project")
	rootCmd.PersistentFlags().StringVarP(&ticketsPath, "tickets", "t", "", "path to the ticket snapshot (.yaml or .db)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging verbosity")
}

// ticketSource picks the snapshot to load from: an explicit --tickets path
// first, then the project's SQLite snapshot, then the YAML snapshot.
func ticketSource() ports.TicketSource {
	if ticketsPath != "" {
		if strings.HasSuffix(ticketsPath, ".db") {
			return ticketdb.New(ticketsPath, log)
		}
		return yamlsource.New(ticketsPath, log)
	}
	if project.HasSnapshotDB() {
		return ticketdb.New(project.SnapshotDBPath(), log)
	}
	return yamlsource.New(project.TicketsPath(), log)
}
