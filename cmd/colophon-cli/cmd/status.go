package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"colophon/internal/application/commands"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show release note completeness by component and writer",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewStatusCommand(ticketSource()).Execute(context.Background())
		if err != nil {
			return err
		}

		table := result.Table
		fmt.Printf("%d tickets, %d complete (%.0f%%), %d in progress, %d unset\n\n",
			table.Progress.All, table.Progress.Complete, table.Progress.Percent(),
			table.Progress.InProgress, table.Progress.Unset)

		for _, group := range table.Groups {
			fmt.Printf("%s\n", group.Component)
			for _, row := range group.Rows {
				fmt.Printf("  %-16s  %-12s  %s\n", row.ID, row.DocTextStatus, row.Summary)
			}
		}

		if len(table.Writers) > 0 {
			fmt.Println("\nWriters:")
			for _, w := range table.Writers {
				fmt.Printf("  %-30s  %d/%d complete\n", w.Name, w.Complete, w.Total)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
