package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"colophon/internal/application/commands"
)

var ticketsQuery string

var ticketsCmd = &cobra.Command{
	Use:   "tickets [key]",
	Short: "List loaded tickets, or show one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if len(args) == 1 {
			ticket, err := commands.FindTicket(ctx, ticketSource(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s\n", ticket.ID, ticket.Summary)
			fmt.Printf("Doc type: %s\n", ticket.DocType)
			fmt.Printf("Doc text status: %s\n", ticket.DocTextStatus)
			if ticket.DocsContact != "" {
				fmt.Printf("Docs contact: %s\n", ticket.DocsContact)
			}
			if ticket.HasNote() {
				fmt.Printf("\n%s\n", ticket.DocText)
			}
			return nil
		}

		result, err := commands.NewTicketsCommand(ticketSource(), ticketsQuery).Execute(ctx)
		if err != nil {
			return err
		}
		for _, t := range result.Tickets {
			fmt.Printf("%-16s  %-12s  %s\n", t.ID, t.DocTextStatus, t.Summary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ticketsCmd)
	ticketsCmd.Flags().StringVarP(&ticketsQuery, "query", "q", "", "narrow the list by a key or summary substring")
}
