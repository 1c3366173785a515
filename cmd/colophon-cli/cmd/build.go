package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"colophon/internal/adapters/asciidoc"
	"colophon/internal/application/commands"
)

var buildTitle string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate both variants of the release notes document",
	Long: `Build the release notes document from the project's ticket snapshot
and document template.

The internal variant carries every release note plus debugging
information; the external variant carries only completed notes. Both
land under colophon/generated/, together with the status table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		template, err := project.LoadTemplate()
		if err != nil {
			return err
		}

		buildCmd := commands.NewBuildCommand(
			ticketSource(),
			asciidoc.New(buildTitle),
			template,
			project.GeneratedDir,
			log,
		)
		result, err := buildCmd.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Generated %d files in %s\n", result.Written, result.OutDir)
		fmt.Printf("Release notes %.0f%% complete (%d of %d)\n",
			result.Progress.Percent(), result.Progress.Complete, result.Progress.All)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildTitle, "title", "Release notes", "title of the master document")
}
