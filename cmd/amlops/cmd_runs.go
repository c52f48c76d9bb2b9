package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kompox/amlops/usecase/journal"
)

func newCmdRuns() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the setup run journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newCmdRunsList(), newCmdRunsGet())
	return cmd
}

func buildJournalUseCase(cmd *cobra.Command) (*journal.UseCase, error) {
	repo, err := buildRunRepository(cmd)
	if err != nil {
		return nil, err
	}
	return &journal.UseCase{Repos: &journal.Repos{Run: repo}}, nil
}

func newCmdRunsList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded runs (oldest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildJournalUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := u.List(cmd.Context(), &journal.ListInput{})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Runs)
		},
	}
}

func newCmdRunsGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <run-id>",
		Short: "Show a run with its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildJournalUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := u.Get(cmd.Context(), &journal.GetInput{RunID: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
