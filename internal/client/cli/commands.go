package cli

import (
	"problemtracker/internal/client/view"

	"github.com/spf13/cobra"
)

func newListCommand(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all problems",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(a().board.Refresh(cmd.Context()))
		},
	}
}

func newAddCommand(a func() *app) *cobra.Command {
	values := make(map[string]*string, len(view.Fields))

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new problem",
		Example: `  tracker add --title "Two Sum" --difficulty 1 --topic Arrays
  tracker add --title "LRU Cache" --difficulty 4 --deadline_date 2024-03-05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := a()
			for _, name := range view.Fields {
				if err := app.form.Set(name, *values[name]); err != nil {
					return err
				}
			}
			return reported(app.board.Submit(cmd.Context()))
		},
	}

	usage := map[string]string{
		view.FieldTitle:        "Problem title",
		view.FieldTopic:        "Topic (optional)",
		view.FieldDifficulty:   "Difficulty, an integer",
		view.FieldStatus:       "Initial status (backend default when empty)",
		view.FieldDeadlineDate: "Deadline as YYYY-MM-DD (optional)",
	}
	for _, name := range view.Fields {
		values[name] = cmd.Flags().String(name, "", usage[name])
	}
	return cmd
}

func newUpdateCommand(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <status>",
		Short: "Change the status of a problem",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := a()
			if _, err := app.board.OpenUpdate(cmd.Context(), args[0]); err != nil {
				return reported(err)
			}
			app.dialog.SetStatus(args[1])
			return reported(app.board.SaveUpdate(cmd.Context()))
		},
	}
}

func newDeleteCommand(a func() *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a problem",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := a()
			app.prompter.AssumeYes = force
			return reported(ignoreDeclined(app.board.Delete(cmd.Context(), args[0])))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}
