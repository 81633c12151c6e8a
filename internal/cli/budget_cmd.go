package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workplan/internal/cli/formatter"
)

func newBudgetCmd(app *App) *cobra.Command {
	var orgID string

	cmd := &cobra.Command{
		Use:   "budget <operation-id>",
		Short: "Show ceiling utilization of an operation's participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []formatter.BudgetRow
			if orgID != "" {
				status, err := app.Budget.CheckOrg(cmd.Context(), args[0], orgID)
				if err != nil {
					return err
				}
				rows = append(rows, formatter.BudgetRow{OrgID: orgID, Status: status})
			} else {
				all, err := app.Budget.CheckOperation(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, b := range all {
					rows = append(rows, formatter.BudgetRow{OrgID: b.OrgID, Status: b.Status})
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBudget(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "Limit to one participating org unit")

	return cmd
}
