package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workplan/internal/cli/formatter"
	"github.com/alexanderramin/workplan/internal/service"
)

func newExpenseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Edit the expense lines of a draft plan",
	}

	cmd.AddCommand(
		newExpenseAddCmd(app),
		newExpenseEditCmd(app),
		newExpenseRemoveCmd(app),
	)

	return cmd
}

// expenseFlags are shared by add and edit.
type expenseFlags struct {
	class   string
	typ     string
	params  string
	orgs    shareListFlag
	natures shareListFlag
}

func (f *expenseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.class, "class", "", "Expense class (I to X)")
	cmd.Flags().StringVar(&f.typ, "type", "", "Expense type label (default: class label)")
	cmd.Flags().StringVar(&f.params, "params", "", "JSON payload, or @file to read it from a file")
	cmd.Flags().Var(&f.orgs, "orgs", "Org split, e.g. cia=70,btl=30 (default: plan org 100%)")
	cmd.Flags().Var(&f.natures, "natures", "Nature split, e.g. 33.90.30=100 (default: class default)")
	_ = cmd.MarkFlagRequired("class")
}

func (f *expenseFlags) request(planID string) (service.ExpenseRequest, error) {
	c, err := parseClass(f.class)
	if err != nil {
		return service.ExpenseRequest{}, err
	}
	raw, err := readParams(f.params)
	if err != nil {
		return service.ExpenseRequest{}, err
	}
	return service.ExpenseRequest{
		PlanID:       planID,
		Class:        c,
		Type:         f.typ,
		Params:       raw,
		OrgShares:    f.orgs.shares,
		NatureShares: f.natures.shares,
	}, nil
}

func newExpenseAddCmd(app *App) *cobra.Command {
	var flags expenseFlags

	cmd := &cobra.Command{
		Use:   "add <plan-id>",
		Short: "Price and append an expense line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			e, err := app.Plans.AddExpense(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added expense %s: %s\n", e.ID, formatter.Money(e.Total))
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newExpenseEditCmd(app *App) *cobra.Command {
	var flags expenseFlags
	var planID string

	cmd := &cobra.Command{
		Use:   "edit <expense-id>",
		Short: "Reprice and replace an expense line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expenseID, err := resolveExpenseID(cmd.Context(), app, planID, args[0])
			if err != nil {
				return err
			}
			req, err := flags.request(planID)
			if err != nil {
				return err
			}
			e, err := app.Plans.ReplaceExpense(cmd.Context(), expenseID, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated expense %s: %s\n", e.ID, formatter.Money(e.Total))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&planID, "plan", "", "Plan owning the expense")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newExpenseRemoveCmd(app *App) *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:     "rm <expense-id>",
		Aliases: []string{"remove"},
		Short:   "Remove an expense line from its draft plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expenseID, err := resolveExpenseID(cmd.Context(), app, planID, args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.RemoveExpense(cmd.Context(), expenseID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed expense %s\n", expenseID)
			return nil
		},
	}
	cmd.Flags().StringVar(&planID, "plan", "", "Plan owning the expense, enables short IDs")

	return cmd
}
