package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workplan/internal/cli/formatter"
	"github.com/alexanderramin/workplan/internal/domain"
	"github.com/alexanderramin/workplan/internal/service"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Create plans and move them through approval",
	}

	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanSubmitCmd(app),
		newPlanDecideCmd(app),
		newPlanHistoryCmd(app),
		newPlanChainCmd(app),
		newPlanReviseCmd(app),
	)

	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var operationID, orgID, title, by string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a draft plan for an org unit in an operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.Create(cmd.Context(), service.CreatePlanRequest{
				OperationID: operationID,
				OrgID:       orgID,
				Title:       title,
				CreatedBy:   by,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s (%s)\n", p.ID, formatter.StatusPill(p.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&operationID, "operation", "", "Operation ID")
	cmd.Flags().StringVar(&orgID, "org", "", "Owning org unit ID")
	cmd.Flags().StringVar(&title, "title", "", "Plan title")
	cmd.Flags().StringVar(&by, "by", "", "Author identity")
	_ = cmd.MarkFlagRequired("operation")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var operationID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every plan version of an operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.ListByOperation(cmd.Context(), operationID)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(plans))
			for _, p := range plans {
				rows = append(rows, []string{
					p.ID, p.OrgID, fmt.Sprintf("v%d", p.Version), formatter.StatusPill(p.Status),
					formatter.Money(p.Total()), p.Title,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ID", "ORG", "VERSION", "STATUS", "TOTAL", "TITLE"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&operationID, "operation", "", "Operation ID")
	_ = cmd.MarkFlagRequired("operation")

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a plan and its expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(p))
			return nil
		},
	}
}

func newPlanSubmitCmd(app *App) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "submit <plan-id>",
		Short: "Freeze a draft and send it to the first approval level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Workflow.Submit(cmd.Context(), args[0], by)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Submitted plan %s, awaiting %s\n", p.ID, p.Chain[0].Abbreviation)
			fmt.Fprint(out, formatter.FormatChain(p.Chain, p.Level()))
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "Submitter identity")

	return cmd
}

func newPlanDecideCmd(app *App) *cobra.Command {
	var actorID, orgID, action, reason string
	var expectLevel int

	cmd := &cobra.Command{
		Use:   "decide <plan-id>",
		Short: "Approve or reject a plan at its current level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseAction(action)
			if err != nil {
				return err
			}
			res, err := app.Workflow.Decide(cmd.Context(), service.DecideRequest{
				PlanID:        args[0],
				Actor:         domain.Actor{ID: actorID, OrgID: orgID},
				Action:        a,
				Reason:        reason,
				ExpectedLevel: expectLevel,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recorded %s at level %d, plan is %s\n",
				formatter.ActionPill(res.Decision.Action), res.Decision.Level, formatter.StatusPill(res.Plan.Status))
			if res.Plan.Status == domain.PlanInReview {
				fmt.Fprintf(out, "Next level: %d\n", res.Plan.Level())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&actorID, "actor", "", "Deciding actor identity")
	cmd.Flags().StringVar(&orgID, "org", "", "Org unit the actor decides for")
	cmd.Flags().StringVar(&action, "action", "", "approve or reject")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the decision")
	cmd.Flags().IntVar(&expectLevel, "expect-level", 0, "Fail unless the plan is still at this level")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}

func newPlanHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <plan-id>",
		Short: "Show the decision trail of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decisions, err := app.Workflow.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(decisions))
			return nil
		},
	}
}

func newPlanChainCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chain <plan-id>",
		Short: "Show the approval chain of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			chain, err := app.Workflow.Chain(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			if p.Status == domain.PlanDraft {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Preview from the current hierarchy"))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChain(chain, p.Level()))
			return nil
		},
	}
}

func newPlanReviseCmd(app *App) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "revise <plan-id>",
		Short: "Open a new draft version of a rejected plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Workflow.Revise(cmd.Context(), args[0], by)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created version %d as plan %s with %d expenses\n", p.Version, p.ID, len(p.Expenses))
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "Author identity")

	return cmd
}
