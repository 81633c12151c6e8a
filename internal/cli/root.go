package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/workplan/internal/service"
)

// App holds the services CLI commands run against.
type App struct {
	Orgs       service.OrgService
	Operations service.OperationService
	Plans      service.PlanService
	Workflow   service.WorkflowService
	Budget     service.BudgetService
	Import     service.ImportService
}

// NewRootCmd creates the top-level "workplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "workplan",
		Short:         "Operational work plans, expense pricing and approval workflow",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newOrgCmd(app),
		newOperationCmd(app),
		newCalcCmd(app),
		newPlanCmd(app),
		newExpenseCmd(app),
		newBudgetCmd(app),
	)

	return root
}
